package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stratixlabs/okrimport/internal/ingest"
	"github.com/stratixlabs/okrimport/internal/logging"
	"github.com/stratixlabs/okrimport/internal/report"
	"github.com/stratixlabs/okrimport/internal/store"
	"github.com/stratixlabs/okrimport/internal/workbook"
)

// importResponse is the payload returned by POST /api/imports.
type importResponse struct {
	JobID string `json:"job_id"`
	*ingest.Summary
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleImport accepts a workbook upload and runs the import synchronously.
//
// The caller has already been authenticated upstream; tenancy arrives as an
// explicit tenant_id form field. A workbook that cannot be decoded fails
// the whole job with no writes; anything after a successful decode degrades
// into sheet- and row-level diagnostics on the job summary.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tenantID, err := uuid.Parse(r.FormValue("tenant_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid tenant_id")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	jobID, err := s.store.CreateImportJob(r.Context(), tenantID, header.Filename)
	if err != nil {
		logger.Error("create import job", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start import")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	sheets, err := workbook.Decode(file)
	if err != nil {
		logger.Warn("workbook decode failed", "job_id", jobID, "file", header.Filename, "error", err)
		_ = s.store.FinishImportJob(ctx, jobID, string(ingest.JobFailed), 0, err.Error())
		writeJSON(w, importResponse{
			JobID: jobID.String(),
			Summary: &ingest.Summary{
				Status: ingest.JobFailed,
				Errors: []string{"workbook could not be decoded: " + err.Error()},
			},
		})
		return
	}

	var opts []ingest.Option
	if s.cfg.Ingest.StrictThresholds {
		opts = append(opts, ingest.WithThresholds(ingest.StrictThresholds))
	}

	orch := ingest.NewOrchestrator(s.store, logger, opts...)
	summary, err := orch.Run(ctx, tenantID, sheets)
	if err != nil {
		logger.Error("import run failed", "job_id", jobID, "error", err)
		_ = s.store.FinishImportJob(ctx, jobID, string(ingest.JobFailed), 0, err.Error())
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	if err := s.store.FinishImportJob(ctx, jobID, string(summary.Status),
		summary.Counts.Rows, strings.Join(summary.Errors, "\n")); err != nil {
		logger.Error("finish import job", "job_id", jobID, "error", err)
	}

	writeJSON(w, importResponse{JobID: jobID.String(), Summary: summary})
}

// handleGetJob returns the persisted record of one import job.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := s.store.GetImportJob(r.Context(), jobID)
	if errors.Is(err, store.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, "import job not found")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("get import job", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load import job")
		return
	}

	writeJSON(w, job)
}

// handleListAreas returns the tenant's canonical area list.
func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	areas, err := s.store.ListAreas(r.Context(), tenantID)
	if err != nil {
		logging.FromContext(r.Context()).Error("list areas", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load areas")
		return
	}

	type areaJSON struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]areaJSON, len(areas))
	for i, a := range areas {
		out[i] = areaJSON{ID: a.ID.String(), Name: a.Name}
	}
	writeJSON(w, out)
}

// handleOverview returns the tenant-wide rollup.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	overview, err := s.reports.Overview(r.Context(), tenantID)
	if err != nil {
		logging.FromContext(r.Context()).Error("company overview", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build overview")
		return
	}
	writeJSON(w, overview)
}

// handleAreaKPIs returns the KPI rollup for one area, resolved by name.
func (s *Server) handleAreaKPIs(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	kpis, err := s.reports.AreaKPIs(r.Context(), tenantID, chi.URLParam(r, "name"))
	if errors.Is(err, report.ErrAreaNotFound) {
		writeError(w, http.StatusNotFound, "area not found")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("area kpis", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build area KPIs")
		return
	}
	writeJSON(w, kpis)
}

// handleInitiativeStatus returns the status of one initiative by name.
func (s *Server) handleInitiativeStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	status, err := s.reports.InitiativeStatus(r.Context(), tenantID, chi.URLParam(r, "name"))
	if errors.Is(err, store.ErrInitiativeNotFound) {
		writeError(w, http.StatusNotFound, "initiative not found")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("initiative status", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load initiative status")
		return
	}
	writeJSON(w, status)
}

// tenantFromQuery extracts and validates the tenant_id query parameter.
func tenantFromQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid tenant_id")
		return uuid.UUID{}, false
	}
	return tenantID, true
}
