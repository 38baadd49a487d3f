package ingest

import "testing"

func TestNormalizeProgress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     int
		wantDiag bool
	}{
		// Fractional ratio: values <= 1 are multiplied by 100. A bare 1
		// therefore means 100%, not 1%.
		{"fraction half", "0.5", 50, false},
		{"fraction comma", "0,75", 75, false},
		{"one is full", "1", 100, false},
		{"zero", "0", 0, false},
		// Whole percentages: (1, 100] used as-is.
		{"plain percent", "75", 75, false},
		{"percent sign", "75%", 75, false},
		{"rounding up", "66.6", 67, false},
		{"full", "100", 100, false},
		// Out of range clamps and diagnoses.
		{"above range", "150%", 100, true},
		{"way above", "1200", 100, true},
		{"negative", "-20", 0, true},
		// Non-numeric is an error with value 0.
		{"words", "casi listo", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeProgress(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeProgress(%q) = %d, want %d", tt.input, got, tt.want)
			}
			if (err != nil) != tt.wantDiag {
				t.Errorf("NormalizeProgress(%q) diagnostic = %v, want diagnostic %v", tt.input, err, tt.wantDiag)
			}
		})
	}
}

func TestInferStatus_FromCell(t *testing.T) {
	tests := []struct {
		cell string
		want Status
	}{
		{"Finalizado", StatusOnTrack},
		{"FINALIZADO", StatusOnTrack},
		{"on track", StatusOnTrack},
		{"Verde", StatusOnTrack},
		{"✓", StatusOnTrack},
		{"En curso", StatusInProgress},
		{"in progress", StatusInProgress},
		{"Amarillo", StatusInProgress},
		{"Atrasado", StatusBlocked},
		{"CRÍTICO", StatusBlocked},
		{"critico", StatusBlocked},
		{"at risk", StatusBlocked},
		{"Rojo", StatusBlocked},
	}

	for _, tt := range tests {
		// Progress of 0 would force blocked via thresholds; a keyword
		// match must win over the fallback.
		if got := InferStatus(tt.cell, 0, DefaultThresholds); got != tt.want {
			t.Errorf("InferStatus(%q) = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestInferStatus_ThresholdFallback(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		progress int
		th       Thresholds
		want     Status
	}{
		{"no cell high", "", 80, DefaultThresholds, StatusOnTrack},
		{"no cell boundary high", "", 75, DefaultThresholds, StatusOnTrack},
		{"no cell middle", "", 50, DefaultThresholds, StatusInProgress},
		{"no cell boundary low", "", 40, DefaultThresholds, StatusInProgress},
		{"no cell low", "", 39, DefaultThresholds, StatusBlocked},
		{"unrecognized text falls back", "quién sabe", 80, DefaultThresholds, StatusOnTrack},
		{"strict high", "", 80, StrictThresholds, StatusInProgress},
		{"strict low", "", 24, StrictThresholds, StatusBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferStatus(tt.cell, tt.progress, tt.th); got != tt.want {
				t.Errorf("InferStatus(%q, %d) = %q, want %q", tt.cell, tt.progress, got, tt.want)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  Priority
	}{
		{"Alta", PriorityHigh},
		{"HIGH", PriorityHigh},
		{"media", PriorityMedium},
		{"Normal", PriorityMedium},
		{"baja", PriorityLow},
		{"low", PriorityLow},
		{"", PriorityUnset},
		{"???", PriorityUnset},
	}

	for _, tt := range tests {
		if got := ParsePriority(tt.input); got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
