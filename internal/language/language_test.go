package language

import (
	"slices"
	"testing"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ENG", "English"},
		{"use", "English (US)"},
		{" ARA ", "Arabic"},
		{"", "Unknown"},
		{"XYZ", "Xyz"},
		{"N/A", "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToISO2(t *testing.T) {
	tests := map[string]string{
		"ENG": "en",
		"USE": "en",
		"chi": "zh",
		"FAR": "fa",
		"XYZ": "",
		"":    "",
	}
	for input, want := range tests {
		if got := ToISO2(input); got != want {
			t.Errorf("ToISO2(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestEnglishCodes(t *testing.T) {
	if got := EnglishCodes(); !slices.Equal(got, []string{"ENG", "USE"}) {
		t.Fatalf("unexpected english codes %v", got)
	}
}
