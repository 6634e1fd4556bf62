package keyframe

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		value    float64
		expected string
	}{
		{"n0", "n0", 12.6, "13"},
		{"n1 negative", "n1", -180, "-180.0"},
		{"n2 grouping", "n2", 1234567.891, "1,234,567.89"},
		{"n3", "n3", 0.0005, "0.001"},
		{"n default decimals", "n", 3, "3.00"},
		{"f without grouping", "f2", 1234.5, "1234.50"},
		{"negative grouping", "n0", -1000, "-1,000"},
		{"empty format", "", 0.25, "0.25"},
		{"unknown format", "x9", 2.5, "2.5"},
		{"bad digits", "nZ", 2.5, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNumber(tt.format, tt.value); got != tt.expected {
				t.Errorf("FormatNumber(%q, %v) = %q, want %q", tt.format, tt.value, got, tt.expected)
			}
		})
	}
}

func TestConversionApply(t *testing.T) {
	if got := ToDegrees.Apply(math.Pi); math.Abs(got-180) > epsilon {
		t.Errorf("ToDegrees.Apply(pi) = %v, want 180", got)
	}
	if got := ToRadians.Apply(180); math.Abs(got-math.Pi) > epsilon {
		t.Errorf("ToRadians.Apply(180) = %v, want pi", got)
	}
	if got := None.Apply(7); got != 7 {
		t.Errorf("None.Apply(7) = %v, want 7", got)
	}
}

func TestParseConversion(t *testing.T) {
	tests := []struct {
		input    string
		expected Conversion
		ok       bool
	}{
		{"", None, true},
		{"None", None, true},
		{"degrees", ToDegrees, true},
		{"ToRadians", ToRadians, true},
		{"gradians", None, false},
	}

	for _, tt := range tests {
		got, ok := ParseConversion(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseConversion(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestTrackText_DoesNotConvertStoredValue(t *testing.T) {
	track := NewTrack(-math.Pi, math.Pi, 0.1, "n0", ToDegrees)
	track.SetValue(math.Pi / 2)

	if got := track.ValueText(); got != "90" {
		t.Errorf("ValueText() = %q, want \"90\"", got)
	}
	if got := track.MinText(); got != "-180" {
		t.Errorf("MinText() = %q, want \"-180\"", got)
	}
	if got := track.MaxText(); got != "180" {
		t.Errorf("MaxText() = %q, want \"180\"", got)
	}
	if track.Value() != math.Pi/2 {
		t.Errorf("Value() = %v, stored value was converted", track.Value())
	}
}
