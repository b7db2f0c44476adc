package icon

import (
	"math"
	"strings"
	"testing"

	"github.com/shelepuginivan/headset-tray/internal/battery"
)

func TestMap(t *testing.T) {
	tests := []struct {
		value    float64
		expected float64
	}{
		{value: 0, expected: 71},
		{value: 100, expected: 108},
		{value: 50, expected: 89.5},
		{value: 55, expected: 91.35},
		{value: 200, expected: 145},
		{value: -100, expected: 34},
	}

	for _, tt := range tests {
		result := Map(tt.value, 0, 100, 71, 108)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("Map(%v, 0, 100, 71, 108) = %v, want %v", tt.value, result, tt.expected)
		}
	}

	if Map(0, 0, 100, 71, 108) != 71 || Map(100, 0, 100, 71, 108) != 108 || Map(50, 0, 100, 71, 108) != 89.5 {
		t.Error("Map() is not exact at 0, 50, and 100")
	}
}

func TestFillColor(t *testing.T) {
	tests := []struct {
		name     string
		reading  battery.Reading
		expected string
	}{
		{
			name:     "Charging",
			reading:  battery.Reading{Status: battery.Charging, Level: 10},
			expected: ColorCharging,
		},
		{
			name:     "Unavailable",
			reading:  battery.Reading{Status: battery.Unavailable, Level: 90},
			expected: ColorAbsent,
		},
		{
			name:     "Low",
			reading:  battery.Reading{Status: battery.Available, Level: 20},
			expected: ColorLow,
		},
		{
			name:     "Normal",
			reading:  battery.Reading{Status: battery.Available, Level: 21},
			expected: ColorNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := FillColor(tt.reading); result != tt.expected {
				t.Errorf("FillColor(%v) = %q, want %q", tt.reading, result, tt.expected)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	reading := battery.Reading{Status: battery.Charging, Level: 55}
	doc := Document(reading)

	for _, token := range []string{levelToken, colorToken, widthToken} {
		if strings.Contains(doc, token) {
			t.Errorf("Document() contains unsubstituted token %q", token)
		}
	}

	for _, want := range []string{`fill="#00ff00"`, `width="91.35"`, `>55</text>`} {
		if !strings.Contains(doc, want) {
			t.Errorf("Document() does not contain %s", want)
		}
	}

	if width := FillWidth(reading); math.Abs(width-91.35) > 1e-9 {
		t.Errorf("FillWidth() = %v, want 91.35", width)
	}
}

func TestTemplateHasTokens(t *testing.T) {
	for _, token := range []string{levelToken, colorToken, widthToken} {
		if strings.Count(inkTemplate, token) != 1 {
			t.Errorf("template contains %d %q tokens, want 1", strings.Count(inkTemplate, token), token)
		}
	}
}
