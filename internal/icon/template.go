// Package icon renders battery readings into tray icons.
//
// A reading is substituted into an embedded SVG template, rasterized, and
// converted into the ARGB pixmap format of the StatusNotifierItem
// specification. Rendered icons are memoized by [Cache].
package icon

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/shelepuginivan/headset-tray/internal/battery"
)

//go:embed ink.svg
var inkTemplate string

// Placeholder tokens of the template.
const (
	levelToken = "BAT"
	colorToken = "FG_COLOR"
	widthToken = "WIDTH"
)

// Fill colors, RRGGBB without the leading #.
const (
	ColorCharging = "00ff00"
	ColorAbsent   = "000000"
	ColorLow      = "ff0000"
	ColorNormal   = "ffffff"
)

// LowLevel is the highest battery level considered low.
const LowLevel = 20

// Battery fill width in template units for levels 0 and 100.
const (
	minFillWidth = 71
	maxFillWidth = 108
)

// FillColor returns fill color of the battery for the reading.
func FillColor(r battery.Reading) string {
	switch r.Status {
	case battery.Charging:
		return ColorCharging
	case battery.Unavailable:
		return ColorAbsent
	}

	if r.Level <= LowLevel {
		return ColorLow
	}

	return ColorNormal
}

// FillWidth returns width of the battery fill for the reading. Levels
// outside of [0, 100] are extrapolated.
func FillWidth(r battery.Reading) float64 {
	return Map(float64(r.Level), 0, 100, minFillWidth, maxFillWidth)
}

// Map linearly maps value from [inStart, inEnd] to [outStart, outEnd]. Values
// outside of the input range are extrapolated, not clamped.
func Map(value, inStart, inEnd, outStart, outEnd float64) float64 {
	return outStart + ((outEnd-outStart)/(inEnd-inStart))*(value-inStart)
}

// Document returns the SVG document of the icon for the reading.
func Document(r battery.Reading) string {
	return strings.NewReplacer(
		levelToken, strconv.Itoa(r.Level),
		colorToken, FillColor(r),
		widthToken, strconv.FormatFloat(FillWidth(r), 'f', -1, 64),
	).Replace(inkTemplate)
}
