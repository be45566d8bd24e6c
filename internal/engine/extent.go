package engine

import (
	"strconv"
	"strings"
)

// Extent is a rectangular map extent in project CRS units.
type Extent struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Width returns the horizontal span of the extent.
func (e Extent) Width() float64 {
	return e.XMax - e.XMin
}

// Height returns the vertical span of the extent.
func (e Extent) Height() float64 {
	return e.YMax - e.YMin
}

// IsEmpty reports whether the extent spans no area.
func (e Extent) IsEmpty() bool {
	return e.Width() <= 0 || e.Height() <= 0
}

// Center returns the extent midpoint.
func (e Extent) Center() (x, y float64) {
	return (e.XMin + e.XMax) / 2, (e.YMin + e.YMax) / 2
}

// Intersect clips the extent against other. The result may be empty.
func (e Extent) Intersect(other Extent) Extent {
	r := Extent{
		XMin: maxFloat(e.XMin, other.XMin),
		YMin: maxFloat(e.YMin, other.YMin),
		XMax: minFloat(e.XMax, other.XMax),
		YMax: minFloat(e.YMax, other.YMax),
	}
	return r
}

// AsWKTPolygon renders the extent as a closed five-point well-known-text
// polygon, counter-clockwise from the lower-left corner.
func (e Extent) AsWKTPolygon() string {
	var b strings.Builder
	b.WriteString("POLYGON((")
	writePoint(&b, e.XMin, e.YMin)
	b.WriteString(", ")
	writePoint(&b, e.XMax, e.YMin)
	b.WriteString(", ")
	writePoint(&b, e.XMax, e.YMax)
	b.WriteString(", ")
	writePoint(&b, e.XMin, e.YMax)
	b.WriteString(", ")
	writePoint(&b, e.XMin, e.YMin)
	b.WriteString("))")
	return b.String()
}

func writePoint(b *strings.Builder, x, y float64) {
	b.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(y, 'f', -1, 64))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
