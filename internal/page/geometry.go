package page

import "github.com/OpenPrinting/go-mfp/abstract"

// PointsPerInch is the reference resolution of document coordinates.
const PointsPerInch = 72

// inch expressed in abstract.Dimension units (1/100 mm).
const inch = 254 * abstract.Millimeter / 10

// Geometry describes a page's pixel grid and its physical size.
type Geometry struct {
	Width      int // pixels
	Height     int // pixels
	Resolution abstract.Resolution
}

// NewGeometry builds a Geometry for a width x height page scanned at dpi.
// A dpi of zero is replaced by fallback.
func NewGeometry(width, height, dpi, fallback int) Geometry {
	res := abstract.Resolution{XResolution: dpi, YResolution: dpi}
	if res.IsZero() || dpi < 0 {
		res = abstract.Resolution{XResolution: fallback, YResolution: fallback}
	}
	return Geometry{Width: width, Height: height, Resolution: res}
}

// Points returns the page size in 1/72 inch units.
func (g Geometry) Points() (w, h float64) {
	w = float64(g.Width) / float64(g.Resolution.XResolution) * PointsPerInch
	h = float64(g.Height) / float64(g.Resolution.YResolution) * PointsPerInch
	return w, h
}

// Size returns the page size as abstract dimensions, rounded to the
// nearest unit.
func (g Geometry) Size() (w, h abstract.Dimension) {
	return toDimension(g.Width, g.Resolution.XResolution), toDimension(g.Height, g.Resolution.YResolution)
}

func toDimension(px, dpi int) abstract.Dimension {
	d := abstract.Dimension(dpi)
	return (abstract.Dimension(px)*inch + d/2) / d
}
