package page

import (
	"image"
	"image/color"
)

// Page is a completed page: packed 8-bit RGB rows, top to bottom.
type Page struct {
	Index    int // 0-based
	Geometry Geometry
	Pix      []byte
}

// Image returns the page as an image.Image without copying.
func (p *Page) Image() *RGB {
	return &RGB{
		Pix:    p.Pix,
		Stride: p.Geometry.Width * 3,
		Rect:   image.Rect(0, 0, p.Geometry.Width, p.Geometry.Height),
	}
}

// RGB is an in-memory image of opaque, packed 24-bit pixels.
type RGB struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

func (m *RGB) ColorModel() color.Model { return color.RGBAModel }

func (m *RGB) Bounds() image.Rectangle { return m.Rect }

func (m *RGB) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Rect)) {
		return color.RGBA{}
	}
	i := m.PixOffset(x, y)
	return color.RGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], 0xFF}
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (m *RGB) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*3
}

// Opaque reports that every pixel is fully opaque.
func (m *RGB) Opaque() bool { return true }
