package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RasterCanvas is a software canvas backed by an opaque RGBA image.
// It is used headless, as the terminal framebuffer, and in tests.
type RasterCanvas struct {
	img  *image.RGBA
	mode CompositeMode
}

// NewRasterCanvas creates a black canvas of the given size.
func NewRasterCanvas(width, height int) *RasterCanvas {
	c := &RasterCanvas{}
	c.Resize(width, height)
	return c
}

// Size returns the bitmap dimensions.
func (c *RasterCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize discards the bitmap and allocates a black one of the new size.
func (c *RasterCanvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(c.img.Pix); i += 4 {
		c.img.Pix[i] = 255
	}
}

// SetCompositeMode sets how subsequent fills combine with the bitmap.
func (c *RasterCanvas) SetCompositeMode(mode CompositeMode) {
	c.mode = mode
}

// CompositeMode returns the current composite mode.
func (c *RasterCanvas) CompositeMode() CompositeMode {
	return c.mode
}

// Image returns the backing image. Callers must not retain it across Resize.
func (c *RasterCanvas) Image() *image.RGBA {
	return c.img
}

// At returns the pixel at (x, y).
func (c *RasterCanvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// FillRect fills the pixels whose centres fall inside the rectangle.
func (c *RasterCanvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	b := c.img.Bounds()
	x0 := max(int(math.Round(x)), b.Min.X)
	y0 := max(int(math.Round(y)), b.Min.Y)
	x1 := min(int(math.Round(x+w)), b.Max.X)
	y1 := min(int(math.Round(y+h)), b.Max.Y)

	a := float64(col.A) / 255
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.blend(px, py, col, a)
		}
	}
}

// FillCircle fills an anti-aliased disc; coverage falls off over the last pixel of the radius.
func (c *RasterCanvas) FillCircle(cx, cy, r float64, col color.NRGBA) {
	if r <= 0 {
		return
	}
	b := c.img.Bounds()
	x0 := max(int(math.Floor(cx-r-1)), b.Min.X)
	y0 := max(int(math.Floor(cy-r-1)), b.Min.Y)
	x1 := min(int(math.Ceil(cx+r+1)), b.Max.X)
	y1 := min(int(math.Ceil(cy+r+1)), b.Max.Y)

	a := float64(col.A) / 255
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d := math.Hypot(float64(px)+0.5-cx, float64(py)+0.5-cy)
			cov := clamp01(r + 0.5 - d)
			if cov > 0 {
				c.blend(px, py, col, a*cov)
			}
		}
	}
}

// StrokePath strokes connected segments. Pixels covered by several segments are painted once.
func (c *RasterCanvas) StrokePath(points []Point, width float64, col color.NRGBA) {
	if len(points) < 2 || width <= 0 {
		return
	}
	half := width / 2
	b := c.img.Bounds()
	coverage := make(map[int]float64)

	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]
		x0 := max(int(math.Floor(math.Min(p.X, q.X)-half-1)), b.Min.X)
		y0 := max(int(math.Floor(math.Min(p.Y, q.Y)-half-1)), b.Min.Y)
		x1 := min(int(math.Ceil(math.Max(p.X, q.X)+half+1)), b.Max.X)
		y1 := min(int(math.Ceil(math.Max(p.Y, q.Y)+half+1)), b.Max.Y)

		for py := y0; py < y1; py++ {
			for px := x0; px < x1; px++ {
				d := segmentDistance(float64(px)+0.5, float64(py)+0.5, p, q)
				cov := clamp01(half + 0.5 - d)
				idx := py*b.Dx() + px
				if cov > coverage[idx] {
					coverage[idx] = cov
				}
			}
		}
	}

	a := float64(col.A) / 255
	for idx, cov := range coverage {
		if cov > 0 {
			c.blend(idx%b.Dx(), idx/b.Dx(), col, a*cov)
		}
	}
}

// DrawText draws text with its baseline at y using the fixed 7x13 face; size is ignored.
func (c *RasterCanvas) DrawText(text string, x, y float64, _ int, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(text)
}

// WritePNG encodes the current bitmap to path.
func (c *RasterCanvas) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, c.img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return nil
}

// blend composites one pixel with effective alpha a in the current mode.
func (c *RasterCanvas) blend(x, y int, col color.NRGBA, a float64) {
	i := c.img.PixOffset(x, y)
	pix := c.img.Pix[i : i+3 : i+3]
	src := [3]uint8{col.R, col.G, col.B}

	switch c.mode {
	case CompositeLighter:
		for k := range pix {
			pix[k] = uint8(math.Min(255, math.Round(float64(pix[k])+float64(src[k])*a)))
		}
	default:
		for k := range pix {
			pix[k] = uint8(math.Round(float64(src[k])*a + float64(pix[k])*(1-a)))
		}
	}
}

func segmentDistance(x, y float64, p, q Point) float64 {
	dx, dy := q.X-p.X, q.Y-p.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(x-p.X, y-p.Y)
	}
	t := clamp01(((x-p.X)*dx + (y-p.Y)*dy) / lenSq)
	return math.Hypot(x-(p.X+t*dx), y-(p.Y+t*dy))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
