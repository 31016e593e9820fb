// Package renderer provides the drawing surfaces and the renderers that paint simulation state onto them.
package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/emberfield/config"
)

// CompositeMode selects how new draws combine with existing pixels.
type CompositeMode uint8

const (
	CompositeSourceOver CompositeMode = iota // Normal alpha compositing
	CompositeLighter                         // Additive: overlapping draws brighten
)

// Point is a 2D position in canvas pixels.
type Point struct {
	X, Y float64
}

// Canvas is a 2D raster the animation draws onto. It never reads pixels back.
type Canvas interface {
	Size() (width, height int)
	Resize(width, height int)
	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	SetCompositeMode(mode CompositeMode)
}

// Surface is a Canvas that can also stroke paths and draw text, used by the overlays.
type Surface interface {
	Canvas
	StrokePath(points []Point, width float64, c color.NRGBA)
	DrawText(text string, x, y float64, size int, c color.NRGBA)
}

// RGBA converts a config color and a [0,1] alpha to a non-premultiplied color.
func RGBA(rgb config.RGB, alpha float64) color.NRGBA {
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha8(alpha)}
}

func alpha8(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(math.Round(a * 255))
}
