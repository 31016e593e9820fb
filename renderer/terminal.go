package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

// CellPixels is the number of canvas pixels covered by one terminal half-cell on each axis.
// A terminal cell is CellPixels wide and 2*CellPixels tall.
const CellPixels = 8

// halfBlock paints the top half of a cell in the foreground color and the bottom half in the background.
const halfBlock = '▀'

type cellText struct {
	col, row int
	text     string
	color    color.NRGBA
}

// TerminalCanvas renders into a raster with one pixel per half-cell and flushes it as
// half-block characters. Drawing coordinates are in canvas pixels and scaled down by CellPixels.
type TerminalCanvas struct {
	raster     *RasterCanvas
	cols, rows int
	texts      []cellText
}

// NewTerminalCanvas creates a canvas for a terminal of cols x rows cells.
func NewTerminalCanvas(cols, rows int) *TerminalCanvas {
	c := &TerminalCanvas{raster: NewRasterCanvas(0, 0)}
	c.resizeCells(cols, rows)
	return c
}

func (c *TerminalCanvas) resizeCells(cols, rows int) {
	c.cols, c.rows = cols, rows
	c.raster.Resize(cols, rows*2)
	c.texts = c.texts[:0]
}

// Size returns the canvas size in pixels.
func (c *TerminalCanvas) Size() (int, int) {
	return c.cols * CellPixels, c.rows * 2 * CellPixels
}

// Cells returns the terminal size in cells.
func (c *TerminalCanvas) Cells() (cols, rows int) {
	return c.cols, c.rows
}

// Resize takes a size in canvas pixels and rounds down to whole cells.
func (c *TerminalCanvas) Resize(width, height int) {
	c.resizeCells(width/CellPixels, height/(2*CellPixels))
}

// SetCompositeMode sets the raster composite mode.
func (c *TerminalCanvas) SetCompositeMode(mode CompositeMode) {
	c.raster.SetCompositeMode(mode)
}

// FillRect fills a rectangle given in canvas pixels.
func (c *TerminalCanvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	c.raster.FillRect(x/CellPixels, y/CellPixels, w/CellPixels, h/CellPixels, col)
}

// FillCircle fills a circle; radii below half a terminal pixel are raised so every particle shows.
func (c *TerminalCanvas) FillCircle(cx, cy, r float64, col color.NRGBA) {
	c.raster.FillCircle(cx/CellPixels, cy/CellPixels, math.Max(r/CellPixels, 0.5), col)
}

// StrokePath strokes a polyline at least one terminal pixel wide.
func (c *TerminalCanvas) StrokePath(points []Point, width float64, col color.NRGBA) {
	scaled := make([]Point, len(points))
	for i, p := range points {
		scaled[i] = Point{X: p.X / CellPixels, Y: p.Y / CellPixels}
	}
	c.raster.StrokePath(scaled, math.Max(width/CellPixels, 1), col)
}

// DrawText queues text to be written as characters at the cell containing (x, y).
func (c *TerminalCanvas) DrawText(text string, x, y float64, _ int, col color.NRGBA) {
	c.texts = append(c.texts, cellText{
		col:   int(x / CellPixels),
		row:   int(y / (2 * CellPixels)),
		text:  text,
		color: col,
	})
}

// Flush writes the frame to the screen and clears the queued text.
func (c *TerminalCanvas) Flush(screen tcell.Screen) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			top := c.raster.At(col, row*2)
			bottom := c.raster.At(col, row*2+1)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			screen.SetContent(col, row, halfBlock, nil, style)
		}
	}

	for _, t := range c.texts {
		if t.row < 0 || t.row >= c.rows {
			continue
		}
		for i, r := range []rune(t.text) {
			col := t.col + i
			if col < 0 || col >= c.cols {
				continue
			}
			bg := c.CellColor(col, t.row)
			fg := mix(bg, t.color)
			screen.SetContent(col, t.row, r, nil, tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(bg)))
		}
	}
	c.texts = c.texts[:0]

	screen.Show()
}

// CellColor returns the average of the two pixels behind a cell.
func (c *TerminalCanvas) CellColor(col, row int) color.RGBA {
	top := c.raster.At(col, row*2)
	bottom := c.raster.At(col, row*2+1)
	return color.RGBA{
		R: uint8((uint16(top.R) + uint16(bottom.R)) / 2),
		G: uint8((uint16(top.G) + uint16(bottom.G)) / 2),
		B: uint8((uint16(top.B) + uint16(bottom.B)) / 2),
		A: 255,
	}
}

// mix composites src over an opaque dst.
func mix(dst color.RGBA, src color.NRGBA) color.RGBA {
	a := float64(src.A) / 255
	blend := func(d, s uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*(1-a)))
	}
	return color.RGBA{R: blend(dst.R, src.R), G: blend(dst.G, src.G), B: blend(dst.B, src.B), A: 255}
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
