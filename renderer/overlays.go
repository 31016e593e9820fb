package renderer

import (
	"image/color"
	"strconv"

	"github.com/pthm-cable/emberfield/components"
	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/systems"
)

// curveSteps is the number of line segments per quadratic curve when flattening the dragon body.
const curveSteps = 4

// DragonRenderer draws the dragon body as a smoothed stroke with a glowing eye at the head.
type DragonRenderer struct {
	cfg  config.DragonConfig
	body color.NRGBA
	eye  color.NRGBA

	path []Point
}

// NewDragonRenderer creates a renderer for the configured dragon.
func NewDragonRenderer(cfg config.DragonConfig) *DragonRenderer {
	return &DragonRenderer{
		cfg:  cfg,
		body: RGBA(cfg.BodyColor, cfg.BodyAlpha),
		eye:  RGBA(cfg.EyeColor, 1),
	}
}

// Draw strokes the body and paints the eye.
func (r *DragonRenderer) Draw(s Surface, d *systems.Dragon) {
	if len(d.Segments) == 0 {
		return
	}
	r.path = SmoothPath(r.path[:0], d.Segments)
	s.StrokePath(r.path, r.cfg.LineWidth, r.body)

	hx, hy := d.Head()
	r.drawEye(s, hx, hy)
}

// drawEye fakes a blurred halo with concentric translucent discs under a solid core.
func (r *DragonRenderer) drawEye(s Surface, x, y float64) {
	if r.cfg.EyeGlow > 0 {
		const rings = 4
		step := r.cfg.EyeGlow / rings
		for i := rings; i > 0; i-- {
			halo := r.eye
			halo.A = alpha8(0.15 / float64(i))
			s.FillCircle(x, y, r.cfg.EyeRadius+step*float64(i), halo)
		}
	}
	s.FillCircle(x, y, r.cfg.EyeRadius, r.eye)
}

// SmoothPath appends a polyline through the segments, rounding each joint with a quadratic
// curve that uses the segment as control point and ends at the midpoint to the next one.
func SmoothPath(dst []Point, segs []systems.Segment) []Point {
	if len(segs) == 0 {
		return dst
	}
	dst = append(dst, Point{X: segs[0].X, Y: segs[0].Y})
	if len(segs) < 3 {
		for _, s := range segs[1:] {
			dst = append(dst, Point{X: s.X, Y: s.Y})
		}
		return dst
	}

	for i := 1; i < len(segs)-2; i++ {
		start := dst[len(dst)-1]
		ctrl := Point{X: segs[i].X, Y: segs[i].Y}
		end := Point{X: (segs[i].X + segs[i+1].X) / 2, Y: (segs[i].Y + segs[i+1].Y) / 2}
		for k := 1; k <= curveSteps; k++ {
			t := float64(k) / curveSteps
			u := 1 - t
			dst = append(dst, Point{
				X: u*u*start.X + 2*u*t*ctrl.X + t*t*end.X,
				Y: u*u*start.Y + 2*u*t*ctrl.Y + t*t*end.Y,
			})
		}
	}
	return dst
}

// NumberRenderer draws the floating number glyphs.
type NumberRenderer struct {
	cfg config.NumbersConfig
}

// NewNumberRenderer creates a renderer for the configured number field.
func NewNumberRenderer(cfg config.NumbersConfig) *NumberRenderer {
	return &NumberRenderer{cfg: cfg}
}

// Draw paints every glyph at its own opacity.
func (r *NumberRenderer) Draw(s Surface, f *systems.NumberField) {
	f.Each(func(pos components.Position, g components.Glyph) {
		s.DrawText(strconv.Itoa(g.Value), pos.X, pos.Y, r.cfg.FontSize, RGBA(r.cfg.Color, g.Opacity))
	})
}
