package systems

import (
	"math"

	"github.com/pthm-cable/emberfield/config"
)

// Segment is one link of the dragon chain.
type Segment struct {
	X, Y float64
	Size float64
}

// Dragon is a follow-the-leader chain whose head eases toward the pointer.
type Dragon struct {
	Segments []Segment

	cfg              config.DragonConfig
	targetX, targetY float64
}

// NewDragon creates a dragon coiled at the canvas centre.
func NewDragon(cfg config.DragonConfig, width, height float64) *Dragon {
	d := &Dragon{
		Segments: make([]Segment, cfg.Segments),
		cfg:      cfg,
	}
	d.Resize(width, height)
	return d
}

// Resize recreates the chain at the centre of the new canvas.
func (d *Dragon) Resize(width, height float64) {
	cx, cy := width/2, height/2
	for i := range d.Segments {
		// Head is largest
		d.Segments[i] = Segment{X: cx, Y: cy, Size: math.Max(1, 20-float64(i)*0.2)}
	}
	d.targetX, d.targetY = cx, cy
}

// Update eases the head toward the last active pointer position and drags the body after it.
func (d *Dragon) Update(ptr PointerState) {
	if len(d.Segments) == 0 {
		return
	}
	if ptr.Active {
		d.targetX, d.targetY = ptr.X, ptr.Y
	}

	head := &d.Segments[0]
	head.X += (d.targetX - head.X) * d.cfg.Ease
	head.Y += (d.targetY - head.Y) * d.cfg.Ease

	for i := 1; i < len(d.Segments); i++ {
		prev := &d.Segments[i-1]
		curr := &d.Segments[i]

		angle := math.Atan2(prev.Y-curr.Y, prev.X-curr.X)
		curr.X = prev.X - math.Cos(angle)*d.cfg.LinkLength
		curr.Y = prev.Y - math.Sin(angle)*d.cfg.LinkLength
	}
}

// Head returns the head position.
func (d *Dragon) Head() (x, y float64) {
	if len(d.Segments) == 0 {
		return 0, 0
	}
	return d.Segments[0].X, d.Segments[0].Y
}
