package renderer

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/systems"
)

// recordingSurface captures draw calls without rasterizing.
type recordingSurface struct {
	circles []float64 // radii
	strokes [][]Point
	texts   []string
	alphas  []uint8
	mode    CompositeMode
}

func (s *recordingSurface) Size() (int, int)                           { return 800, 600 }
func (s *recordingSurface) Resize(int, int)                            {}
func (s *recordingSurface) FillRect(_, _, _, _ float64, _ color.NRGBA) {}
func (s *recordingSurface) SetCompositeMode(m CompositeMode)           { s.mode = m }

func (s *recordingSurface) FillCircle(_, _, r float64, c color.NRGBA) {
	s.circles = append(s.circles, r)
	s.alphas = append(s.alphas, c.A)
}

func (s *recordingSurface) StrokePath(points []Point, _ float64, _ color.NRGBA) {
	s.strokes = append(s.strokes, append([]Point(nil), points...))
}

func (s *recordingSurface) DrawText(text string, _, _ float64, _ int, _ color.NRGBA) {
	s.texts = append(s.texts, text)
}

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestSmoothPath(t *testing.T) {
	tests := []struct {
		name string
		segs []systems.Segment
		want int
	}{
		{"empty", nil, 0},
		{"single", []systems.Segment{{X: 1, Y: 1}}, 1},
		{"pair", []systems.Segment{{X: 0}, {X: 5}}, 2},
		{"five segments", make([]systems.Segment, 5), 1 + 2*curveSteps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SmoothPath(nil, tt.segs)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSmoothPath_EndsAtMidpoint(t *testing.T) {
	segs := []systems.Segment{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}}

	got := SmoothPath(nil, segs)

	last := got[len(got)-1]
	if last.X != 15 || last.Y != 0 {
		t.Errorf("path ends at %v, want midpoint (15, 0)", last)
	}
	if got[0] != (Point{}) {
		t.Errorf("path starts at %v, want head (0, 0)", got[0])
	}
}

func TestDragonRenderer_Draw(t *testing.T) {
	cfg := loadDefaults(t)
	d := systems.NewDragon(cfg.Dragon, 800, 600)
	s := &recordingSurface{}

	NewDragonRenderer(cfg.Dragon).Draw(s, d)

	if len(s.strokes) != 1 {
		t.Fatalf("strokes = %d, want 1 body stroke", len(s.strokes))
	}
	if len(s.circles) == 0 {
		t.Fatal("eye not drawn")
	}
	// Solid eye is drawn last on top of its halo
	if r := s.circles[len(s.circles)-1]; r != cfg.Dragon.EyeRadius {
		t.Errorf("last circle radius = %v, want eye radius %v", r, cfg.Dragon.EyeRadius)
	}
	if a := s.alphas[len(s.alphas)-1]; a != 255 {
		t.Errorf("eye alpha = %d, want opaque", a)
	}
}

func TestNumberRenderer_Draw(t *testing.T) {
	cfg := loadDefaults(t)
	f := systems.NewNumberField(cfg.Numbers, 800, 600, rand.New(rand.NewSource(4)))
	s := &recordingSurface{}

	NewNumberRenderer(cfg.Numbers).Draw(s, f)

	if len(s.texts) != cfg.Numbers.Count {
		t.Errorf("texts = %d, want %d", len(s.texts), cfg.Numbers.Count)
	}
}

func TestParticleRenderer_Draw(t *testing.T) {
	palette := []config.RGB{{185, 28, 28}, {239, 68, 68}}
	particles := []systems.Particle{
		{X: 10, Y: 10, Size: 1.5, Color: 0},
		{X: 20, Y: 20, Size: 0.75, Color: 1},
	}
	s := &recordingSurface{}

	NewParticleRenderer(palette, 0.5).Draw(s, particles)

	if len(s.circles) != 2 {
		t.Fatalf("circles = %d, want 2", len(s.circles))
	}
	if s.circles[0] != 1.5 || s.circles[1] != 0.75 {
		t.Errorf("radii = %v, want particle sizes", s.circles)
	}
	for _, a := range s.alphas {
		if a != 128 {
			t.Errorf("alpha = %d, want 128", a)
		}
	}
}
