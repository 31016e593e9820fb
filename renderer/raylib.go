package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibCanvas draws into a persistent render texture so trails survive between frames.
// All methods must be called on the thread that owns the raylib window.
type RaylibCanvas struct {
	target        rl.RenderTexture2D
	width, height int
	background    rl.Color
	mode          CompositeMode
	inFrame       bool

	points []rl.Vector2
}

// NewRaylibCanvas allocates the render texture. The window must already be open.
func NewRaylibCanvas(width, height int, background color.NRGBA) *RaylibCanvas {
	c := &RaylibCanvas{background: toRL(background)}
	c.allocate(width, height)
	return c
}

func (c *RaylibCanvas) allocate(width, height int) {
	c.width, c.height = width, height
	c.target = rl.LoadRenderTexture(int32(width), int32(height))
	rl.BeginTextureMode(c.target)
	rl.ClearBackground(c.background)
	rl.EndTextureMode()
}

// BeginFrame redirects drawing to the render texture.
func (c *RaylibCanvas) BeginFrame() {
	rl.BeginTextureMode(c.target)
	c.inFrame = true
}

// EndFrame closes the texture pass and blits it to the window. hud draws on top, unpersisted.
func (c *RaylibCanvas) EndFrame(hud func()) {
	c.SetCompositeMode(CompositeSourceOver)
	rl.EndTextureMode()
	c.inFrame = false

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	// Render textures are stored upside down
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(c.width), Height: -float32(c.height)}
	rl.DrawTextureRec(c.target.Texture, src, rl.Vector2{}, rl.White)
	if hud != nil {
		hud()
	}
	rl.EndDrawing()
}

// Size returns the render texture dimensions.
func (c *RaylibCanvas) Size() (int, int) {
	return c.width, c.height
}

// Resize reallocates the render texture, discarding its contents.
func (c *RaylibCanvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	mode := c.mode
	if c.inFrame {
		c.SetCompositeMode(CompositeSourceOver)
		rl.EndTextureMode()
	}
	rl.UnloadRenderTexture(c.target)
	c.allocate(width, height)
	if c.inFrame {
		rl.BeginTextureMode(c.target)
		c.SetCompositeMode(mode)
	}
}

// SetCompositeMode switches raylib's blend mode.
func (c *RaylibCanvas) SetCompositeMode(mode CompositeMode) {
	if mode == c.mode {
		return
	}
	if c.mode == CompositeLighter {
		rl.EndBlendMode()
	}
	if mode == CompositeLighter {
		rl.BeginBlendMode(rl.BlendAdditive)
	}
	c.mode = mode
}

// FillRect draws a filled rectangle.
func (c *RaylibCanvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	rl.DrawRectangleRec(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}, toRL(col))
}

// FillCircle draws a filled circle.
func (c *RaylibCanvas) FillCircle(cx, cy, r float64, col color.NRGBA) {
	rl.DrawCircleV(rl.Vector2{X: float32(cx), Y: float32(cy)}, float32(r), toRL(col))
}

// StrokePath draws a polyline as one spline so joints are not painted twice.
func (c *RaylibCanvas) StrokePath(points []Point, width float64, col color.NRGBA) {
	if len(points) < 2 {
		return
	}
	c.points = c.points[:0]
	for _, p := range points {
		c.points = append(c.points, rl.Vector2{X: float32(p.X), Y: float32(p.Y)})
	}
	rl.DrawSplineLinear(c.points, float32(width), toRL(col))
}

// DrawText draws text with its baseline at y using the default raylib font.
func (c *RaylibCanvas) DrawText(text string, x, y float64, size int, col color.NRGBA) {
	rl.DrawText(text, int32(x), int32(y)-int32(size), int32(size), toRL(col))
}

// Unload releases the render texture.
func (c *RaylibCanvas) Unload() {
	rl.UnloadRenderTexture(c.target)
}

func toRL(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
