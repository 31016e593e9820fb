package components

// Position represents an entity's canvas position in pixels.
type Position struct {
	X, Y float64
}

// Drift is the constant upward speed of a floating glyph, in pixels per tick.
type Drift struct {
	Speed float64
}
