package components

// Glyph is a floating number drawn as text.
type Glyph struct {
	Value   int
	Opacity float64 // 0..1, decays every tick
}
