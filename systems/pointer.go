package systems

// PointerState is a snapshot of pointer input handed to the simulation each tick.
// X and Y are meaningful only when Active is true.
type PointerState struct {
	X, Y   float64
	Active bool
	Radius float64
}

// PointerTracker records the last reported pointer position.
// It is mutated only by input handlers and read once per tick.
type PointerTracker struct {
	x, y   float64
	active bool
	radius float64
}

// NewPointerTracker creates a tracker with no active pointer.
func NewPointerTracker(radius float64) *PointerTracker {
	return &PointerTracker{radius: radius}
}

// Move records a pointer position and activates interaction.
func (t *PointerTracker) Move(x, y float64) {
	t.x, t.y = x, y
	t.active = true
}

// Leave clears the position; interaction stays off until the next Move.
func (t *PointerTracker) Leave() {
	t.active = false
	t.x, t.y = 0, 0
}

// State returns the current pointer snapshot.
func (t *PointerTracker) State() PointerState {
	return PointerState{X: t.x, Y: t.y, Active: t.active, Radius: t.radius}
}

// Radius returns the fixed interaction radius.
func (t *PointerTracker) Radius() float64 {
	return t.radius
}
