package game

// Scheduler arms frame callbacks. Each RequestFrame call arms exactly one future
// invocation of fn; a callback that wants to keep running must request again.
type Scheduler interface {
	RequestFrame(fn func())
}

// ManualScheduler holds at most one armed callback until the owner steps it.
// Hosts step it once per display refresh; tests and headless runs step it directly.
type ManualScheduler struct {
	pending func()
}

// RequestFrame arms fn, replacing any callback already armed.
func (s *ManualScheduler) RequestFrame(fn func()) {
	s.pending = fn
}

// Pending reports whether a callback is armed.
func (s *ManualScheduler) Pending() bool {
	return s.pending != nil
}

// Step disarms and runs the armed callback. It returns false if none was armed.
func (s *ManualScheduler) Step() bool {
	fn := s.pending
	if fn == nil {
		return false
	}
	s.pending = nil
	fn()
	return true
}

// Run steps up to n times and returns how many callbacks ran.
func (s *ManualScheduler) Run(n int) int {
	ran := 0
	for ran < n && s.Step() {
		ran++
	}
	return ran
}
