// Package gesture detects the console's opening gesture: consecutive
// roughly circular pointer loops drawn while the button is held.
package gesture

import (
	"math"

	"devconsole/internal/logging"
)

// Config tunes the recognizer.
type Config struct {
	// Loops is how many closed loops complete the gesture.
	Loops int
	// MinPoints is how many samples a path needs before it is evaluated.
	MinPoints int
	// MinStep is the distance the pointer must move before a new sample is kept.
	MinStep float64
}

// DefaultConfig returns settings suited to terminal cell coordinates.
func DefaultConfig() Config {
	return Config{Loops: 2, MinPoints: 10, MinStep: 1}
}

type point struct{ x, y float64 }

// Recognizer accumulates pointer samples and calls OnDone after the
// configured number of loops. It is driven from the host's update loop.
type Recognizer struct {
	cfg    Config
	onDone func()

	width, height int
	pressed       bool
	path          []point
	loops         int
}

// New creates a recognizer. onDone may be nil.
func New(cfg Config, onDone func()) *Recognizer {
	def := DefaultConfig()
	if cfg.Loops <= 0 {
		cfg.Loops = def.Loops
	}
	if cfg.MinPoints < 3 {
		cfg.MinPoints = def.MinPoints
	}
	if cfg.MinStep <= 0 {
		cfg.MinStep = def.MinStep
	}
	return &Recognizer{cfg: cfg, onDone: onDone}
}

// Resize records the screen size the loop threshold is derived from.
func (r *Recognizer) Resize(width, height int) {
	r.width, r.height = width, height
}

// Press starts a path at (x, y).
func (r *Recognizer) Press(x, y float64) bool {
	r.pressed = true
	return r.sample(x, y)
}

// Move extends the path while the button is held. It returns true when the
// gesture completes.
func (r *Recognizer) Move(x, y float64) bool {
	if !r.pressed {
		return false
	}
	return r.sample(x, y)
}

// Release ends the path and forgets completed loops.
func (r *Recognizer) Release() {
	r.pressed = false
	r.reset()
}

// Loops returns the loops completed in the current press.
func (r *Recognizer) Loops() int {
	return r.loops
}

func (r *Recognizer) reset() {
	r.path = r.path[:0]
	r.loops = 0
}

func (r *Recognizer) sample(x, y float64) bool {
	p := point{x, y}
	if n := len(r.path); n == 0 || dist(p, r.path[n-1]) > r.cfg.MinStep {
		r.path = append(r.path, p)
	}
	return r.evaluate()
}

// evaluate checks the path for a closed loop: long enough relative to the
// screen, ending near its start, never turning back sharply.
func (r *Recognizer) evaluate() bool {
	if len(r.path) < r.cfg.MinPoints {
		return false
	}

	var sum point
	var length float64
	var prev point
	for i := 0; i < len(r.path)-2; i++ {
		delta := point{r.path[i+1].x - r.path[i].x, r.path[i+1].y - r.path[i].y}
		sum.x += delta.x
		sum.y += delta.y
		length += math.Hypot(delta.x, delta.y)

		if delta.x*prev.x+delta.y*prev.y < 0 {
			logging.GestureDebug("Path reversed after %d samples", i+1)
			r.reset()
			return false
		}
		prev = delta
	}

	base := (r.width + r.height) / 4
	if length <= float64(base) || math.Hypot(sum.x, sum.y) >= float64(base/2) {
		return false
	}

	r.path = r.path[:0]
	r.loops++
	logging.GestureDebug("Loop %d/%d closed (length=%.1f base=%d)", r.loops, r.cfg.Loops, length, base)
	if r.loops < r.cfg.Loops {
		return false
	}

	r.loops = 0
	logging.Gesture("Gesture completed")
	if r.onDone != nil {
		r.onDone()
	}
	return true
}

func dist(a, b point) float64 {
	return math.Hypot(a.x-b.x, a.y-b.y)
}
