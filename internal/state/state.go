// Package state holds the visual state shared between the command API and
// the render loop: a commanded "target" record and a smoothed "live" record,
// guarded by a single mutex.
package state

import "sync"

// SegmentCount is the number of per-angle intensity segments the shader blends.
const SegmentCount = 10

// Interpolation rates, in value units per second. Colors converge faster
// than shape parameters so a color change reads as a snap rather than a
// slow crossfade.
const (
	AnimRate  = 40.0
	ColorRate = 2.0
)

// Geometry selects the shape drawn in front of the background.
type Geometry int

const (
	GeometryRing Geometry = iota
	GeometryCircle
	GeometrySquare
	GeometryTriangle
	GeometryCross
)

var geometryNames = map[string]Geometry{
	"ring":     GeometryRing,
	"circle":   GeometryCircle,
	"square":   GeometrySquare,
	"triangle": GeometryTriangle,
	"x":        GeometryCross,
}

func (g Geometry) String() string {
	switch g {
	case GeometryRing:
		return "ring"
	case GeometryCircle:
		return "circle"
	case GeometrySquare:
		return "square"
	case GeometryTriangle:
		return "triangle"
	case GeometryCross:
		return "x"
	}
	return "ring"
}

// Mode selects the command dialect. Anything other than ModeHeat behaves as
// custom, including unknown strings sent by clients.
type Mode string

const (
	ModeHeat   Mode = "heat"
	ModeCustom Mode = "custom"
)

// VisualState is one full set of visual parameters. Two instances live in
// the Store; everything else receives copies.
type VisualState struct {
	Heat     float32
	Segments [SegmentCount]float32
	Geometry Geometry
	Mode     Mode

	ElementColor       RGB
	ElementColorSet    bool
	BackgroundColor    RGB
	BackgroundColorSet bool

	Width   float32 // 0..100 shape thickness
	Percent float32 // 0..1 arc coverage
}

func defaultState() VisualState {
	return VisualState{
		Heat:            30,
		Geometry:        GeometryRing,
		Mode:            ModeHeat,
		ElementColor:    RGB{1, 1, 1},
		BackgroundColor: RGB{0, 0, 1},
		Width:           20,
		Percent:         1,
	}
}

// Store owns the target and live state. The command translator is the only
// writer of target; the animation clock is the only writer of live. Both go
// through the one mutex, held only for the duration of a single apply or
// interpolation step.
type Store struct {
	mu      sync.Mutex
	target  VisualState
	live    VisualState
	clock   float64 // animation-clock seconds, advanced by Step
	updated float64 // clock value when the last command was accepted
}

// NewStore returns a store with both records at the fixed defaults. The
// update timestamp starts in the past so a freshly started process without
// commands ages normally instead of looking just-updated.
func NewStore() *Store {
	s := &Store{
		target:  defaultState(),
		updated: -10,
	}
	s.live = s.target
	return s
}

// Frame is the per-frame snapshot handed to the renderer: the live state
// plus the clock and signal age at the moment of the interpolation step.
type Frame struct {
	VisualState
	Time    float64 // animation clock
	Updated float64 // clock value of the last accepted command
	Age     float64 // Time - Updated
}

// Snapshot returns the current live state and age without advancing the
// clock. Used by the status endpoints.
func (s *Store) Snapshot() (VisualState, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live, s.clock - s.updated
}

// Target returns the commanded target state and age. Used for logging
// accepted commands.
func (s *Store) Target() (VisualState, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target, s.clock - s.updated
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
