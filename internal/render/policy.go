// Package render owns the offscreen GL pipeline and the frame loop that
// drives the shader output onto the panel chain.
package render

// Phase describes what the display should show for a given data age.
type Phase int

const (
	// PhaseLive means data is fresh and the scene animates normally.
	PhaseLive Phase = iota
	// PhaseFading means the scene is desaturating toward gray.
	PhaseFading
	// PhaseStableGray means the scene is fully gray and time is frozen.
	PhaseStableGray
	// PhaseBlanked means the panel shows nothing at all.
	PhaseBlanked
)

// Policy decides how stale data is presented. All fields are in seconds.
// BlankAfter of zero disables blanking entirely.
type Policy struct {
	GrayStart  float64
	GrayEnd    float64
	BlankAfter float64
}

// Blank reports whether the panel should be switched off for the given age.
func (p Policy) Blank(age float64) bool {
	return p.BlankAfter != 0 && age >= p.BlankAfter
}

// Phase classifies the age. The blank check runs first, so a BlankAfter
// shorter than GrayStart blanks immediately without ever fading.
func (p Policy) Phase(age float64) Phase {
	switch {
	case p.Blank(age):
		return PhaseBlanked
	case age < p.GrayStart:
		return PhaseLive
	case age < p.GrayEnd:
		return PhaseFading
	default:
		return PhaseStableGray
	}
}

// RenderTime returns the time uniform for the shader. Once data crosses
// GrayStart the clock freezes at the last update so the gray scene holds
// still instead of shimmering.
func (p Policy) RenderTime(clock, updated, age float64) float64 {
	if age < p.GrayStart {
		return clock
	}
	return updated
}
