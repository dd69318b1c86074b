package state

import "errors"

// ErrNoFields reports a command carrying none of the recognized fields.
var ErrNoFields = errors.New("no valid fields in command")

// Command is one already-parsed control request. Every field is optional;
// nil means the field was absent from the wire. Legacy heat clients and
// custom clients share this one shape.
type Command struct {
	Mode            *string   `json:"mode,omitempty"`
	Colour          *float64  `json:"colour,omitempty"`
	Geometry        *string   `json:"geometry,omitempty"`
	Segments        []float64 `json:"segments,omitempty"`
	Width           *float64  `json:"width,omitempty"`
	Percent         *float64  `json:"percent,omitempty"`
	ElementColor    *string   `json:"elementColor,omitempty"`
	BackgroundColor *string   `json:"backgroundColor,omitempty"`
}

// Apply translates a command into the target state. The merge rules
// reconcile the two dialects:
//
//   - heat mode forces ring geometry and a white element, and derives the
//     background from the heat level unless this request explicitly set one;
//   - custom mode derives the background from a legacy colour value only
//     when that value arrived without an explicit background, so custom
//     clients' colors persist across later partial updates.
//
// A malformed color string drops that one field; a command with no
// recognized field at all is rejected and leaves the target untouched.
// Accepted commands apply atomically and stamp the update time.
func (s *Store) Apply(cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.target
	any := false

	// Presence applies per request: a heat command must not inherit the
	// explicit-background flag from an earlier custom command.
	gotColour := false
	gotBackground := false

	if cmd.Mode != nil {
		t.Mode = Mode(*cmd.Mode)
		any = true
	}
	if cmd.Colour != nil {
		t.Heat = float32(*cmd.Colour)
		gotColour = true
		any = true
	}
	if cmd.Geometry != nil {
		if g, ok := geometryNames[*cmd.Geometry]; ok {
			t.Geometry = g
		}
		any = true
	}
	if cmd.Segments != nil {
		for i, v := range cmd.Segments {
			if i >= SegmentCount {
				break
			}
			t.Segments[i] = float32(v)
		}
		any = true
	}
	if cmd.Width != nil {
		t.Width = clamp32(float32(*cmd.Width), 0, 100)
		any = true
	}
	if cmd.Percent != nil {
		t.Percent = clamp32(float32(*cmd.Percent), 0, 1)
		any = true
	}
	if cmd.ElementColor != nil {
		if rgb, err := ParseHex(*cmd.ElementColor); err == nil {
			t.ElementColor = rgb
			t.ElementColorSet = true
			any = true
		}
	}
	if cmd.BackgroundColor != nil {
		if rgb, err := ParseHex(*cmd.BackgroundColor); err == nil {
			t.BackgroundColor = rgb
			t.BackgroundColorSet = true
			gotBackground = true
			any = true
		}
	}

	if t.Mode == ModeHeat {
		t.Geometry = GeometryRing
		t.ElementColor = RGB{1, 1, 1}
		t.ElementColorSet = true
		// The derived background uses whatever heat level the target now
		// holds, whether or not this request carried one.
		if !gotBackground {
			t.BackgroundColor = HeatBackground(t.Heat)
			t.BackgroundColorSet = true
		}
	} else if gotColour && !gotBackground {
		t.BackgroundColor = HeatBackground(t.Heat)
		t.BackgroundColorSet = true
	}

	if !any {
		return ErrNoFields
	}

	s.target = t
	s.updated = s.clock
	return nil
}
