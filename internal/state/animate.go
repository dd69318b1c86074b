package state

// approach moves v toward target by at most step, without overshoot.
func approach(v *float32, target, step float32) {
	*v += clamp32(target-*v, -step, step)
}

// Step advances the animation clock by dt seconds and eases the live state
// toward the target. dt is clamped to [0, 0.1] so a stalled loop resumes
// with a bounded jump instead of snapping every field to its target.
//
// Numeric fields converge at a fixed maximum rate, which makes every
// transition monotonic and finished within |diff|/rate seconds. Geometry,
// mode and the color-set flags copy directly: a shape switch is
// instantaneous, only its parameters ease.
func (s *Store) Step(dt float64) Frame {
	if dt < 0 {
		dt = 0
	} else if dt > 0.1 {
		dt = 0.1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock += dt
	step := float32(AnimRate * dt)
	colorStep := float32(ColorRate * dt)

	approach(&s.live.Heat, s.target.Heat, step)
	for i := range s.live.Segments {
		approach(&s.live.Segments[i], s.target.Segments[i], step)
	}
	approach(&s.live.Width, s.target.Width, step)
	approach(&s.live.Percent, s.target.Percent, step)
	for k := 0; k < 3; k++ {
		approach(&s.live.ElementColor[k], s.target.ElementColor[k], colorStep)
		approach(&s.live.BackgroundColor[k], s.target.BackgroundColor[k], colorStep)
	}

	s.live.Geometry = s.target.Geometry
	s.live.Mode = s.target.Mode
	s.live.ElementColorSet = s.target.ElementColorSet
	s.live.BackgroundColorSet = s.target.BackgroundColorSet

	return Frame{
		VisualState: s.live,
		Time:        s.clock,
		Updated:     s.updated,
		Age:         s.clock - s.updated,
	}
}
