package render

import "testing"

func TestPolicyPhases(t *testing.T) {
	p := Policy{GrayStart: 60, GrayEnd: 70, BlankAfter: 0}

	tests := []struct {
		age  float64
		want Phase
	}{
		{0, PhaseLive},
		{59.9, PhaseLive},
		{60, PhaseFading},
		{65, PhaseFading},
		{69.9, PhaseFading},
		{70, PhaseStableGray},
		{1000, PhaseStableGray},
	}
	for _, tt := range tests {
		if got := p.Phase(tt.age); got != tt.want {
			t.Errorf("Phase(%v) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestPolicyBlankDisabledByZero(t *testing.T) {
	p := Policy{GrayStart: 60, GrayEnd: 70, BlankAfter: 0}
	if p.Blank(1e6) {
		t.Error("BlankAfter=0 must never blank")
	}
}

func TestPolicyBlankBeforeGrace(t *testing.T) {
	// A blank threshold below GrayStart wins over the fade phases.
	p := Policy{GrayStart: 60, GrayEnd: 70, BlankAfter: 30}

	if got := p.Phase(29); got != PhaseLive {
		t.Errorf("Phase(29) = %v, want PhaseLive", got)
	}
	if got := p.Phase(30); got != PhaseBlanked {
		t.Errorf("Phase(30) = %v, want PhaseBlanked", got)
	}
	if got := p.Phase(65); got != PhaseBlanked {
		t.Errorf("Phase(65) = %v, want PhaseBlanked", got)
	}
}

func TestPolicyRenderTimeFreezes(t *testing.T) {
	p := Policy{GrayStart: 60, GrayEnd: 70}

	if got := p.RenderTime(100, 50, 50); got != 100 {
		t.Errorf("fresh data renders wall clock, got %v", got)
	}
	if got := p.RenderTime(115, 50, 65); got != 50 {
		t.Errorf("stale data freezes at last update, got %v", got)
	}
	if got := p.RenderTime(500, 50, 450); got != 50 {
		t.Errorf("fully gray data stays frozen, got %v", got)
	}
}
