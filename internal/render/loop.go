package render

import (
	"context"
	"log"
	"time"

	"github.com/fcurrie/led-shine-golang/internal/panel"
	"github.com/fcurrie/led-shine-golang/internal/state"
)

// Output is the double-buffered display the loop draws into. Frame returns
// the back buffer, Swap presents it.
type Output interface {
	Frame() panel.Canvas
	Swap()
}

// Loop ties the state store, the GL pipeline and the panel output together
// at a fixed frame rate.
type Loop struct {
	Store    *state.Store
	Pipeline *Pipeline
	Mapper   panel.Mapper
	Output   Output
	Policy   Policy
	FPS      int
}

// Run drives frames until ctx is cancelled. Must run on the GL thread.
func (l *Loop) Run(ctx context.Context) {
	frameDur := time.Second / time.Duration(l.FPS)
	last := time.Now()
	blanked := false

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()
		dt := start.Sub(last).Seconds()
		last = start

		f := l.Store.Step(dt)

		if l.Policy.Blank(f.Age) {
			if !blanked {
				log.Printf("RENDER: No update for %.0fs, blanking panel", f.Age)
				blanked = true
			}
			l.Output.Frame().Clear()
		} else {
			if blanked {
				log.Printf("RENDER: Data is back, resuming")
				blanked = false
			}
			renderTime := l.Policy.RenderTime(f.Time, f.Updated, f.Age)
			buf := l.Pipeline.Draw(f, renderTime)
			l.Mapper.Blit(buf, l.Output.Frame())
		}
		l.Output.Swap()

		if elapsed := time.Since(start); elapsed < frameDur {
			time.Sleep(frameDur - elapsed)
		}
	}
}
