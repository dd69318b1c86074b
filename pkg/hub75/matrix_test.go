package hub75

import (
	"sync"
	"testing"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// newTestMatrix builds a matrix with no GPIO lines requested; setPin drops
// every write, so the refresh goroutine runs its full scan logic dry.
func newTestMatrix(opts Options) *Matrix {
	m := &Matrix{
		opts:  opts,
		lines: map[int]*gpiocdev.Line{},
		front: NewFrameCanvas(opts.Cols, opts.Rows),
		back:  NewFrameCanvas(opts.Cols, opts.Rows),
		scan:  NewFrameCanvas(opts.Cols, opts.Rows),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	m.adopted = sync.NewCond(&m.mu)
	go m.refresh()
	return m
}

func TestSwapWaitsForRefreshAdoption(t *testing.T) {
	m := newTestMatrix(Options{Rows: 8, Cols: 8, PWMBits: 1, Pins: DefaultPins})

	// Draw and publish many frames while the scan-out runs. The race
	// detector flags any scan read of a canvas the drawing side still
	// owns; Swap returning early would also leave seenSeq behind.
	for i := 0; i < 100; i++ {
		f := m.Frame()
		f.Clear()
		f.SetPixel(i%8, (i/8)%8, uint8(i), uint8(i*2), uint8(i*3))
		m.Swap()

		m.mu.Lock()
		if m.seenSeq < m.seq {
			m.mu.Unlock()
			t.Fatalf("Swap returned before refresh adopted frame %d", i)
		}
		m.mu.Unlock()
	}

	close(m.stop)
	<-m.done

	// The last published frame must be what the scan-out was showing.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			fr, fg, fb := m.front.At(x, y)
			sr, sg, sb := m.scan.At(x, y)
			if fr != sr || fg != sg || fb != sb {
				t.Fatalf("scan copy diverges from front at (%d,%d)", x, y)
			}
		}
	}
}

func TestSwapReturnsAfterClose(t *testing.T) {
	m := newTestMatrix(Options{Rows: 8, Cols: 8, PWMBits: 1, Pins: DefaultPins})
	close(m.stop)
	<-m.done

	released := make(chan struct{})
	go func() {
		m.Swap()
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Swap blocked after the refresh goroutine stopped")
	}
}
