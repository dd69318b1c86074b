// Package hub75 drives a chain of HUB75 LED matrix panels over the Linux
// GPIO character device. The panels are refreshed by a dedicated goroutine
// doing binary-coded modulation over the configured number of bit planes.
package hub75

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Pins holds the BCM pin numbers for the HUB75 interface. The zero value
// is not usable; start from DefaultPins.
type Pins struct {
	R1  int // red data, upper half
	G1  int // green data, upper half
	B1  int // blue data, upper half
	R2  int // red data, lower half
	G2  int // green data, lower half
	B2  int // blue data, lower half
	Clk int
	OE  int
	Lat int
	A   int
	B   int
	C   int
	D   int
	E   int // only driven on 64-row panels
}

// DefaultPins is the Adafruit RGB Matrix Bonnet pinout.
var DefaultPins = Pins{
	R1: 5, G1: 13, B1: 6,
	R2: 12, G2: 16, B2: 23,
	Clk: 17, OE: 4, Lat: 21,
	A: 22, B: 26, C: 27, D: 20, E: 24,
}

// Options configures the panel chain.
type Options struct {
	Rows         int    // pixel rows of the chain (scan rows are Rows/2)
	Cols         int    // total pixel columns across all chained panels
	PWMBits      int    // bit planes per refresh, 1..8
	GPIOSlowdown int    // extra clock settle iterations for fast Pis
	PanelType    string // "FM6126A" panels need an unlock sequence
	Chip         string // gpiochip name, defaults to gpiochip0
	Pins         Pins
}

// DefaultOptions matches a 192x64 chain of three 64x64 FM6126A panels on
// the Adafruit bonnet.
func DefaultOptions() Options {
	return Options{
		Rows:         64,
		Cols:         192,
		PWMBits:      8,
		GPIOSlowdown: 2,
		PanelType:    "FM6126A",
		Chip:         "gpiochip0",
		Pins:         DefaultPins,
	}
}

// Matrix owns the GPIO lines and the refresh goroutine. Frames are double
// buffered: the caller draws into the back canvas and publishes it with
// Swap, which blocks until the refresh cycle picks the frame up. The
// refresh goroutine scans out of its own private copy, so the canvases
// never touch the scan-out concurrently.
type Matrix struct {
	opts  Options
	lines map[int]*gpiocdev.Line

	mu      sync.Mutex
	adopted *sync.Cond // signalled when the refresh pass copies front
	front   *FrameCanvas
	back    *FrameCanvas
	seq     uint64 // bumped by Swap
	seenSeq uint64 // last seq the refresh pass has copied
	stopped bool

	scan *FrameCanvas // refresh-goroutine private, scanned between copies

	stop chan struct{}
	done chan struct{}
}

// Open requests the GPIO lines, runs the panel init sequence and starts
// the refresh goroutine.
func Open(opts Options) (*Matrix, error) {
	if opts.Chip == "" {
		opts.Chip = "gpiochip0"
	}
	if opts.PWMBits < 1 {
		opts.PWMBits = 1
	}
	if opts.PWMBits > 8 {
		opts.PWMBits = 8
	}

	m := &Matrix{
		opts:  opts,
		lines: make(map[int]*gpiocdev.Line),
		front: NewFrameCanvas(opts.Cols, opts.Rows),
		back:  NewFrameCanvas(opts.Cols, opts.Rows),
		scan:  NewFrameCanvas(opts.Cols, opts.Rows),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	m.adopted = sync.NewCond(&m.mu)

	p := opts.Pins
	pins := []int{p.R1, p.G1, p.B1, p.R2, p.G2, p.B2, p.Clk, p.OE, p.Lat, p.A, p.B, p.C, p.D}
	if opts.Rows >= 64 {
		pins = append(pins, p.E)
	}
	for _, pin := range pins {
		line, err := gpiocdev.RequestLine(opts.Chip, pin, gpiocdev.AsOutput(0))
		if err != nil {
			m.closeLines()
			return nil, fmt.Errorf("request GPIO pin %d: %w", pin, err)
		}
		m.lines[pin] = line
	}

	// Output off until the first frame is published.
	m.setPin(p.OE, 1)

	if opts.PanelType == "FM6126A" {
		m.initFM6126A()
	}

	go m.refresh()
	return m, nil
}

// Frame returns the back canvas to draw the next frame into.
func (m *Matrix) Frame() *FrameCanvas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.back
}

// Swap publishes the back canvas and blocks until the refresh cycle has
// taken it, so the caller cannot draw into a canvas the hardware is still
// showing. The previously shown canvas becomes the new back buffer. After
// Close, Swap returns immediately.
func (m *Matrix) Swap() {
	m.mu.Lock()
	m.front, m.back = m.back, m.front
	m.seq++
	seq := m.seq
	for m.seenSeq < seq && !m.stopped {
		m.adopted.Wait()
	}
	m.mu.Unlock()
}

// Close stops the refresh goroutine, blanks the output and releases the
// GPIO lines.
func (m *Matrix) Close() error {
	close(m.stop)
	<-m.done
	m.setPin(m.opts.Pins.OE, 1)
	m.closeLines()
	return nil
}

func (m *Matrix) closeLines() {
	for pin, line := range m.lines {
		if err := line.Close(); err != nil {
			log.Printf("HUB75: closing pin %d: %v", pin, err)
		}
	}
	m.lines = make(map[int]*gpiocdev.Line)
}

func (m *Matrix) setPin(pin, value int) {
	line, ok := m.lines[pin]
	if !ok {
		return
	}
	if err := line.SetValue(value); err != nil {
		log.Printf("HUB75: set pin %d: %v", pin, err)
	}
}

// pulseClk raises and lowers the clock, re-writing each edge GPIOSlowdown
// extra times so fast Pis do not outrun the panel shift registers.
func (m *Matrix) pulseClk() {
	clk := m.opts.Pins.Clk
	for i := 0; i <= m.opts.GPIOSlowdown; i++ {
		m.setPin(clk, 1)
	}
	for i := 0; i <= m.opts.GPIOSlowdown; i++ {
		m.setPin(clk, 0)
	}
}

// pulseLat latches the shifted row onto the output drivers.
func (m *Matrix) pulseLat() {
	m.setPin(m.opts.Pins.Lat, 1)
	time.Sleep(time.Microsecond)
	m.setPin(m.opts.Pins.Lat, 0)
}
