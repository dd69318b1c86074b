package hub75

import "time"

// baseDwell is the output-enable time of the least significant bit plane.
// Each higher plane is shown twice as long.
const baseDwell = 4 * time.Microsecond

func (m *Matrix) refresh() {
	defer func() {
		m.mu.Lock()
		m.stopped = true
		m.adopted.Broadcast()
		m.mu.Unlock()
		close(m.done)
	}()
	scanRows := m.opts.Rows / 2

	for {
		select {
		case <-m.stop:
			return
		default:
		}

		// Take a private copy of the published frame so the scan-out
		// never reads a canvas the render loop may be drawing into, and
		// release any Swap waiting for this pass.
		m.mu.Lock()
		copy(m.scan.pix, m.front.pix)
		m.seenSeq = m.seq
		m.adopted.Broadcast()
		m.mu.Unlock()

		for row := 0; row < scanRows; row++ {
			for plane := m.opts.PWMBits - 1; plane >= 0; plane-- {
				m.shiftRow(m.scan, row, plane)
				m.setAddress(row)
				m.pulseLat()
				m.setPin(m.opts.Pins.OE, 0)
				time.Sleep(time.Duration(1<<uint(plane)) * baseDwell)
				m.setPin(m.opts.Pins.OE, 1)
			}
		}
	}
}

// shiftRow clocks one bit plane of a scan row into the chain. The upper
// and lower panel halves share the clock, so both rows go out together.
func (m *Matrix) shiftRow(frame *FrameCanvas, row, plane int) {
	p := m.opts.Pins
	scanRows := m.opts.Rows / 2
	// PWMBits < 8 drops the least significant color bits.
	shift := uint(8 - m.opts.PWMBits + plane)

	for col := 0; col < m.opts.Cols; col++ {
		r1, g1, b1 := frame.At(col, row)
		r2, g2, b2 := frame.At(col, row+scanRows)

		m.setPin(p.R1, int(r1>>shift)&1)
		m.setPin(p.G1, int(g1>>shift)&1)
		m.setPin(p.B1, int(b1>>shift)&1)
		m.setPin(p.R2, int(r2>>shift)&1)
		m.setPin(p.G2, int(g2>>shift)&1)
		m.setPin(p.B2, int(b2>>shift)&1)

		m.pulseClk()
	}
}

// setAddress drives the row address bits. Output should be disabled while
// the address changes.
func (m *Matrix) setAddress(row int) {
	p := m.opts.Pins
	m.setPin(p.A, (row>>0)&1)
	m.setPin(p.B, (row>>1)&1)
	m.setPin(p.C, (row>>2)&1)
	m.setPin(p.D, (row>>3)&1)
	if m.opts.Rows >= 64 {
		m.setPin(p.E, (row>>4)&1)
	}
}

// FM6126A drivers power up locked. The unlock sequence shifts two config
// registers across the whole chain; holding the latch over the final
// columns selects which register the word lands in.
func (m *Matrix) initFM6126A() {
	m.writeInitRegister(0b0111111111111111, 12)
	m.writeInitRegister(0b0000000001000000, 13)
}

func (m *Matrix) writeInitRegister(value uint16, latchCols int) {
	p := m.opts.Pins
	for col := 0; col < m.opts.Cols; col++ {
		bit := 0
		if value&(1<<uint(15-col%16)) != 0 {
			bit = 1
		}
		m.setPin(p.R1, bit)
		m.setPin(p.G1, bit)
		m.setPin(p.B1, bit)
		m.setPin(p.R2, bit)
		m.setPin(p.G2, bit)
		m.setPin(p.B2, bit)
		if col >= m.opts.Cols-latchCols {
			m.setPin(p.Lat, 1)
		}
		m.pulseClk()
	}
	m.setPin(p.Lat, 0)
}
