// Package panel rewrites logical pixel coordinates into the physical
// multi-panel layout and pushes rendered frames onto a hardware canvas.
package panel

import "image"

// Canvas is the writable surface of the LED matrix. The hub75 frame canvas
// satisfies it.
type Canvas interface {
	SetPixel(x, y int, r, g, b uint8)
	Clear()
}

// Mapper corrects for the physical arrangement of the panel chain. The
// first panel is mounted so that its local x axis runs backwards; the
// global flips and panel reversal are configuration-gated and normally off.
type Mapper struct {
	Width         int
	Height        int
	PanelWidth    int
	FlipX         bool
	FlipY         bool
	ReversePanels bool
}

// Map translates a logical coordinate into its physical position.
func (m Mapper) Map(x, y int) (int, int) {
	mx, my := x, y

	// Panel 0 has its x mirrored to align the arc flow across the chain.
	if mx < m.PanelWidth {
		mx = m.PanelWidth - 1 - mx
	}

	if m.FlipX {
		mx = (m.Width - 1) - mx
	}
	if m.FlipY {
		my = (m.Height - 1) - my
	}

	if m.ReversePanels {
		numPanels := m.Width / m.PanelWidth
		p := mx / m.PanelWidth
		in := mx % m.PanelWidth
		mx = (numPanels-1-p)*m.PanelWidth + in
	}

	return mx, my
}

// Blit copies a GL readback buffer (tightly packed RGB, bottom-left origin)
// onto the canvas, inverting the row order for the matrix's top-left origin
// and mapping every coordinate through the panel layout.
func (m Mapper) Blit(buf []byte, c Canvas) {
	for y := 0; y < m.Height; y++ {
		gy := m.Height - 1 - y
		row := gy * m.Width * 3
		for x := 0; x < m.Width; x++ {
			i := row + x*3
			mx, my := m.Map(x, y)
			c.SetPixel(mx, my, buf[i], buf[i+1], buf[i+2])
		}
	}
}

// BlitImage draws a top-left-origin image onto the canvas through the
// panel mapping. Used for the boot test pattern.
func (m Mapper) BlitImage(img *image.RGBA, c Canvas) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := img.PixOffset(x, y)
			mx, my := m.Map(x, y)
			c.SetPixel(mx, my, img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		}
	}
}
