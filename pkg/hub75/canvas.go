package hub75

// FrameCanvas is an off-screen RGB buffer sized to the panel chain. It is
// drawn into by the render loop and handed to the scan-out goroutine on
// swap.
type FrameCanvas struct {
	width  int
	height int
	pix    []uint8
}

// NewFrameCanvas returns a cleared canvas.
func NewFrameCanvas(width, height int) *FrameCanvas {
	return &FrameCanvas{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}
}

// Width returns the canvas width in pixels.
func (c *FrameCanvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *FrameCanvas) Height() int { return c.height }

// SetPixel writes one pixel. Out-of-range coordinates are ignored.
func (c *FrameCanvas) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := (y*c.width + x) * 3
	c.pix[i+0] = r
	c.pix[i+1] = g
	c.pix[i+2] = b
}

// At reads one pixel back. Out-of-range coordinates return black.
func (c *FrameCanvas) At(x, y int) (r, g, b uint8) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0, 0, 0
	}
	i := (y*c.width + x) * 3
	return c.pix[i+0], c.pix[i+1], c.pix[i+2]
}

// Clear sets every pixel to black.
func (c *FrameCanvas) Clear() {
	for i := range c.pix {
		c.pix[i] = 0
	}
}
