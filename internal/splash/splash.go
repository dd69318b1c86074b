// Package splash renders the boot test pattern shown while the GL
// pipeline and API come up. The pattern is an SVG so panel alignment
// problems are obvious: per-panel frames, color bars and a center ring.
package splash

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	_ "embed"
)

//go:embed pattern.svg
var patternSVG []byte

// Render rasterises the pattern at twice the panel resolution and scales
// it down, which keeps the thin frame lines visible at 64 pixel height.
func Render(width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(patternSVG))
	if err != nil {
		return nil, fmt.Errorf("parse splash pattern: %w", err)
	}

	bw, bh := width*2, height*2
	big := image.NewRGBA(image.Rect(0, 0, bw, bh))
	icon.SetTarget(0, 0, float64(bw), float64(bh))

	scanner := rasterx.NewScannerGV(bw, bh, big, big.Bounds())
	icon.Draw(rasterx.NewDasher(bw, bh, scanner), 1.0)

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), xdraw.Over, nil)
	return out, nil
}
