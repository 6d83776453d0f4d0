package preview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is the overlay's redraw interval in seconds.
const fpsRefresh = 0.5

// fpsOverlay shows FPS, TPS and the number of live handles, redrawn
// every fpsRefresh seconds into its own small image.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	drawn   bool
}

func newFPSOverlay() *fpsOverlay {
	// 120x48 fits three short lines of the debug font
	return &fpsOverlay{img: ebiten.NewImage(120, 48)}
}

func (o *fpsOverlay) update(dt float64, liveHandles int) {
	o.elapsed += dt
	if o.drawn && o.elapsed < fpsRefresh {
		return
	}
	o.elapsed = 0
	o.drawn = true

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nHandles: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), liveHandles))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
