package bramble

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// CapFPS is the capability name of an FPSCounter.
const CapFPS = "fps"

// fpsRefreshTicks is how often the counter text is refreshed.
const fpsRefreshTicks = 30

// FPSCounter draws the actual FPS and TPS at its owner's position.
type FPSCounter struct {
	owner *Entity
	img   *ebiten.Image
	acc   float64
	text  string
	dirty bool
}

// NewFPSCounter returns a counter component.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{dirty: true}
}

// Name returns CapFPS.
func (f *FPSCounter) Name() string { return CapFPS }

// Start records the owner.
func (f *FPSCounter) Start(e *Entity) error {
	f.owner = e
	f.refresh()
	return nil
}

// Destroy releases the backing image.
func (f *FPSCounter) Destroy() {
	if f.img != nil {
		f.img.Deallocate()
		f.img = nil
	}
	f.owner = nil
}

// Text returns the last rendered line.
func (f *FPSCounter) Text() string { return f.text }

// Update refreshes the text every fpsRefreshTicks ticks.
func (f *FPSCounter) Update(dt float64) error {
	f.acc += dt
	if f.acc < fpsRefreshTicks {
		return nil
	}
	f.acc = 0
	f.refresh()
	return nil
}

func (f *FPSCounter) refresh() {
	f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	f.dirty = true
}

// Draw renders the text on a translucent backdrop.
func (f *FPSCounter) Draw(dst *ebiten.Image) {
	if dst == nil || f.owner == nil {
		return
	}
	if f.img == nil {
		// 100x32 fits "FPS: 60.0\nTPS: 60.0".
		f.img = ebiten.NewImage(100, 32)
	}
	if f.dirty {
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, f.text)
		f.dirty = false
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(f.owner.Pos.X, f.owner.Pos.Y)
	dst.DrawImage(f.img, &op)
}
