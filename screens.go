package bramble

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screen is a named world managed by Screens.
type Screen struct {
	Name  string
	World *World
}

// ScreenManager switches between named screens.
type ScreenManager interface {
	CurrentScreen() *Screen
	Show(name string) error
}

// Screens holds named worlds, runs the current one and implements
// ebiten.Game.
type Screens struct {
	screens map[string]*Screen
	current *Screen
	width   int
	height  int
	log     *zap.Logger
}

// NewScreens creates a screen manager with a fixed logical size.
// A nil logger discards logs.
func NewScreens(width, height int, log *zap.Logger) *Screens {
	if log == nil {
		log = zap.NewNop()
	}
	return &Screens{
		screens: make(map[string]*Screen),
		width:   width,
		height:  height,
		log:     log,
	}
}

// Register adds a named world. The first registered screen becomes current.
func (s *Screens) Register(name string, w *World) {
	sc := &Screen{Name: name, World: w}
	s.screens[name] = sc
	if s.current == nil {
		s.current = sc
	}
}

// CurrentScreen returns the active screen, or nil before any Register.
func (s *Screens) CurrentScreen() *Screen {
	return s.current
}

// Show makes the named screen current. The switch is visible to the next
// Update; the screen being left finishes its current frame.
func (s *Screens) Show(name string) error {
	sc, ok := s.screens[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, name)
	}
	if s.current != sc {
		s.log.Debug("show screen", zap.String("screen", name))
	}
	s.current = sc
	return nil
}

// Update implements ebiten.Game.
func (s *Screens) Update() error {
	if s.current == nil {
		return nil
	}
	return s.current.World.Update()
}

// Draw implements ebiten.Game.
func (s *Screens) Draw(screen *ebiten.Image) {
	if s.current == nil {
		return
	}
	s.current.World.Draw(screen)
}

// Layout implements ebiten.Game.
func (s *Screens) Layout(_, _ int) (int, int) {
	return s.width, s.height
}

// RunConfig configures Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// TPS overrides ebiten's ticks per second when > 0.
	TPS int
}

// Run opens a window and runs game until it returns an error or the window
// closes.
func Run(game ebiten.Game, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	return ebiten.RunGame(game)
}
