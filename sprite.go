package bramble

import (
	"image"
	"maps"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// CapSprite is the default capability name of a Sprite.
const CapSprite = "sprite"

// frameEpsilon absorbs float accumulation error so that summing speed*dt
// over many ticks lands on whole frames (e.g. 40 x 0.15 = 6).
const frameEpsilon = 1e-9

// Animation is one entry of an animation table. Speed is in frames per tick;
// 0 holds the first frame. Frames are sheet cell indices, played in order and
// looped.
type Animation struct {
	Speed  float64
	Frames []int
}

// AnimationTable is a validated set of named animations.
type AnimationTable struct {
	anims map[string]Animation
}

// NewAnimationTable validates and copies anims. Every animation needs at
// least one frame, a non-negative speed and non-negative frame indices.
func NewAnimationTable(anims map[string]Animation) (AnimationTable, error) {
	t := AnimationTable{anims: make(map[string]Animation, len(anims))}
	for _, name := range slices.Sorted(maps.Keys(anims)) {
		a := anims[name]
		if len(a.Frames) == 0 {
			return AnimationTable{}, &AnimationError{Animation: name, Err: ErrEmptyAnimationFrames}
		}
		if a.Speed < 0 || math.IsNaN(a.Speed) {
			return AnimationTable{}, &AnimationError{Animation: name, Err: ErrNegativeAnimationSpeed}
		}
		for _, f := range a.Frames {
			if f < 0 {
				return AnimationTable{}, &AnimationError{Animation: name, Err: ErrFrameOutOfRange}
			}
		}
		t.anims[name] = Animation{Speed: a.Speed, Frames: slices.Clone(a.Frames)}
	}
	return t, nil
}

// Lookup returns the named animation.
func (t AnimationTable) Lookup(name string) (Animation, bool) {
	a, ok := t.anims[name]
	return a, ok
}

// Names returns the animation names, sorted.
func (t AnimationTable) Names() []string {
	return slices.Sorted(maps.Keys(t.anims))
}

// Len returns the number of animations.
func (t AnimationTable) Len() int {
	return len(t.anims)
}

// SpriteConfig configures NewSprite.
type SpriteConfig struct {
	// Name overrides the capability name (default CapSprite).
	Name string
	// Image is the sprite sheet. Cells are FrameWidth x FrameHeight, laid out
	// left-to-right, top-to-bottom. A nil Image draws nothing.
	Image *ebiten.Image
	// Origin is the relative anchor within a frame (0,0 top-left, 0.5,0.5 center).
	Origin      Vec2
	FrameWidth  int
	FrameHeight int
	Animations  map[string]Animation
	// Animation is the initial animation. Defaults to "idle" when present,
	// otherwise the first name in sorted order.
	Animation string
}

// Sprite draws frames from a sprite sheet and advances the active animation
// every tick.
type Sprite struct {
	name   string
	image  *ebiten.Image
	origin Vec2
	frameW int
	frameH int
	cols   int

	table   AnimationTable
	current string
	anim    Animation
	index   int
	acc     float64

	owner *Entity
	op    ebiten.DrawImageOptions
}

// NewSprite validates cfg and returns a sprite playing its initial animation.
func NewSprite(cfg SpriteConfig) (*Sprite, error) {
	table, err := NewAnimationTable(cfg.Animations)
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, &AnimationError{Animation: cfg.Animation, Err: ErrUnknownAnimation}
	}

	s := &Sprite{
		name:   cfg.Name,
		image:  cfg.Image,
		origin: cfg.Origin,
		frameW: cfg.FrameWidth,
		frameH: cfg.FrameHeight,
		table:  table,
	}
	if s.name == "" {
		s.name = CapSprite
	}

	if s.image != nil {
		b := s.image.Bounds()
		if s.frameW <= 0 {
			s.frameW = b.Dx()
		}
		if s.frameH <= 0 {
			s.frameH = b.Dy()
		}
		s.cols = max(1, b.Dx()/s.frameW)
		cells := s.cols * max(1, b.Dy()/s.frameH)
		for _, name := range table.Names() {
			a, _ := table.Lookup(name)
			for _, f := range a.Frames {
				if f >= cells {
					return nil, &AnimationError{Animation: name, Err: ErrFrameOutOfRange}
				}
			}
		}
	}

	initial := cfg.Animation
	if initial == "" {
		if _, ok := table.Lookup("idle"); ok {
			initial = "idle"
		} else {
			initial = table.Names()[0]
		}
	}
	if err := s.SetAnimation(initial, Force()); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the capability name.
func (s *Sprite) Name() string {
	return s.name
}

// Start records the owner and, when the owner has no size yet, gives it the
// frame size and the sprite's origin.
func (s *Sprite) Start(e *Entity) error {
	s.owner = e
	if e.Size == (Vec2{}) {
		e.Size = Vec2{float64(s.frameW), float64(s.frameH)}
		e.Origin = s.origin
	}
	return nil
}

// Destroy releases the owner reference.
func (s *Sprite) Destroy() {
	s.owner = nil
}

// AnimationOption configures SetAnimation.
type AnimationOption func(*animationOptions)

type animationOptions struct {
	force bool
}

// Force restarts the animation even when it is already active.
func Force() AnimationOption {
	return func(o *animationOptions) { o.force = true }
}

// SetAnimation switches to the named animation and rewinds it to its first
// frame. Requesting the active animation without Force leaves the frame and
// accumulator untouched, so repeated commands (e.g. while a button is held)
// do not restart it.
func (s *Sprite) SetAnimation(name string, opts ...AnimationOption) error {
	var o animationOptions
	for _, opt := range opts {
		opt(&o)
	}
	a, ok := s.table.Lookup(name)
	if !ok {
		return &AnimationError{Animation: name, Err: ErrUnknownAnimation}
	}
	if name == s.current && !o.force {
		return nil
	}
	s.current = name
	s.anim = a
	s.index = 0
	s.acc = 0
	return nil
}

// Update advances the accumulator by speed*dt and steps one frame per whole
// unit, wrapping at the end of the sequence. Large dt may wrap several times.
// Non-positive and non-finite dt are ignored.
func (s *Sprite) Update(dt float64) error {
	if s.anim.Speed == 0 || !(dt > 0) || math.IsInf(dt, 0) {
		return nil
	}
	s.acc += s.anim.Speed * dt
	steps := math.Floor(s.acc + frameEpsilon)
	if steps < 1 {
		return nil
	}
	n := float64(len(s.anim.Frames))
	s.index = int(math.Mod(float64(s.index)+math.Mod(steps, n), n))
	s.acc -= steps
	if s.acc < 0 {
		s.acc = 0
	}
	return nil
}

// Animation returns the active animation name.
func (s *Sprite) Animation() string {
	return s.current
}

// Index returns the position within the active animation's frame sequence.
func (s *Sprite) Index() int {
	return s.index
}

// Frame returns the sheet cell currently shown.
func (s *Sprite) Frame() int {
	return s.anim.Frames[s.index]
}

// Accumulator returns the sub-frame progress in [0, 1).
func (s *Sprite) Accumulator() float64 {
	return s.acc
}

// Table returns the sprite's animation table.
func (s *Sprite) Table() AnimationTable {
	return s.table
}

// FrameSize returns the cell size in pixels.
func (s *Sprite) FrameSize() (w, h int) {
	return s.frameW, s.frameH
}

// cellRect returns the sheet rectangle of a cell.
func (s *Sprite) cellRect(cell int) image.Rectangle {
	cols := max(1, s.cols)
	x := (cell % cols) * s.frameW
	y := (cell / cols) * s.frameH
	b := image.Rect(x, y, x+s.frameW, y+s.frameH)
	if s.image != nil {
		b = b.Add(s.image.Bounds().Min)
	}
	return b
}

// Draw renders the current frame anchored at Origin, scaled by the owner's
// Scale and translated to its Pos.
func (s *Sprite) Draw(dst *ebiten.Image) {
	if s.image == nil || dst == nil {
		return
	}
	sub := s.image.SubImage(s.cellRect(s.Frame())).(*ebiten.Image)

	s.op.GeoM.Reset()
	s.op.GeoM.Translate(-s.origin.X*float64(s.frameW), -s.origin.Y*float64(s.frameH))
	if s.owner != nil {
		s.op.GeoM.Scale(s.owner.Scale.X, s.owner.Scale.Y)
		s.op.GeoM.Translate(s.owner.Pos.X, s.owner.Pos.Y)
	}
	dst.DrawImage(sub, &s.op)
}
