package bramble

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CapScale is the capability name of a Scale.
const CapScale = "scale"

// Scale tweens its owner's Scale field. Call To to start a tween; the
// component advances it on each Update. Durations are in ticks.
type Scale struct {
	duration float32
	fn       ease.TweenFunc

	tweens [2]*gween.Tween
	owner  *Entity
	done   bool
}

// NewScale returns a Scale that tweens over duration ticks with fn.
// A nil fn uses ease.OutQuad.
func NewScale(duration float32, fn ease.TweenFunc) *Scale {
	if fn == nil {
		fn = ease.OutQuad
	}
	return &Scale{duration: duration, fn: fn, done: true}
}

// Name returns CapScale.
func (s *Scale) Name() string {
	return CapScale
}

// Start records the owner.
func (s *Scale) Start(e *Entity) error {
	s.owner = e
	return nil
}

// Destroy stops any running tween.
func (s *Scale) Destroy() {
	s.owner = nil
	s.done = true
}

// To starts a tween from the owner's current scale to (sx, sy), replacing any
// tween in progress. A zero duration applies the target immediately.
func (s *Scale) To(sx, sy float64) {
	if s.owner == nil {
		return
	}
	if s.duration <= 0 {
		s.owner.Scale = Vec2{sx, sy}
		s.done = true
		return
	}
	s.tweens[0] = gween.New(float32(s.owner.Scale.X), float32(sx), s.duration, s.fn)
	s.tweens[1] = gween.New(float32(s.owner.Scale.Y), float32(sy), s.duration, s.fn)
	s.done = false
}

// Done reports whether no tween is running.
func (s *Scale) Done() bool {
	return s.done
}

// Update advances the tween by dt ticks and writes the owner's scale.
func (s *Scale) Update(dt float64) error {
	if s.done || s.owner == nil {
		return nil
	}
	x, doneX := s.tweens[0].Update(float32(dt))
	y, doneY := s.tweens[1].Update(float32(dt))
	s.owner.Scale = Vec2{float64(x), float64(y)}
	s.done = doneX && doneY
	return nil
}
