// Package prefab builds bramble entities from YAML specs.
//
//	name: play
//	z: 10
//	family: [ui, buttons]
//	pos: {x: 320, y: 240}
//	sprite:
//	  image: button
//	  origin: {x: 0.5, y: 0.5}
//	  frame_width: 64
//	  frame_height: 32
//	  animations:
//	    idle: {frames: [0]}
//	    hold: {frames: [1]}
//	scale:
//	  duration: 6
//	  ease: out_quad
//	clickable:
//	  press_scale: 0.95
//	  sound: click
//	  on_hold_end: start_game
//	  animations: {idle: idle, hold: hold}
//
// Callback fields name entries of a Handlers map supplied at build time.
package prefab

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"

	"github.com/phanxgames/bramble"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownHandler is returned by Build when a callback name has no handler.
	ErrUnknownHandler = errors.New("prefab: unknown handler")
	// ErrUnknownEase is returned when a scale spec names an unknown easing.
	ErrUnknownEase = errors.New("prefab: unknown ease")
)

// Vec is a YAML 2D vector.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) vec2() bramble.Vec2 {
	return bramble.Vec2{X: v.X, Y: v.Y}
}

// Spec describes one entity.
type Spec struct {
	Name      string         `yaml:"name"`
	Z         int            `yaml:"z"`
	Family    []string       `yaml:"family"`
	Pos       Vec            `yaml:"pos"`
	Sprite    *SpriteSpec    `yaml:"sprite"`
	Scale     *ScaleSpec     `yaml:"scale"`
	Clickable *ClickableSpec `yaml:"clickable"`
}

// AnimationSpec is one named animation.
type AnimationSpec struct {
	Speed  float64 `yaml:"speed"`
	Frames []int   `yaml:"frames"`
}

// SpriteSpec configures a bramble.Sprite. Image is an asset key.
type SpriteSpec struct {
	Name        string                   `yaml:"name"`
	Image       string                   `yaml:"image"`
	Origin      Vec                      `yaml:"origin"`
	FrameWidth  int                      `yaml:"frame_width"`
	FrameHeight int                      `yaml:"frame_height"`
	Animation   string                   `yaml:"animation"`
	Animations  map[string]AnimationSpec `yaml:"animations"`
}

// ScaleSpec configures a bramble.Scale. Duration is in ticks.
type ScaleSpec struct {
	Duration float32 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
}

// ClickAnimationsSpec maps visual states to animation names.
type ClickAnimationsSpec struct {
	Sprite   string `yaml:"sprite"`
	Idle     string `yaml:"idle"`
	Hover    string `yaml:"hover"`
	Hold     string `yaml:"hold"`
	Inactive string `yaml:"inactive"`
}

// ClickableSpec configures a bramble.Clickable. Callback fields hold handler
// names.
type ClickableSpec struct {
	Name       string              `yaml:"name"`
	Active     *bool               `yaml:"active"`
	Sound      string              `yaml:"sound"`
	PressScale float64             `yaml:"press_scale"`
	Animations ClickAnimationsSpec `yaml:"animations"`

	OnClick      string `yaml:"on_click"`
	OnHoldEnter  string `yaml:"on_hold_enter"`
	OnHoldLeave  string `yaml:"on_hold_leave"`
	OnHoldEnd    string `yaml:"on_hold_end"`
	PointerUp    string `yaml:"pointer_up"`
	OnHoverEnter string `yaml:"on_hover_enter"`
	OnHoverLeave string `yaml:"on_hover_leave"`
}

// Handlers resolves callback names used in specs.
type Handlers map[string]bramble.ClickHandler

var easings = map[string]ease.TweenFunc{
	"linear":      ease.Linear,
	"in_quad":     ease.InQuad,
	"out_quad":    ease.OutQuad,
	"in_out_quad": ease.InOutQuad,
	"out_cubic":   ease.OutCubic,
	"out_back":    ease.OutBack,
	"out_bounce":  ease.OutBounce,
	"out_elastic": ease.OutElastic,
}

// Parse decodes a spec. Unknown fields and invalid animation tables are
// rejected here rather than at build time.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("prefab: unmarshal: %w", err)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Load reads and parses the spec at path in fsys.
func Load(fsys fs.FS, path string) (*Spec, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("prefab: load %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prefab: %s: %w", path, err)
	}
	return spec, nil
}

func (s *Spec) validate() error {
	if s.Sprite != nil {
		if _, err := bramble.NewAnimationTable(s.Sprite.animations()); err != nil {
			return fmt.Errorf("prefab: %s: sprite: %w", s.Name, err)
		}
	}
	if s.Scale != nil && s.Scale.Ease != "" {
		if _, ok := easings[s.Scale.Ease]; !ok {
			return fmt.Errorf("prefab: %s: %w %q", s.Name, ErrUnknownEase, s.Scale.Ease)
		}
	}
	return nil
}

func (s *SpriteSpec) animations() map[string]bramble.Animation {
	out := make(map[string]bramble.Animation, len(s.Animations))
	for name, a := range s.Animations {
		out[name] = bramble.Animation{Speed: a.Speed, Frames: a.Frames}
	}
	return out
}

// Build creates the entity with its components in the order sprite, scale,
// clickable. Sprite images are looked up through ctx.Assets.
func (s *Spec) Build(ctx *bramble.Context, handlers Handlers) (*bramble.Entity, error) {
	var comps []bramble.Component

	if s.Sprite != nil {
		cfg := bramble.SpriteConfig{
			Name:        s.Sprite.Name,
			Origin:      s.Sprite.Origin.vec2(),
			FrameWidth:  s.Sprite.FrameWidth,
			FrameHeight: s.Sprite.FrameHeight,
			Animation:   s.Sprite.Animation,
			Animations:  s.Sprite.animations(),
		}
		if s.Sprite.Image != "" && ctx != nil && ctx.Assets != nil {
			cfg.Image = ctx.Assets.Image(s.Sprite.Image)
		}
		sp, err := bramble.NewSprite(cfg)
		if err != nil {
			return nil, fmt.Errorf("prefab: %s: sprite: %w", s.Name, err)
		}
		comps = append(comps, sp)
	}

	if s.Scale != nil {
		comps = append(comps, bramble.NewScale(s.Scale.Duration, easings[s.Scale.Ease]))
	}

	if c := s.Clickable; c != nil {
		cfg := bramble.ClickableConfig{
			Name:       c.Name,
			Inactive:   c.Active != nil && !*c.Active,
			Sound:      c.Sound,
			PressScale: c.PressScale,
			Animations: bramble.ClickAnimations(c.Animations),
		}
		var err error
		for _, b := range []struct {
			name string
			dst  *bramble.ClickHandler
		}{
			{c.OnClick, &cfg.OnClick},
			{c.OnHoldEnter, &cfg.OnHoldEnter},
			{c.OnHoldLeave, &cfg.OnHoldLeave},
			{c.OnHoldEnd, &cfg.OnHoldEnd},
			{c.PointerUp, &cfg.PointerUp},
			{c.OnHoverEnter, &cfg.OnHoverEnter},
			{c.OnHoverLeave, &cfg.OnHoverLeave},
		} {
			if *b.dst, err = handlers.lookup(b.name); err != nil {
				return nil, fmt.Errorf("prefab: %s: %w", s.Name, err)
			}
		}
		comps = append(comps, bramble.NewClickable(cfg))
	}

	return bramble.NewEntity(ctx, bramble.EntityConfig{
		Name:       s.Name,
		Z:          s.Z,
		Family:     s.Family,
		Pos:        s.Pos.vec2(),
		Components: comps,
	})
}

// Spawn builds the entity with the world's context and adds it to w.
func (s *Spec) Spawn(w *bramble.World, handlers Handlers) (*bramble.Entity, error) {
	e, err := s.Build(w.Context(), handlers)
	if err != nil {
		return nil, err
	}
	w.Add(e)
	return e, nil
}

func (h Handlers) lookup(name string) (bramble.ClickHandler, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := h[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownHandler, name)
	}
	return fn, nil
}

// Library holds parsed specs by name.
type Library struct {
	specs map[string]*Spec
	paths map[string]string // file base name -> spec name
}

// LoadLibrary parses every *.yaml and *.yml file directly under dir.
func LoadLibrary(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("prefab: read %s: %w", dir, err)
	}
	lib := &Library{specs: make(map[string]*Spec), paths: make(map[string]string)}
	for _, ent := range entries {
		if ent.IsDir() || !isSpecFile(ent.Name()) {
			continue
		}
		if _, err := lib.Reload(fsys, joinPath(dir, ent.Name())); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Reload parses the spec at p and replaces any spec previously loaded from
// a file with the same base name, so a library loaded from an embedded
// directory can be refreshed from the same files on disk.
func (l *Library) Reload(fsys fs.FS, p string) (*Spec, error) {
	spec, err := Load(fsys, p)
	if err != nil {
		return nil, err
	}
	key := path.Base(p)
	if old, ok := l.paths[key]; ok {
		delete(l.specs, old)
	}
	l.specs[spec.Name] = spec
	l.paths[key] = spec.Name
	return spec, nil
}

// Get returns the spec with the given name.
func (l *Library) Get(name string) (*Spec, bool) {
	s, ok := l.specs[name]
	return s, ok
}

// Names returns the loaded spec names, sorted.
func (l *Library) Names() []string {
	return slices.Sorted(maps.Keys(l.specs))
}

func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}
