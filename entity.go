package bramble

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// entityIDCounter is a plain counter (no atomic: bramble is single-threaded).
var entityIDCounter uint32

func nextEntityID() uint32 {
	entityIDCounter++
	return entityIDCounter
}

// EntityConfig describes an entity for NewEntity and World.Spawn.
type EntityConfig struct {
	Name       string
	Z          int
	Family     []string
	Pos        Vec2
	Components []Component
	// Init runs after all components are attached.
	Init func(e *Entity) error
}

// Entity is a composition root: an ordered list of components plus a
// capability registry mapping names to the operations they expose.
//
// Components update and draw in attachment order. Capabilities are looked
// up by name with Capability or the typed Get helper.
type Entity struct {
	// Identity
	ID   uint32
	Name string

	// Geometry. Size is unscaled; Origin is relative (0..1) to Size.
	Pos    Vec2
	Size   Vec2
	Origin Vec2
	Scale  Vec2

	z      int
	family map[string]struct{}
	ctx    *Context
	world  *World

	components []Component
	registry   map[string]any
	detaching  []string

	removing  bool
	destroyed bool
}

// NewEntity builds an entity from cfg. Components are attached in order; the
// first attach failure destroys the partially built entity and is returned.
func NewEntity(ctx *Context, cfg EntityConfig) (*Entity, error) {
	e := &Entity{
		ID:       nextEntityID(),
		Name:     cfg.Name,
		Pos:      cfg.Pos,
		Scale:    Vec2{1, 1},
		z:        cfg.Z,
		family:   make(map[string]struct{}, len(cfg.Family)),
		ctx:      ctx,
		registry: make(map[string]any, len(cfg.Components)),
	}
	for _, tag := range cfg.Family {
		e.family[tag] = struct{}{}
	}
	for _, c := range cfg.Components {
		if err := e.Attach(c); err != nil {
			e.Destroy()
			return nil, err
		}
	}
	if cfg.Init != nil {
		if err := cfg.Init(e); err != nil {
			e.Destroy()
			return nil, fmt.Errorf("bramble: init entity %q: %w", cfg.Name, err)
		}
	}
	return e, nil
}

// Context returns the collaborators the entity was built with. May be nil.
func (e *Entity) Context() *Context {
	return e.ctx
}

// World returns the world the entity was added to, or nil.
func (e *Entity) World() *World {
	return e.world
}

// --- Capability registry ---

// Attach registers c after the existing components and under c.Name().
// A duplicate name fails with ErrDuplicateCapability unless Override is
// given, in which case an existing component keeps its slot in the update
// order and receives Destroy after the replacement has started.
// Panics if c is nil.
func (e *Entity) Attach(c Component, opts ...AttachOption) error {
	if c == nil {
		panic("bramble: cannot attach nil component")
	}
	name := c.Name()
	if e.destroyed {
		return &CapabilityError{Entity: e.Name, Capability: name, Err: ErrEntityDestroyed}
	}
	cfg := newAttachConfig(opts)

	prev, exists := e.registry[name]
	if exists && !cfg.override {
		return &CapabilityError{Entity: e.Name, Capability: name, Err: ErrDuplicateCapability}
	}

	idx := -1
	if exists {
		idx = e.componentIndex(name)
	}
	if idx >= 0 {
		e.components[idx] = c
	} else {
		e.components = append(e.components, c)
	}
	e.registry[name] = c
	e.cancelDetach(name)

	if s, ok := c.(Starter); ok {
		if err := s.Start(e); err != nil {
			if idx >= 0 {
				e.components[idx] = prev.(Component)
			} else {
				e.removeComponent(c)
			}
			if exists {
				e.registry[name] = prev
			} else {
				delete(e.registry, name)
			}
			return fmt.Errorf("bramble: start %q on entity %q: %w", name, e.Name, err)
		}
	}

	if idx >= 0 {
		if d, ok := prev.(Destroyer); ok {
			d.Destroy()
		}
	}
	return nil
}

// Extend merges named operations onto the entity, e.g.
//
//	e.Extend(bramble.Ops{"blink": func() { ... }})
//
// The duplicate check covers every name before anything is merged, so a
// failing Extend leaves the entity unchanged. With Override, an existing
// component of the same name is detached immediately and destroyed.
func (e *Entity) Extend(ops Ops, opts ...AttachOption) error {
	names := slices.Sorted(maps.Keys(ops))
	if e.destroyed {
		if len(names) == 0 {
			return nil
		}
		return &CapabilityError{Entity: e.Name, Capability: names[0], Err: ErrEntityDestroyed}
	}
	cfg := newAttachConfig(opts)
	if !cfg.override {
		for _, name := range names {
			if _, ok := e.registry[name]; ok {
				return &CapabilityError{Entity: e.Name, Capability: name, Err: ErrDuplicateCapability}
			}
		}
	}
	for _, name := range names {
		if idx := e.componentIndex(name); idx >= 0 {
			old := e.components[idx]
			e.components = slices.Delete(e.components, idx, idx+1)
			if d, ok := old.(Destroyer); ok {
				d.Destroy()
			}
		}
		e.registry[name] = ops[name]
		e.cancelDetach(name)
	}
	return nil
}

// Capability returns the operations registered under name.
func (e *Entity) Capability(name string) (any, bool) {
	v, ok := e.registry[name]
	return v, ok
}

// Has reports whether a capability is registered under name.
func (e *Entity) Has(name string) bool {
	_, ok := e.registry[name]
	return ok
}

// Get returns the capability registered under name as a T. It reports false
// when the name is missing or holds a different type.
//
//	sprite, ok := bramble.Get[*bramble.Sprite](e, bramble.CapSprite)
func Get[T any](e *Entity, name string) (T, bool) {
	v, ok := e.registry[name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Capabilities returns the registered names, sorted.
func (e *Entity) Capabilities() []string {
	return slices.Sorted(maps.Keys(e.registry))
}

// Components returns the attached components in update order.
// The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Components() []Component {
	return e.components
}

// Detach queues the capability for removal. The removal is applied at the
// start of the entity's next Update: until then a queued component still
// draws and receives pointer events for the rest of the current frame.
func (e *Entity) Detach(name string) error {
	if _, ok := e.registry[name]; !ok {
		return &CapabilityError{Entity: e.Name, Capability: name, Err: ErrUnknownCapability}
	}
	if !slices.Contains(e.detaching, name) {
		e.detaching = append(e.detaching, name)
	}
	return nil
}

func (e *Entity) flushDetached() {
	if len(e.detaching) == 0 {
		return
	}
	for _, name := range e.detaching {
		if idx := e.componentIndex(name); idx >= 0 {
			old := e.components[idx]
			e.components = slices.Delete(e.components, idx, idx+1)
			if d, ok := old.(Destroyer); ok {
				d.Destroy()
			}
		}
		delete(e.registry, name)
	}
	e.detaching = e.detaching[:0]
}

func (e *Entity) cancelDetach(name string) {
	if i := slices.Index(e.detaching, name); i >= 0 {
		e.detaching = slices.Delete(e.detaching, i, i+1)
	}
}

func (e *Entity) componentIndex(name string) int {
	for i, c := range e.components {
		if c.Name() == name {
			return i
		}
	}
	return -1
}

func (e *Entity) removeComponent(c Component) {
	for i, x := range e.components {
		if x == c {
			e.components = slices.Delete(e.components, i, i+1)
			return
		}
	}
}

// --- Frame hooks ---

// Update applies queued detaches, then updates every Updater in attachment
// order. The first error stops the pass.
func (e *Entity) Update(dt float64) error {
	if e.destroyed {
		return nil
	}
	e.flushDetached()
	for _, c := range e.components {
		u, ok := c.(Updater)
		if !ok {
			continue
		}
		if err := u.Update(dt); err != nil {
			return fmt.Errorf("bramble: update %q on entity %q: %w", c.Name(), e.Name, err)
		}
	}
	return nil
}

// Draw draws every Drawer in attachment order.
func (e *Entity) Draw(dst *ebiten.Image) {
	if e.destroyed {
		return
	}
	for _, c := range e.components {
		if d, ok := c.(Drawer); ok {
			d.Draw(dst)
		}
	}
}

// HandlePointer routes ev to every PointerHandler in attachment order.
func (e *Entity) HandlePointer(ev PointerEvent) error {
	if e.destroyed {
		return nil
	}
	for _, c := range e.components {
		h, ok := c.(PointerHandler)
		if !ok {
			continue
		}
		if err := h.HandlePointer(ev); err != nil {
			return fmt.Errorf("bramble: %s pointer on %q of entity %q: %w", ev.Kind, c.Name(), e.Name, err)
		}
	}
	return nil
}

// --- Ordering & families ---

// Z returns the draw/update order key. Lower values update and draw first.
func (e *Entity) Z() int {
	return e.z
}

// SetZ changes the order key and marks the owning world for re-sorting.
func (e *Entity) SetZ(z int) {
	if e.z == z {
		return
	}
	e.z = z
	if e.world != nil {
		e.world.sorted = false
	}
}

// InFamily reports whether the entity carries the group tag.
func (e *Entity) InFamily(tag string) bool {
	_, ok := e.family[tag]
	return ok
}

// AddFamily tags the entity.
func (e *Entity) AddFamily(tags ...string) {
	for _, tag := range tags {
		e.family[tag] = struct{}{}
	}
}

// RemoveFamily drops a tag.
func (e *Entity) RemoveFamily(tag string) {
	delete(e.family, tag)
}

// Families returns the entity's tags, sorted.
func (e *Entity) Families() []string {
	return slices.Sorted(maps.Keys(e.family))
}

// --- Geometry ---

// HitRect returns the world-space rectangle used for pointer containment:
// Size scaled by Scale, anchored at Pos by the relative Origin.
func (e *Entity) HitRect() Rect {
	w := e.Size.X * e.Scale.X
	h := e.Size.Y * e.Scale.Y
	return Rect{
		X:      e.Pos.X - e.Origin.X*w,
		Y:      e.Pos.Y - e.Origin.Y*h,
		Width:  w,
		Height: h,
	}
}

// --- Disposal ---

// Destroy destroys components in reverse attachment order and clears the
// registry. Safe to call more than once.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	for i := len(e.components) - 1; i >= 0; i-- {
		if d, ok := e.components[i].(Destroyer); ok {
			d.Destroy()
		}
	}
	e.components = nil
	e.registry = map[string]any{}
	e.detaching = nil
}

// IsDestroyed returns true if the entity has been destroyed.
func (e *Entity) IsDestroyed() bool {
	return e.destroyed
}
