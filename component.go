package bramble

import "github.com/hajimehoshi/ebiten/v2"

// Component is a named unit of behavior attached to an Entity. The name is
// the capability name it is registered under and must be unique within the
// entity unless attached with Override.
//
// Lifecycle hooks are optional: a component implements only the hook
// interfaces it needs (Starter, Updater, Drawer, Destroyer, PointerHandler)
// and the entity skips it for the others.
type Component interface {
	Name() string
}

// Starter is called once when the component is attached. A returned error
// cancels the attach.
type Starter interface {
	Start(e *Entity) error
}

// Updater is called every frame tick with the elapsed ticks.
type Updater interface {
	Update(dt float64) error
}

// Drawer is called every frame after update.
type Drawer interface {
	Draw(dst *ebiten.Image)
}

// Destroyer is called when the component is detached or its entity destroyed.
type Destroyer interface {
	Destroy()
}

// PointerHandler receives routed pointer events.
type PointerHandler interface {
	HandlePointer(ev PointerEvent) error
}

// Ops is a set of named operations merged onto an entity with Extend.
type Ops map[string]any

// AttachOption configures Attach and Extend.
type AttachOption func(*attachConfig)

type attachConfig struct {
	override bool
}

// Override allows Attach or Extend to replace an existing capability of the
// same name. Without it a duplicate name fails with ErrDuplicateCapability.
func Override() AttachOption {
	return func(c *attachConfig) { c.override = true }
}

func newAttachConfig(opts []AttachOption) attachConfig {
	var cfg attachConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
