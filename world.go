package bramble

import (
	"cmp"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// World owns a set of entities, orders them by Z, runs their frame hooks and
// routes pointer input to them.
//
// Removal is deferred: an entity passed to Remove still receives the rest of
// the current frame's Update and Draw, gets no further pointer events, and is
// destroyed at the start of the next Step.
type World struct {
	ctx   *Context
	log   *zap.Logger
	debug bool

	entities []*Entity
	byID     *intmap.Map[uint32, *Entity]
	sorted   bool
	removed  []*Entity
	stepBuf  []*Entity
	routeBuf []*Entity

	// Input state
	pollInput    bool
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent
	testRunner   *TestRunner

	screenshotDir   string
	screenshotQueue []string
}

// NewWorld creates an empty world. ctx may be nil.
func NewWorld(ctx *Context) *World {
	return &World{
		ctx:       ctx,
		log:       ctx.logger(),
		byID:      intmap.New[uint32, *Entity](64),
		sorted:    true,
		pollInput: true,
	}
}

// Context returns the world's collaborators.
func (w *World) Context() *Context {
	return w.ctx
}

// Spawn builds an entity with the world's context and adds it.
func (w *World) Spawn(cfg EntityConfig) (*Entity, error) {
	e, err := NewEntity(w.ctx, cfg)
	if err != nil {
		w.log.Error("spawn failed", zap.String("entity", cfg.Name), zap.Error(err))
		return nil, err
	}
	w.Add(e)
	return e, nil
}

// Add inserts an entity. Panics if it belongs to another world.
func (w *World) Add(e *Entity) {
	if e.world == w {
		return
	}
	if e.world != nil {
		panic("bramble: entity already belongs to a world")
	}
	e.world = w
	w.entities = append(w.entities, e)
	w.byID.Put(e.ID, e)
	w.sorted = false
	w.log.Debug("entity added", zap.String("entity", e.Name), zap.Uint32("id", e.ID), zap.Int("z", e.z))
}

// Remove queues an entity for destruction at the next frame boundary.
func (w *World) Remove(e *Entity) {
	if e.world != w || e.removing {
		return
	}
	e.removing = true
	w.removed = append(w.removed, e)
}

// Entities returns the entities in update/draw order.
// The returned slice MUST NOT be mutated by the caller.
func (w *World) Entities() []*Entity {
	w.sort()
	return w.entities
}

// Len returns the number of entities, including those queued for removal.
func (w *World) Len() int {
	return len(w.entities)
}

// Get returns the entity with the given ID. Entities queued for removal are
// still returned until the next Step.
func (w *World) Get(id uint32) (*Entity, bool) {
	return w.byID.Get(id)
}

// Find returns the entities with the given name in update order.
func (w *World) Find(name string) []*Entity {
	var out []*Entity
	for _, e := range w.Entities() {
		if e.Name == name && !e.removing {
			out = append(out, e)
		}
	}
	return out
}

// Family returns the entities tagged with tag in update order.
func (w *World) Family(tag string) []*Entity {
	var out []*Entity
	for _, e := range w.Entities() {
		if e.InFamily(tag) && !e.removing {
			out = append(out, e)
		}
	}
	return out
}

// SetDebugMode enables per-frame timing logs at debug level.
func (w *World) SetDebugMode(enabled bool) {
	w.debug = enabled
}

// SetPointerPolling enables or disables reading ebiten mouse and touch state
// in Update. Injected events are processed either way.
func (w *World) SetPointerPolling(enabled bool) {
	w.pollInput = enabled
}

// Update runs one ebiten tick: test runner, input, then Step(1).
func (w *World) Update() error {
	if w.testRunner != nil {
		w.testRunner.step(w)
	}
	if err := w.processInput(); err != nil {
		return err
	}
	return w.Step(1)
}

// Step applies pending removals and updates every entity in Z order. The
// first error is logged and returned; the rest of the frame is skipped.
func (w *World) Step(dt float64) error {
	w.flushRemoved()
	w.sort()

	var t0 time.Time
	if w.debug {
		t0 = time.Now()
	}

	// Hooks may re-sort or grow w.entities.
	ents := w.snapshot(&w.stepBuf)
	defer w.release(&w.stepBuf, ents)
	for _, e := range ents {
		if e.destroyed {
			continue
		}
		if err := e.Update(dt); err != nil {
			w.log.Error("entity update failed",
				zap.String("entity", e.Name), zap.Uint32("id", e.ID), zap.Error(err))
			return err
		}
	}

	if w.debug {
		w.log.Debug("frame",
			zap.Duration("update", time.Since(t0)),
			zap.Int("entities", len(ents)),
			zap.Int("pending_removals", len(w.removed)))
	}
	return nil
}

// Draw draws every entity in Z order, then captures queued screenshots.
func (w *World) Draw(dst *ebiten.Image) {
	w.sort()
	ents := w.snapshot(&w.stepBuf)
	for _, e := range ents {
		e.Draw(dst)
	}
	w.release(&w.stepBuf, ents)
	w.flushScreenshots(dst)
}

// HandlePointer routes ev to every entity, topmost (highest Z) first.
// Entities queued for removal are skipped.
func (w *World) HandlePointer(ev PointerEvent) error {
	w.sort()
	ents := w.snapshot(&w.routeBuf)
	defer w.release(&w.routeBuf, ents)
	for i := len(ents) - 1; i >= 0; i-- {
		e := ents[i]
		if e.removing || e.destroyed {
			continue
		}
		if err := e.HandlePointer(ev); err != nil {
			w.log.Error("pointer handling failed",
				zap.String("entity", e.Name), zap.Uint32("id", e.ID),
				zap.Stringer("kind", ev.Kind), zap.Error(err))
			return err
		}
	}
	return nil
}

// snapshot copies the entity list into *buf and takes the buffer, so a
// nested call made from a hook gets its own slice.
func (w *World) snapshot(buf *[]*Entity) []*Entity {
	s := append((*buf)[:0], w.entities...)
	*buf = nil
	return s
}

// release clears s and hands it back as *buf for reuse.
func (w *World) release(buf *[]*Entity, s []*Entity) {
	clear(s)
	*buf = s[:0]
}

func (w *World) sort() {
	if w.sorted {
		return
	}
	slices.SortStableFunc(w.entities, func(a, b *Entity) int {
		return cmp.Compare(a.z, b.z)
	})
	w.sorted = true
}

// flushRemoved destroys queued entities and drops entities destroyed directly.
func (w *World) flushRemoved() {
	for _, e := range w.removed {
		e.Destroy()
		w.log.Debug("entity removed", zap.String("entity", e.Name), zap.Uint32("id", e.ID))
	}
	clear(w.removed)
	w.removed = w.removed[:0]

	w.entities = slices.DeleteFunc(w.entities, func(e *Entity) bool {
		if !e.destroyed {
			return false
		}
		w.byID.Del(e.ID)
		e.world = nil
		e.removing = false
		return true
	})
}
