package bramble

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func spawn(t *testing.T, w *World, name string, z int, comps ...Component) *Entity {
	t.Helper()
	e, err := w.Spawn(EntityConfig{Name: name, Z: z, Components: comps})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func names(ents []*Entity) []string {
	out := make([]string, len(ents))
	for i, e := range ents {
		out[i] = e.Name
	}
	return out
}

func TestWorldZOrder(t *testing.T) {
	var log []string
	w := NewWorld(nil)
	spawn(t, w, "c", 5, newRecorder("c", &log))
	spawn(t, w, "a", -1, newRecorder("a", &log))
	b := spawn(t, w, "b", 5, newRecorder("b", &log))
	log = log[:0]

	if got := names(w.Entities()); !slices.Equal(got, []string{"a", "c", "b"}) {
		t.Errorf("order = %v, want stable by z", got)
	}
	if err := w.Step(1); err != nil {
		t.Fatal(err)
	}
	wantLog(t, &log, "update:a", "update:c", "update:b")

	b.SetZ(-5)
	_ = w.Step(1)
	wantLog(t, &log, "update:b", "update:a", "update:c")
}

func TestWorldPointerTopmostFirst(t *testing.T) {
	var log []string
	w := NewWorld(nil)
	spawn(t, w, "low", 0, newRecorder("low", &log))
	spawn(t, w, "high", 10, newRecorder("high", &log))
	log = log[:0]

	if err := w.HandlePointer(PointerEvent{Kind: PointerMove}); err != nil {
		t.Fatal(err)
	}
	wantLog(t, &log, "pointer:high", "pointer:low")
}

func TestWorldFindAndFamily(t *testing.T) {
	w := NewWorld(nil)
	a, _ := w.Spawn(EntityConfig{Name: "btn", Z: 2, Family: []string{"ui"}})
	b, _ := w.Spawn(EntityConfig{Name: "btn", Z: 1})
	c, _ := w.Spawn(EntityConfig{Name: "bg", Family: []string{"ui"}})

	if got := w.Find("btn"); !slices.Equal(got, []*Entity{b, a}) {
		t.Errorf("Find = %v", names(got))
	}
	if got := w.Family("ui"); !slices.Equal(got, []*Entity{c, a}) {
		t.Errorf("Family = %v", names(got))
	}
	w.Remove(a)
	if got := w.Family("ui"); !slices.Equal(got, []*Entity{c}) {
		t.Errorf("Family after remove = %v", names(got))
	}
}

func TestWorldDeferredRemoval(t *testing.T) {
	var log []string
	w := NewWorld(nil)
	a := spawn(t, w, "a", 0, newRecorder("a", &log))
	spawn(t, w, "b", 1, newRecorder("b", &log))
	log = log[:0]

	w.Remove(a)
	w.Remove(a)
	if a.IsDestroyed() || w.Len() != 2 {
		t.Fatal("removal should be deferred")
	}
	_ = w.HandlePointer(PointerEvent{Kind: PointerMove})
	wantLog(t, &log, "pointer:b")

	if got, ok := w.Get(a.ID); !ok || got != a {
		t.Error("Get should find an entity queued for removal")
	}

	_ = w.Step(1)
	wantLog(t, &log, "destroy:a", "update:b")
	if _, ok := w.Get(a.ID); ok {
		t.Error("Get should miss after the removal is applied")
	}
	if !a.IsDestroyed() || a.World() != nil || w.Len() != 1 {
		t.Error("entity should be destroyed and detached from the world")
	}
}

func TestWorldDropsDirectlyDestroyed(t *testing.T) {
	w := NewWorld(nil)
	e, _ := w.Spawn(EntityConfig{Name: "e"})
	e.Destroy()
	_ = w.Step(1)
	if w.Len() != 0 {
		t.Errorf("Len = %d, want 0", w.Len())
	}
}

func TestWorldAddForeignPanics(t *testing.T) {
	w1, w2 := NewWorld(nil), NewWorld(nil)
	e, _ := w1.Spawn(EntityConfig{})
	w1.Add(e)
	if w1.Len() != 1 {
		t.Error("re-adding to the same world should be a no-op")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	w2.Add(e)
}

func TestWorldUpdateErrorLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	w := NewWorld(&Context{Logger: zap.New(core)})

	var log []string
	boom := errors.New("boom")
	bad := newRecorder("bad", &log)
	bad.updErr = boom
	spawn(t, w, "first", 0, bad)
	spawn(t, w, "second", 1, newRecorder("second", &log))
	log = log[:0]

	if err := w.Step(1); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	wantLog(t, &log, "update:bad")

	entries := logs.FilterMessage("entity update failed").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["entity"]; got != "first" {
		t.Errorf("logged entity = %v", got)
	}
}

func TestWorldSpawnErrorLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	w := NewWorld(&Context{Logger: zap.New(core)})

	_, err := w.Spawn(EntityConfig{Name: "dup", Components: []Component{plain{"x"}, plain{"x"}}})
	if !errors.Is(err, ErrDuplicateCapability) {
		t.Fatalf("err = %v", err)
	}
	if w.Len() != 0 || logs.Len() != 1 {
		t.Errorf("Len = %d, logs = %d", w.Len(), logs.Len())
	}
}

func TestWorldDebugMode(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	w := NewWorld(&Context{Logger: zap.New(core)})
	w.SetDebugMode(true)
	_ = w.Step(1)
	if logs.FilterMessage("frame").Len() != 1 {
		t.Error("expected a frame timing entry")
	}
}

func TestWorldClickEndToEnd(t *testing.T) {
	var calls []string
	w := NewWorld(nil)
	w.SetPointerPolling(false)

	// Overlapping entities both receive the event.
	low, _ := button(t, nil, ClickableConfig{}, &calls)
	w.Add(low)
	var order []string
	top := NewClickable(ClickableConfig{OnClick: func(ClickContext) error {
		order = append(order, "top")
		return nil
	}})
	te := spawn(t, w, "top", 1, top)
	te.Size = Vec2{100, 100}

	w.InjectClick(10, 10)
	for range 2 {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(order, []string{"top"}) {
		t.Errorf("order = %v", order)
	}
	wantLog(t, &calls, "hoverEnter", "click", "holdEnter", "pointerUp", "holdEnd")
}

// hook runs fn from its update and pointer hooks.
type hook struct {
	name      string
	onUpdate  func()
	onPointer func(PointerEvent) error
}

func (h *hook) Name() string { return h.name }

func (h *hook) Update(float64) error {
	if h.onUpdate != nil {
		h.onUpdate()
	}
	return nil
}

func (h *hook) HandlePointer(ev PointerEvent) error {
	if h.onPointer != nil {
		return h.onPointer(ev)
	}
	return nil
}

func TestWorldStepResortInsideUpdate(t *testing.T) {
	var log []string
	w := NewWorld(nil)
	a := spawn(t, w, "a", 0, newRecorder("a", &log))
	spawn(t, w, "b", 1, newRecorder("b", &log))
	spawn(t, w, "c", 2, newRecorder("c", &log))
	log = log[:0]

	moved := false
	if err := a.Attach(&hook{name: "mover", onUpdate: func() {
		if moved {
			return
		}
		moved = true
		a.SetZ(10)
		w.Family("none")
	}}); err != nil {
		t.Fatal(err)
	}

	if err := w.Step(1); err != nil {
		t.Fatal(err)
	}
	wantLog(t, &log, "update:a", "update:b", "update:c")

	_ = w.Step(1)
	wantLog(t, &log, "update:b", "update:c", "update:a")
}

func TestWorldStepSkipsEntitiesAddedMidFrame(t *testing.T) {
	var log []string
	w := NewWorld(nil)
	a := spawn(t, w, "a", 0, newRecorder("a", &log))
	log = log[:0]

	added := false
	if err := a.Attach(&hook{name: "spawner", onUpdate: func() {
		if added {
			return
		}
		added = true
		spawn(t, w, "late", -1, newRecorder("late", &log))
		w.Entities()
	}}); err != nil {
		t.Fatal(err)
	}

	_ = w.Step(1)
	wantLog(t, &log, "update:a", "start:late")
	_ = w.Step(1)
	wantLog(t, &log, "update:late", "update:a")
}

func TestWorldHandlePointerReentrant(t *testing.T) {
	var log []string
	w := NewWorld(nil)
	spawn(t, w, "low", 0, newRecorder("low", &log))
	top := spawn(t, w, "top", 5, newRecorder("top", &log))
	log = log[:0]

	nested := false
	if err := top.Attach(&hook{name: "relay", onPointer: func(ev PointerEvent) error {
		if nested {
			return nil
		}
		nested = true
		return w.HandlePointer(PointerEvent{Kind: PointerMove, Pos: ev.Pos})
	}}); err != nil {
		t.Fatal(err)
	}

	if err := w.HandlePointer(PointerEvent{Kind: PointerDown}); err != nil {
		t.Fatal(err)
	}
	wantLog(t, &log, "pointer:top", "pointer:top", "pointer:low", "pointer:low")
}
