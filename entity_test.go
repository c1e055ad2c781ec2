package bramble

import (
	"errors"
	"slices"
	"testing"
)

// recorder is a component that logs every hook into a shared slice.
type recorder struct {
	name     string
	log      *[]string
	startErr error
	updErr   error
	owner    *Entity
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Start(e *Entity) error {
	*r.log = append(*r.log, "start:"+r.name)
	if r.startErr != nil {
		return r.startErr
	}
	r.owner = e
	return nil
}

func (r *recorder) Update(dt float64) error {
	*r.log = append(*r.log, "update:"+r.name)
	return r.updErr
}

func (r *recorder) HandlePointer(ev PointerEvent) error {
	*r.log = append(*r.log, "pointer:"+r.name)
	return nil
}

func (r *recorder) Destroy() {
	*r.log = append(*r.log, "destroy:"+r.name)
}

// plain implements no hooks.
type plain struct{ name string }

func (p plain) Name() string { return p.name }

func newRecorder(name string, log *[]string) *recorder {
	return &recorder{name: name, log: log}
}

func wantLog(t *testing.T, got *[]string, want ...string) {
	t.Helper()
	if !slices.Equal(*got, want) {
		t.Errorf("log = %v, want %v", *got, want)
	}
	*got = (*got)[:0]
}

// --- Constructor ---

func TestNewEntityDefaults(t *testing.T) {
	e, err := NewEntity(nil, EntityConfig{Name: "e", Z: 3, Family: []string{"ui"}, Pos: Vec2{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if e.Scale != (Vec2{1, 1}) {
		t.Errorf("Scale = %v, want (1, 1)", e.Scale)
	}
	if e.Z() != 3 || e.Pos != (Vec2{1, 2}) {
		t.Errorf("Z/Pos = %d/%v", e.Z(), e.Pos)
	}
	if !e.InFamily("ui") {
		t.Error("expected ui family")
	}
	if e.Context() != nil || e.World() != nil {
		t.Error("expected nil context and world")
	}
}

func TestUniqueIDs(t *testing.T) {
	a, _ := NewEntity(nil, EntityConfig{})
	b, _ := NewEntity(nil, EntityConfig{})
	if a.ID == b.ID {
		t.Errorf("IDs should differ: %d == %d", a.ID, b.ID)
	}
}

func TestNewEntityAttachFailureDestroys(t *testing.T) {
	var log []string
	a := newRecorder("a", &log)
	_, err := NewEntity(nil, EntityConfig{
		Name:       "e",
		Components: []Component{a, newRecorder("a", &log)},
	})
	if !errors.Is(err, ErrDuplicateCapability) {
		t.Fatalf("err = %v, want ErrDuplicateCapability", err)
	}
	wantLog(t, &log, "start:a", "destroy:a")
}

func TestNewEntityInit(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	_, err := NewEntity(nil, EntityConfig{
		Name:       "e",
		Components: []Component{newRecorder("a", &log)},
		Init:       func(e *Entity) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	wantLog(t, &log, "start:a", "destroy:a")
}

// --- Attach ---

func TestAttachDuplicate(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{Name: "e"})
	if err := e.Attach(newRecorder("a", &log)); err != nil {
		t.Fatal(err)
	}
	err := e.Attach(newRecorder("a", &log))
	var ce *CapabilityError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CapabilityError", err)
	}
	if ce.Capability != "a" || ce.Entity != "e" || !errors.Is(err, ErrDuplicateCapability) {
		t.Errorf("unexpected error %+v", ce)
	}
	if len(e.Components()) != 1 {
		t.Errorf("components = %d, want 1", len(e.Components()))
	}
}

func TestAttachDistinctNames(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{})
	for _, n := range []string{"b", "a", "c"} {
		if err := e.Attach(newRecorder(n, &log)); err != nil {
			t.Fatal(err)
		}
	}
	if got := e.Capabilities(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Capabilities = %v", got)
	}
	log = log[:0]
	if err := e.Update(1); err != nil {
		t.Fatal(err)
	}
	wantLog(t, &log, "update:b", "update:a", "update:c")
}

func TestAttachOverrideKeepsSlot(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{})
	old := newRecorder("a", &log)
	_ = e.Attach(old)
	_ = e.Attach(newRecorder("b", &log))
	repl := newRecorder("a", &log)
	log = log[:0]

	if err := e.Attach(repl, Override()); err != nil {
		t.Fatal(err)
	}
	wantLog(t, &log, "start:a", "destroy:a")

	got, ok := Get[*recorder](e, "a")
	if !ok || got != repl {
		t.Error("registry should hold the replacement")
	}
	if e.Components()[0] != Component(repl) {
		t.Error("replacement should keep the original slot")
	}
}

func TestAttachStartFailureRollsBack(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{})
	old := newRecorder("a", &log)
	_ = e.Attach(old)

	bad := newRecorder("a", &log)
	bad.startErr = errors.New("nope")
	if err := e.Attach(bad, Override()); err == nil {
		t.Fatal("expected start error")
	}
	if got, _ := Get[*recorder](e, "a"); got != old {
		t.Error("failed override should restore the previous component")
	}

	bad2 := newRecorder("z", &log)
	bad2.startErr = errors.New("nope")
	if err := e.Attach(bad2); err == nil {
		t.Fatal("expected start error")
	}
	if e.Has("z") || len(e.Components()) != 1 {
		t.Error("failed attach should leave no trace")
	}
}

func TestAttachNilPanics(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{})
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	_ = e.Attach(nil)
}

func TestAttachAfterDestroy(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{})
	e.Destroy()
	if err := e.Attach(plain{"a"}); !errors.Is(err, ErrEntityDestroyed) {
		t.Errorf("err = %v, want ErrEntityDestroyed", err)
	}
}

func TestGetWrongType(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{})
	_ = e.Attach(plain{"a"})
	if _, ok := Get[*Sprite](e, "a"); ok {
		t.Error("Get should fail for a different type")
	}
	if _, ok := Get[plain](e, "missing"); ok {
		t.Error("Get should fail for a missing name")
	}
	if p, ok := Get[plain](e, "a"); !ok || p.name != "a" {
		t.Error("Get should return the plain component")
	}
}

// --- Extend ---

func TestExtend(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{})
	var blinks int
	err := e.Extend(Ops{"blink": func() { blinks++ }, "speed": 3})
	if err != nil {
		t.Fatal(err)
	}
	blink, ok := Get[func()](e, "blink")
	if !ok {
		t.Fatal("blink missing")
	}
	blink()
	if blinks != 1 {
		t.Errorf("blinks = %d", blinks)
	}
	if v, _ := Get[int](e, "speed"); v != 3 {
		t.Errorf("speed = %d", v)
	}
}

func TestExtendDuplicateIsAtomic(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{})
	_ = e.Attach(plain{"b"})
	err := e.Extend(Ops{"a": 1, "b": 2, "c": 3})
	if !errors.Is(err, ErrDuplicateCapability) {
		t.Fatalf("err = %v", err)
	}
	if e.Has("a") || e.Has("c") {
		t.Error("failed Extend should not merge anything")
	}
}

func TestExtendOverrideDetachesComponent(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{})
	_ = e.Attach(newRecorder("a", &log))
	log = log[:0]
	if err := e.Extend(Ops{"a": 42}, Override()); err != nil {
		t.Fatal(err)
	}
	wantLog(t, &log, "destroy:a")
	if len(e.Components()) != 0 {
		t.Error("component should be removed from the update order")
	}
	if v, _ := Get[int](e, "a"); v != 42 {
		t.Error("override value missing")
	}
}

// --- Detach ---

func TestDetachAppliesOnNextUpdate(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{})
	_ = e.Attach(newRecorder("a", &log))
	_ = e.Attach(newRecorder("b", &log))
	log = log[:0]

	if err := e.Detach("a"); err != nil {
		t.Fatal(err)
	}
	if !e.Has("a") {
		t.Error("capability should stay until the next update")
	}
	_ = e.HandlePointer(PointerEvent{Kind: PointerMove})
	wantLog(t, &log, "pointer:a", "pointer:b")

	_ = e.Update(1)
	wantLog(t, &log, "destroy:a", "update:b")
	if e.Has("a") {
		t.Error("capability should be gone")
	}
}

func TestDetachUnknown(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{})
	if err := e.Detach("x"); !errors.Is(err, ErrUnknownCapability) {
		t.Errorf("err = %v", err)
	}
}

func TestReattachCancelsDetach(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{})
	_ = e.Attach(newRecorder("a", &log))
	_ = e.Detach("a")
	repl := newRecorder("a", &log)
	if err := e.Attach(repl, Override()); err != nil {
		t.Fatal(err)
	}
	log = log[:0]
	_ = e.Update(1)
	wantLog(t, &log, "update:a")
	if got, _ := Get[*recorder](e, "a"); got != repl {
		t.Error("replacement should survive the update")
	}
}

// --- Update / Destroy ---

func TestUpdateErrorStopsPass(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	a := newRecorder("a", &log)
	a.updErr = boom
	e, _ := NewEntity(nil, EntityConfig{Name: "e", Components: []Component{a, newRecorder("b", &log)}})
	log = log[:0]

	if err := e.Update(1); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	wantLog(t, &log, "update:a")
}

func TestDestroyReverseOrder(t *testing.T) {
	var log []string
	e, _ := NewEntity(nil, EntityConfig{Components: []Component{
		newRecorder("a", &log), plain{"p"}, newRecorder("b", &log),
	}})
	log = log[:0]

	e.Destroy()
	e.Destroy()
	wantLog(t, &log, "destroy:b", "destroy:a")
	if !e.IsDestroyed() || len(e.Capabilities()) != 0 {
		t.Error("entity should be destroyed and empty")
	}
	if err := e.Update(1); err != nil {
		t.Error(err)
	}
	if len(log) != 0 {
		t.Error("destroyed entity should not update")
	}
}

// --- Geometry & families ---

func TestHitRect(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{Pos: Vec2{100, 50}})
	e.Size = Vec2{40, 20}
	e.Origin = Vec2{0.5, 0.5}
	if got, want := e.HitRect(), (Rect{X: 80, Y: 40, Width: 40, Height: 20}); got != want {
		t.Errorf("HitRect = %v, want %v", got, want)
	}
	e.Scale = Vec2{2, 2}
	if got, want := e.HitRect(), (Rect{X: 60, Y: 30, Width: 80, Height: 40}); got != want {
		t.Errorf("scaled HitRect = %v, want %v", got, want)
	}
}

func TestFamilies(t *testing.T) {
	e, _ := NewEntity(nil, EntityConfig{Family: []string{"b"}})
	e.AddFamily("a", "c")
	e.RemoveFamily("c")
	if got := e.Families(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Families = %v", got)
	}
}
