package bramble

// CapClickable is the default capability name of a Clickable.
const CapClickable = "clickable"

// EventClickButton is broadcast on the event bus when a click completes.
// The payload is a ClickButtonEvent.
const EventClickButton = "clickButton"

// ClickContext carries the event data handed to Clickable callbacks.
type ClickContext struct {
	Entity    *Entity
	Clickable *Clickable
	Pos       Vec2
	PointerID int
	Button    MouseButton
}

// ClickHandler is a Clickable callback. A returned error aborts the
// remaining callbacks for the event and is returned from HandlePointer.
type ClickHandler func(ClickContext) error

// ClickButtonEvent is the payload of EventClickButton.
type ClickButtonEvent struct {
	EntityID  uint32
	Name      string
	Pos       Vec2
	PointerID int
}

// ClickAnimations maps visual states to sprite animation names. Empty names
// leave the sprite alone.
type ClickAnimations struct {
	// Sprite is the capability name of the sprite to drive (default CapSprite).
	Sprite   string
	Idle     string
	Hover    string
	Hold     string
	Inactive string
}

// ClickableConfig configures NewClickable. Every callback is optional.
type ClickableConfig struct {
	// Name overrides the capability name (default CapClickable).
	Name string

	OnClick      ClickHandler // pointer pressed inside
	OnHoldEnter  ClickHandler // pressed inside, or pointer moved back inside while held
	OnHoldLeave  ClickHandler // pointer moved outside while held
	OnHoldEnd    ClickHandler // released inside: the click
	PointerUp    ClickHandler // any release of the holding pointer
	OnHoverEnter ClickHandler // pointer moved over the rect, nothing held
	OnHoverLeave ClickHandler // pointer moved off the rect, nothing held

	// Inactive starts the clickable disabled.
	Inactive bool
	// Sound is played through the context audio provider on each click.
	Sound string
	// PressScale, when > 0, tweens the owner's Scale component to this factor
	// while held inside.
	PressScale float64
	Animations ClickAnimations
}

// Clickable turns pointer events on its owner's hit rectangle into
// idle/hovering/holding transitions and callbacks. The hit rectangle is
// recomputed from the owner on every event.
type Clickable struct {
	cfg   ClickableConfig
	name  string
	owner *Entity

	active  bool
	state   InteractionState
	inside  bool // while holding: pointer currently inside
	pointer int  // while holding: the pointer that pressed
}

// NewClickable returns a clickable configured by cfg.
func NewClickable(cfg ClickableConfig) *Clickable {
	c := &Clickable{
		cfg:    cfg,
		name:   cfg.Name,
		active: !cfg.Inactive,
		state:  StateIdle,
	}
	if c.name == "" {
		c.name = CapClickable
	}
	return c
}

// Name returns the capability name.
func (c *Clickable) Name() string {
	return c.name
}

// Start records the owner and applies the initial visual state.
func (c *Clickable) Start(e *Entity) error {
	c.owner = e
	return c.syncVisual()
}

// Destroy releases the owner reference.
func (c *Clickable) Destroy() {
	c.owner = nil
}

// State returns the interaction state.
func (c *Clickable) State() InteractionState {
	return c.state
}

// VisualState returns the state to present: StateInactive while disabled,
// StateIdle while held with the pointer outside, otherwise State.
func (c *Clickable) VisualState() InteractionState {
	switch {
	case !c.active:
		return StateInactive
	case c.state == StateHolding && !c.inside:
		return StateIdle
	default:
		return c.state
	}
}

// Active reports whether input is processed.
func (c *Clickable) Active() bool {
	return c.active
}

// SetActive enables or disables input. Disabling drops any hold or hover
// without firing callbacks. The returned error comes from the sprite when a
// configured animation is missing.
func (c *Clickable) SetActive(active bool) error {
	if c.active == active {
		return nil
	}
	c.active = active
	c.state = StateIdle
	c.inside = false
	c.pressScale(false)
	return c.syncVisual()
}

// DoCallback runs the click completion (OnHoldEnd, sound, broadcast) without
// pointer input, e.g. for keyboard activation. No-op while inactive.
func (c *Clickable) DoCallback() error {
	if !c.active || c.owner == nil {
		return nil
	}
	return c.holdEnd(ClickContext{Entity: c.owner, Clickable: c, Pos: c.owner.Pos, PointerID: -1})
}

// HandlePointer advances the state machine. Events are ignored while inactive.
func (c *Clickable) HandlePointer(ev PointerEvent) error {
	if !c.active || c.owner == nil {
		return nil
	}
	switch ev.Kind {
	case PointerDown:
		return c.pointerDown(ev)
	case PointerMove:
		return c.pointerMove(ev)
	case PointerUp:
		return c.pointerUp(ev)
	}
	return nil
}

func (c *Clickable) contains(p Vec2) bool {
	return c.owner.HitRect().ContainsPoint(p)
}

func (c *Clickable) context(ev PointerEvent) ClickContext {
	return ClickContext{
		Entity:    c.owner,
		Clickable: c,
		Pos:       ev.Pos,
		PointerID: ev.PointerID,
		Button:    ev.Button,
	}
}

func (c *Clickable) pointerDown(ev PointerEvent) error {
	if c.state == StateHolding || !c.contains(ev.Pos) {
		return nil
	}
	c.state = StateHolding
	c.inside = true
	c.pointer = ev.PointerID
	c.pressScale(true)
	if err := c.syncVisual(); err != nil {
		return err
	}
	ctx := c.context(ev)
	if err := c.call(c.cfg.OnClick, ctx); err != nil {
		return err
	}
	if !c.holding() {
		return nil
	}
	return c.call(c.cfg.OnHoldEnter, ctx)
}

func (c *Clickable) pointerMove(ev PointerEvent) error {
	in := c.contains(ev.Pos)

	if c.state == StateHolding {
		if ev.PointerID != c.pointer || in == c.inside {
			return nil
		}
		c.inside = in
		c.pressScale(in)
		if err := c.syncVisual(); err != nil {
			return err
		}
		if in {
			return c.call(c.cfg.OnHoldEnter, c.context(ev))
		}
		return c.call(c.cfg.OnHoldLeave, c.context(ev))
	}

	switch {
	case in && c.state == StateIdle:
		c.state = StateHovering
		if err := c.syncVisual(); err != nil {
			return err
		}
		return c.call(c.cfg.OnHoverEnter, c.context(ev))
	case !in && c.state == StateHovering:
		c.state = StateIdle
		if err := c.syncVisual(); err != nil {
			return err
		}
		return c.call(c.cfg.OnHoverLeave, c.context(ev))
	}
	return nil
}

func (c *Clickable) pointerUp(ev PointerEvent) error {
	if c.state != StateHolding || ev.PointerID != c.pointer {
		return nil
	}
	in := c.contains(ev.Pos)
	c.state = StateIdle
	c.inside = false
	c.pressScale(false)
	if err := c.syncVisual(); err != nil {
		return err
	}
	ctx := c.context(ev)
	if err := c.call(c.cfg.PointerUp, ctx); err != nil {
		return err
	}
	if !in || !c.active {
		return nil
	}
	return c.holdEnd(ctx)
}

func (c *Clickable) holdEnd(ctx ClickContext) error {
	if err := c.call(c.cfg.OnHoldEnd, ctx); err != nil {
		return err
	}
	ec := c.owner.Context()
	ec.playSound(c.cfg.Sound)
	ec.fire(EventClickButton, ClickButtonEvent{
		EntityID:  c.owner.ID,
		Name:      c.owner.Name,
		Pos:       ctx.Pos,
		PointerID: ctx.PointerID,
	})
	return nil
}

// holding reports whether a hold is still in progress after a callback ran;
// callbacks may disable the clickable.
func (c *Clickable) holding() bool {
	return c.active && c.state == StateHolding
}

func (c *Clickable) call(h ClickHandler, ctx ClickContext) error {
	if h == nil {
		return nil
	}
	return h(ctx)
}

func (c *Clickable) syncVisual() error {
	if c.owner == nil {
		return nil
	}
	var anim string
	switch c.VisualState() {
	case StateIdle:
		anim = c.cfg.Animations.Idle
	case StateHovering:
		anim = c.cfg.Animations.Hover
	case StateHolding:
		anim = c.cfg.Animations.Hold
	case StateInactive:
		anim = c.cfg.Animations.Inactive
	}
	if anim == "" {
		return nil
	}
	spriteName := c.cfg.Animations.Sprite
	if spriteName == "" {
		spriteName = CapSprite
	}
	sp, ok := Get[*Sprite](c.owner, spriteName)
	if !ok {
		return nil
	}
	return sp.SetAnimation(anim)
}

func (c *Clickable) pressScale(pressed bool) {
	if c.cfg.PressScale <= 0 || c.owner == nil {
		return
	}
	sc, ok := Get[*Scale](c.owner, CapScale)
	if !ok {
		return
	}
	f := 1.0
	if pressed {
		f = c.cfg.PressScale
	}
	sc.To(f, f)
}
