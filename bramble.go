package bramble

import "go.uber.org/zap"

// Vec2 is a 2D vector used for positions, offsets, sizes, and scale factors
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsPoint is Contains for a Vec2.
func (r Rect) ContainsPoint(p Vec2) bool {
	return r.Contains(p.X, p.Y)
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// PointerKind identifies a kind of pointer event.
type PointerKind uint8

const (
	PointerDown PointerKind = iota // a pointer button was pressed
	PointerMove                    // the pointer moved, pressed or not
	PointerUp                      // a pointer button was released
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is a single pointer transition in world coordinates.
// PointerID 0 is the mouse, 1-9 are touches.
type PointerEvent struct {
	Kind      PointerKind
	Pos       Vec2
	PointerID int
	Button    MouseButton
}

// InteractionState is the state of a Clickable.
type InteractionState uint8

const (
	StateIdle     InteractionState = iota // not hovered, not held
	StateHovering                         // pointer over the hit rect, no button held
	StateHolding                          // pressed inside, not yet released
	StateInactive                         // visual only: reported while the clickable is disabled
)

func (s InteractionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHovering:
		return "hovering"
	case StateHolding:
		return "holding"
	case StateInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Context carries the collaborators entities and components depend on.
// Every field is optional; nil collaborators are skipped by the core.
type Context struct {
	Assets  AssetProvider
	Events  EventBus
	Screens ScreenManager
	Audio   AudioProvider
	Logger  *zap.Logger
}

// logger returns the context logger or a no-op logger.
func (c *Context) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// fire broadcasts on the event bus if one is configured.
func (c *Context) fire(name string, payload any) {
	if c == nil || c.Events == nil {
		return
	}
	c.Events.Fire(name, payload)
}

// playSound plays a sound if an audio provider is configured.
func (c *Context) playSound(id string) {
	if c == nil || c.Audio == nil || id == "" {
		return
	}
	c.Audio.PlaySound(id)
}
