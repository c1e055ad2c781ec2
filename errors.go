package bramble

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateCapability is returned when a capability name is already
	// registered on an entity and no override was requested.
	ErrDuplicateCapability = errors.New("bramble: duplicate capability")
	// ErrUnknownCapability is returned when detaching a name that is not registered.
	ErrUnknownCapability = errors.New("bramble: unknown capability")
	// ErrUnknownAnimation is returned by SetAnimation for a name missing from the table.
	ErrUnknownAnimation = errors.New("bramble: unknown animation")
	// ErrEmptyAnimationFrames is returned when an animation has no frames.
	ErrEmptyAnimationFrames = errors.New("bramble: animation has no frames")
	// ErrNegativeAnimationSpeed is returned when an animation speed is below zero.
	ErrNegativeAnimationSpeed = errors.New("bramble: negative animation speed")
	// ErrFrameOutOfRange is returned when a frame index does not address a sheet cell.
	ErrFrameOutOfRange = errors.New("bramble: frame out of range")
	// ErrUnknownScreen is returned by Screens.Show for an unregistered name.
	ErrUnknownScreen = errors.New("bramble: unknown screen")
	// ErrEntityDestroyed is returned when attaching to a destroyed entity.
	ErrEntityDestroyed = errors.New("bramble: entity destroyed")
)

// CapabilityError reports a capability registry failure on a named entity.
type CapabilityError struct {
	Entity     string
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%v: %q on entity %q", e.Err, e.Capability, e.Entity)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// AnimationError reports an animation table failure.
type AnimationError struct {
	Animation string
	Err       error
}

func (e *AnimationError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Animation)
}

func (e *AnimationError) Unwrap() error { return e.Err }
