package bramble

// syntheticPointerEvent represents a single injected pointer sample on
// pointer 0 (the mouse slot).
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// InjectPress queues a left-button press at (x, y). The event is consumed on
// the next Update.
func (w *World) InjectPress(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a move to (x, y) with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (w *World) InjectMove(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectHover queues a move to (x, y) with no button held.
func (w *World) InjectHover(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a release at (x, y).
func (w *World) InjectRelease(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (w *World) InjectClick(x, y float64) {
	w.InjectPress(x, y)
	w.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (w *World) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	w.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		w.InjectMove(x, y)
	}
	w.InjectRelease(toX, toY)
}

// PendingInjections returns the number of queued synthetic events.
func (w *World) PendingInjections() int {
	return len(w.injectQueue)
}

// processInjectedInput pops one event and feeds it through processPointer.
// Returns true if an event was consumed.
func (w *World) processInjectedInput() (bool, error) {
	if len(w.injectQueue) == 0 {
		return false, nil
	}
	evt := w.injectQueue[0]
	copy(w.injectQueue, w.injectQueue[1:])
	w.injectQueue = w.injectQueue[:len(w.injectQueue)-1]

	return true, w.processPointer(0, evt.x, evt.y, evt.pressed, evt.button)
}
