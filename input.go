package bramble

import "github.com/hajimehoshi/ebiten/v2"

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Per-pointer state ---

type pointerState struct {
	down   bool
	seen   bool // lastX/lastY hold a real position
	lastX  float64
	lastY  float64
	button MouseButton // button captured at press time
}

// --- Input processing ---

// processInput is called from World.Update. An injected event takes the
// frame's pointer-0 slot and real mouse input is skipped for that frame.
func (w *World) processInput() error {
	injected, err := w.processInjectedInput()
	if err != nil {
		return err
	}
	if !w.pollInput {
		return nil
	}
	if !injected {
		if err := w.processMousePointer(); err != nil {
			return err
		}
	}
	return w.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (w *World) processMousePointer() error {
	mx, my := ebiten.CursorPosition()

	// If the pointer is already down, keep the stored button so it does not
	// change mid-interaction.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = MouseButtonLeft
		case right:
			button = MouseButtonRight
		default:
			button = MouseButtonMiddle
		}
	}

	return w.processPointer(0, float64(mx), float64(my), pressed, button)
}

// processTouchPointers handles touch input (pointers 1-9).
func (w *World) processTouchPointers() error {
	touchIDs := ebiten.AppendTouchIDs(w.prevTouchIDs[:0])
	w.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := w.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		if err := w.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft); err != nil {
			return err
		}
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if w.touchUsed[i] && !activeSlots[i] {
			ps := &w.pointers[i]
			if ps.down {
				if err := w.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft); err != nil {
					return err
				}
			}
			w.touchUsed[i] = false
			w.touchMap[i] = 0
			ps.seen = false
		}
	}
	return nil
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (w *World) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if w.touchUsed[i] && w.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !w.touchUsed[i] {
			w.touchUsed[i] = true
			w.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer turns a sampled pointer position and button state into
// down/move/up events. The first sample and any sample that changed position
// emit a move first so hover state is current when a press is handled.
func (w *World) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton) error {
	ps := &w.pointers[pointerID]
	pos := Vec2{x, y}

	if !ps.seen || x != ps.lastX || y != ps.lastY {
		b := button
		if ps.down {
			b = ps.button
		}
		if err := w.HandlePointer(PointerEvent{Kind: PointerMove, Pos: pos, PointerID: pointerID, Button: b}); err != nil {
			return err
		}
	}
	ps.seen = true
	ps.lastX = x
	ps.lastY = y

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		return w.HandlePointer(PointerEvent{Kind: PointerDown, Pos: pos, PointerID: pointerID, Button: button})
	case !pressed && ps.down:
		ps.down = false
		return w.HandlePointer(PointerEvent{Kind: PointerUp, Pos: pos, PointerID: pointerID, Button: ps.button})
	}
	return nil
}
