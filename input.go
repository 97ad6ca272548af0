package orbit

import (
	"math"
	"time"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	// onLabel is set when the press landed on a populated overlay label.
	// The label owns the pointer until release.
	onLabel bool
}

// --- Pinch state ---

type pinchState struct {
	active      bool
	pointer0    int
	pointer1    int
	initialDist float64
	prevDist    float64
}

// PointerDown reports a press. Pointer 0 is the mouse, 1-9 are touches.
func (s *Session) PointerDown(pointerID int, x, y float64, at time.Time) {
	s.ProcessPointer(pointerID, x, y, true, at)
}

// PointerMove reports motion. Hover moves with no press are ignored.
func (s *Session) PointerMove(pointerID int, x, y float64, at time.Time) {
	if pointerID < 0 || pointerID >= maxPointers || !s.pointers[pointerID].down {
		return
	}
	s.ProcessPointer(pointerID, x, y, true, at)
}

// PointerUp reports a release.
func (s *Session) PointerUp(pointerID int, x, y float64, at time.Time) {
	s.ProcessPointer(pointerID, x, y, false, at)
}

// PointerLeave cancels the pointer without producing a gesture, as when it
// leaves the viewer or the touch is cancelled.
func (s *Session) PointerLeave(pointerID int, at time.Time) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	ps := &s.pointers[pointerID]
	if !ps.down {
		return
	}
	*ps = pointerState{lastX: ps.lastX, lastY: ps.lastY}
	if s.primary == pointerID {
		s.primary = -1
		if s.recognizer != nil {
			s.recognizer.Leave(at)
		}
	}
	s.detectPinch(at)
}

// ProcessPointer runs the pointer state machine for one pointer given its
// current position and pressed state. Frame-polled input (the preview
// window) calls this every frame; event-driven input goes through
// PointerDown, PointerMove and PointerUp.
func (s *Session) ProcessPointer(pointerID int, x, y float64, pressed bool, at time.Time) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	ps := &s.pointers[pointerID]
	if !s.live() {
		// Input is locked, but a pointer pressed earlier must still let go.
		if !pressed && ps.down {
			s.releaseLocked(pointerID, x, y, at)
		}
		return
	}

	if pressed && !ps.down {
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.dragging = false
		_, ps.onLabel = s.Overlay().HitTest(x, y)
		if ps.onLabel {
			return
		}
		if s.primary < 0 && !s.otherPointerDown(pointerID) {
			s.primary = pointerID
			s.recognizer.Press(x, y, at)
		}
		s.detectPinch(at)
	} else if !pressed && ps.down {
		onLabel := ps.onLabel
		ps.down = false
		ps.dragging = false
		ps.onLabel = false
		ps.lastX, ps.lastY = x, y
		if onLabel {
			return
		}
		if s.primary == pointerID {
			s.primary = -1
			s.recognizer.Release(x, y, at)
		}
		s.detectPinch(at)
	} else if pressed && ps.down {
		if ps.onLabel {
			ps.lastX, ps.lastY = x, y
			return
		}
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging {
				dx := x - ps.startX
				dy := y - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
				}
			}
			if ps.dragging && !s.pinch.active {
				s.drag(x-ps.lastX, y-ps.lastY, at)
			}
			if s.primary == pointerID {
				s.recognizer.Move(x, y, at)
			}
		}
		ps.lastX, ps.lastY = x, y
		s.detectPinch(at)
	}
}

// releaseLocked clears a pointer without producing a gesture or a camera
// change.
func (s *Session) releaseLocked(pointerID int, x, y float64, at time.Time) {
	s.pointers[pointerID] = pointerState{lastX: x, lastY: y}
	if s.primary == pointerID {
		s.primary = -1
		if s.recognizer != nil {
			s.recognizer.Leave(at)
		}
	}
	s.pinch = pinchState{}
}

func (s *Session) otherPointerDown(pointerID int) bool {
	for i := range s.pointers {
		if i != pointerID && s.pointers[i].down && !s.pointers[i].onLabel {
			return true
		}
	}
	return false
}

// drag orbits the camera in Explore mode. Guided mode ignores drags: the
// narrative owns the camera there.
func (s *Session) drag(dx, dy float64, at time.Time) {
	if s.controller.Mode() != ModeExplore {
		return
	}
	k := s.opts.DragDegPerPixel
	if !s.controller.Manipulate(Framing{OrbitAzimuthDeg: -dx * k, OrbitElevationDeg: -dy * k}) {
		return
	}
	s.emit(ViewerEvent{Type: EventDrag, At: at, Mode: ModeExplore, X: dx, Y: dy})
}

// --- Pinch detection ---

func (s *Session) detectPinch(at time.Time) {
	var p0, p1 int
	count := 0
	for i := 1; i < maxPointers; i++ {
		if s.pointers[i].down && !s.pointers[i].onLabel {
			if count == 0 {
				p0 = i
			} else if count == 1 {
				p1 = i
			}
			count++
		}
	}

	if count != 2 {
		s.pinch.active = false
		return
	}

	ps0 := &s.pointers[p0]
	ps1 := &s.pointers[p1]
	dx := ps1.lastX - ps0.lastX
	dy := ps1.lastY - ps0.lastY
	dist := math.Sqrt(dx*dx + dy*dy)

	if !s.pinch.active || s.pinch.pointer0 != p0 || s.pinch.pointer1 != p1 {
		s.pinch = pinchState{active: true, pointer0: p0, pointer1: p1, initialDist: dist, prevDist: dist}
		// A pinch is never a tap.
		if s.primary >= 0 {
			s.primary = -1
			s.recognizer.Leave(at)
		}
		ps0.dragging = false
		ps1.dragging = false
		return
	}

	scaleDelta := 0.0
	if s.pinch.prevDist > 0 {
		scaleDelta = dist/s.pinch.prevDist - 1.0
	}
	s.pinch.prevDist = dist
	ps0.dragging = false
	ps1.dragging = false
	if scaleDelta == 0 || s.controller.Mode() != ModeExplore {
		return
	}
	// Spreading the fingers zooms in, which narrows the field of view.
	if !s.controller.Manipulate(Framing{FieldOfViewDelta: -scaleDelta * s.opts.PinchFovPerScale}) {
		return
	}
	s.emit(ViewerEvent{
		Type: EventPinch, At: at, Mode: ModeExplore,
		X: (ps0.lastX + ps1.lastX) / 2, Y: (ps0.lastY + ps1.lastY) / 2,
	})
}
