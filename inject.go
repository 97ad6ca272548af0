package orbit

import "time"

// syntheticPointerEvent is a single injected pointer event in viewport
// coordinates. It is timestamped with the frame time it is consumed on.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a pointer press at (x, y). The event is consumed on a
// later Update call.
func (s *Session) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the pointer held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (s *Session) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release at (x, y).
func (s *Session) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Session) InjectTap(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2
// interpolated moves, and release at (toX, toY). Minimum frames is 2.
func (s *Session) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectPending reports how many synthetic events are still queued.
func (s *Session) InjectPending() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the queue and feeds it through
// the mouse pointer. Returns true if an event was consumed.
func (s *Session) processInjectedInput(now time.Time) bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.ProcessPointer(0, evt.x, evt.y, evt.pressed, now)
	return true
}
