package orbit

import (
	"testing"
)

func exploreSession(t *testing.T) *Session {
	t.Helper()
	s, _ := readySession(t, SessionOptions{})
	if !s.SetMode(ModeExplore, ms(0)) {
		t.Fatal("SetMode(explore) = false")
	}
	return s
}

func TestDragInExploreOrbits(t *testing.T) {
	s := exploreSession(t)
	sink := &recordingSink{}
	s.SetEventSink(sink)

	s.PointerDown(0, 100, 100, ms(10))
	s.PointerMove(0, 110, 100, ms(20)) // past the dead zone
	s.PointerMove(0, 130, 104, ms(30))
	s.PointerUp(0, 130, 104, ms(40))

	f := s.Controller().Framing()
	if f.OrbitAzimuthDeg != -7.5 {
		t.Errorf("azimuth delta = %v, want -7.5", f.OrbitAzimuthDeg)
	}
	if f.OrbitElevationDeg != -1 {
		t.Errorf("elevation delta = %v, want -1", f.OrbitElevationDeg)
	}
	for _, ev := range sink.events {
		if ev.Type == EventGesture {
			t.Errorf("drag produced gesture %s", ev.Gesture)
		}
	}
}

func TestDragInsideDeadZoneIsIgnored(t *testing.T) {
	s := exploreSession(t)
	s.PointerDown(0, 100, 100, ms(10))
	s.PointerMove(0, 103, 100, ms(20))
	s.PointerUp(0, 103, 100, ms(30))
	if !s.Controller().Framing().IsZero() {
		t.Errorf("framing = %+v, want zero", s.Controller().Framing())
	}
}

func TestDragInGuidedDoesNothing(t *testing.T) {
	s, r := readySession(t, SessionOptions{})
	n := len(r.states)
	s.PointerDown(0, 100, 100, ms(10))
	s.PointerMove(0, 200, 100, ms(20))
	s.PointerUp(0, 200, 100, ms(30))
	if len(r.states) != n {
		t.Errorf("guided drag delivered %d states", len(r.states)-n)
	}
}

func TestHoverMoveIgnored(t *testing.T) {
	s := exploreSession(t)
	s.PointerMove(0, 300, 300, ms(10))
	if s.pointers[0].down {
		t.Error("hover move pressed the pointer")
	}
}

func TestDoubleTapTogglesOverlay(t *testing.T) {
	s, _ := readySession(t, SessionOptions{})
	tapAt := func(x, y float64, start int) {
		s.PointerDown(0, x, y, ms(start))
		s.PointerUp(0, x, y, ms(start+40))
	}

	tapAt(400, 300, 0)
	if s.OverlayVisible() {
		t.Fatal("single tap opened overlay")
	}
	tapAt(400, 300, 100)
	if !s.OverlayVisible() {
		t.Fatal("double tap did not open overlay")
	}

	// Taps on a populated label belong to the label.
	tl := s.Overlay().Labels[TopLeft].Bounds
	tapAt(tl.X+4, tl.Y+4, 1000)
	tapAt(tl.X+4, tl.Y+4, 1100)
	if !s.OverlayVisible() {
		t.Fatal("double tap on label closed overlay")
	}

	tapAt(400, 300, 2000)
	tapAt(400, 300, 2100)
	if s.OverlayVisible() {
		t.Error("double tap did not close overlay")
	}
}

func TestPointerLeaveCancelsTap(t *testing.T) {
	s, _ := readySession(t, SessionOptions{})
	s.PointerDown(0, 400, 300, ms(0))
	s.PointerUp(0, 400, 300, ms(40))
	s.PointerDown(0, 400, 300, ms(100))
	s.PointerLeave(0, ms(120))
	s.PointerUp(0, 400, 300, ms(140))
	if s.OverlayVisible() {
		t.Error("cancelled press completed a double tap")
	}
	if s.primary != -1 {
		t.Errorf("primary = %d, want -1", s.primary)
	}
}

func TestLongPressPolicyOpensOverlay(t *testing.T) {
	s, _ := readySession(t, SessionOptions{Recognizer: RecognizerConfig{Policy: PolicyLongPress}})
	s.PointerDown(0, 400, 300, ms(0))
	s.Update(ms(200))
	if s.OverlayVisible() {
		t.Fatal("overlay open before long-press duration")
	}
	s.Update(ms(600))
	if !s.OverlayVisible() {
		t.Fatal("long press while held did not open overlay")
	}
	s.PointerUp(0, 400, 300, ms(700))
	if !s.OverlayVisible() {
		t.Error("release after long press toggled again")
	}
}

func TestPinchChangesFieldOfView(t *testing.T) {
	s := exploreSession(t)
	sink := &recordingSink{}
	s.SetEventSink(sink)

	s.PointerDown(1, 100, 300, ms(10))
	s.PointerDown(2, 300, 300, ms(12))
	if !s.pinch.active {
		t.Fatal("pinch not detected")
	}
	if s.primary != -1 {
		t.Errorf("primary = %d during pinch, want -1", s.primary)
	}

	s.PointerMove(2, 500, 300, ms(20))
	f := s.Controller().Framing()
	if f.FieldOfViewDelta != -30 {
		t.Errorf("fov delta = %v, want -30", f.FieldOfViewDelta)
	}
	if f.OrbitAzimuthDeg != 0 {
		t.Errorf("pinch also orbited: %v", f.OrbitAzimuthDeg)
	}

	var pinches int
	for _, ev := range sink.events {
		if ev.Type == EventPinch {
			pinches++
			if ev.X != 300 || ev.Y != 300 {
				t.Errorf("pinch center = (%v, %v)", ev.X, ev.Y)
			}
		}
	}
	if pinches != 1 {
		t.Errorf("pinch events = %d, want 1", pinches)
	}

	s.PointerUp(2, 500, 300, ms(30))
	if s.pinch.active {
		t.Error("pinch still active after release")
	}
}

func TestPointerOutOfRangeIgnored(t *testing.T) {
	s := exploreSession(t)
	s.PointerDown(maxPointers, 10, 10, ms(10))
	s.PointerDown(-1, 10, 10, ms(10))
	s.PointerLeave(99, ms(20))
	if s.primary != -1 {
		t.Errorf("primary = %d", s.primary)
	}
}

func TestReleaseAfterRendererErrorClearsPointer(t *testing.T) {
	s, _ := readySession(t, SessionOptions{})
	s.PointerDown(0, 400, 300, ms(0))
	_ = s.HandleRendererEvent(RendererEvent{Kind: RendererError})

	s.PointerUp(0, 400, 300, ms(40))
	if s.pointers[0].down {
		t.Error("pointer still down after release")
	}
	if s.primary != -1 || s.Recognizer().Pending() {
		t.Errorf("primary = %d, pending = %v", s.primary, s.Recognizer().Pending())
	}
	// Presses stay locked out.
	s.PointerDown(0, 400, 300, ms(100))
	if s.pointers[0].down {
		t.Error("press accepted after renderer error")
	}
}
