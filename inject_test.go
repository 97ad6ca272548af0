package orbit

import "testing"

// frames runs n Updates spaced 16ms apart starting at start milliseconds.
func frames(s *Session, start, n int) {
	for i := 0; i < n; i++ {
		s.Update(ms(start + i*16))
	}
}

func TestInjectTapTwiceOpensOverlay(t *testing.T) {
	s, _ := readySession(t, SessionOptions{})
	s.InjectTap(400, 300)
	s.InjectTap(400, 300)
	if s.InjectPending() != 4 {
		t.Fatalf("pending = %d, want 4", s.InjectPending())
	}
	frames(s, 0, 4)
	if s.InjectPending() != 0 {
		t.Errorf("pending = %d after 4 frames", s.InjectPending())
	}
	if !s.OverlayVisible() {
		t.Error("two injected taps did not open overlay")
	}
}

func TestInjectDragInterpolates(t *testing.T) {
	s := exploreSession(t)
	s.InjectDrag(100, 100, 200, 100, 6)
	if s.InjectPending() != 6 {
		t.Fatalf("pending = %d, want 6", s.InjectPending())
	}
	want := []float64{100, 120, 140, 160, 180, 200}
	for i, x := range want {
		if got := s.injectQueue[i].x; got != x {
			t.Errorf("event %d x = %v, want %v", i, got, x)
		}
	}
	frames(s, 100, 6)
	// The release lands on the final point without another move.
	if got := s.Controller().Framing().OrbitAzimuthDeg; got != -20 {
		t.Errorf("azimuth delta = %v, want -20", got)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	s := exploreSession(t)
	s.InjectDrag(0, 0, 50, 50, 0)
	if s.InjectPending() != 2 {
		t.Fatalf("pending = %d, want 2", s.InjectPending())
	}
	if s.injectQueue[0].pressed != true || s.injectQueue[1].pressed != false {
		t.Error("want press then release")
	}
}

func TestInjectIgnoredBeforeLoad(t *testing.T) {
	s := NewSession("abc", SessionOptions{})
	s.InjectTap(10, 10)
	frames(s, 0, 2)
	if s.InjectPending() != 0 {
		t.Errorf("pending = %d, want queue drained", s.InjectPending())
	}
}
