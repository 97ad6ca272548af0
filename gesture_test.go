package orbit

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ms(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

// tap presses at pressMs and releases 40ms later.
func tap(r *Recognizer, pressMs int) Gesture {
	r.Press(10, 10, ms(pressMs))
	return r.Release(10, 10, ms(pressMs+40))
}

func TestParseGesturePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    GesturePolicy
		wantErr bool
	}{
		{"", PolicyDoubleTap, false},
		{"double-tap", PolicyDoubleTap, false},
		{"long-press", PolicyLongPress, false},
		{"longpress", PolicyLongPress, false},
		{"swipe", PolicyDoubleTap, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGesturePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDoubleTapWindow(t *testing.T) {
	tests := []struct {
		name   string
		second int // press time of the second tap, ms
		want   Gesture
	}{
		{"inside window", 150, GestureDoubleTap},
		{"just inside", 299, GestureDoubleTap},
		{"at window", 300, GestureTap},
		{"outside window", 800, GestureTap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecognizer(RecognizerConfig{})
			toggles := 0
			r.OnOverlayToggle(func(GestureEvent) { toggles++ })

			if g := tap(r, 0); g != GestureTap {
				t.Fatalf("first tap = %s, want tap", g)
			}
			if g := tap(r, tt.second); g != tt.want {
				t.Errorf("second tap = %s, want %s", g, tt.want)
			}
			wantToggles := 0
			if tt.want == GestureDoubleTap {
				wantToggles = 1
			}
			if toggles != wantToggles {
				t.Errorf("toggles = %d, want %d", toggles, wantToggles)
			}
		})
	}
}

func TestDoubleTapResetsAfterFiring(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})
	tap(r, 0)
	if g := tap(r, 100); g != GestureDoubleTap {
		t.Fatalf("second = %s", g)
	}
	// A third quick tap starts a new pair instead of firing again.
	if g := tap(r, 200); g != GestureTap {
		t.Errorf("third = %s, want tap", g)
	}
	if g := tap(r, 300); g != GestureDoubleTap {
		t.Errorf("fourth = %s, want double-tap", g)
	}
}

func TestLongPressOnRelease(t *testing.T) {
	tests := []struct {
		name    string
		holdMs  int
		want    Gesture
		toggles int
	}{
		{"short", 100, GestureTap, 0},
		{"just short", 499, GestureTap, 0},
		{"threshold", 500, GestureLongPress, 1},
		{"long", 2000, GestureLongPress, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecognizer(RecognizerConfig{Policy: PolicyLongPress})
			toggles := 0
			r.OnOverlayToggle(func(GestureEvent) { toggles++ })
			r.Press(5, 5, ms(0))
			if g := r.Release(5, 5, ms(tt.holdMs)); g != tt.want {
				t.Errorf("Release = %s, want %s", g, tt.want)
			}
			if toggles != tt.toggles {
				t.Errorf("toggles = %d, want %d", toggles, tt.toggles)
			}
		})
	}
}

func TestLongPressFiresWhileHeld(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{Policy: PolicyLongPress})
	var got []Gesture
	r.OnGesture(func(ev GestureEvent) { got = append(got, ev.Gesture) })

	r.Press(5, 5, ms(0))
	if g := r.Update(ms(499)); g != GestureNone {
		t.Fatalf("Update(499) = %s", g)
	}
	if g := r.Update(ms(500)); g != GestureLongPress {
		t.Fatalf("Update(500) = %s, want long-press", g)
	}
	if g := r.Update(ms(900)); g != GestureNone {
		t.Errorf("fired twice: %s", g)
	}
	if g := r.Release(5, 5, ms(1000)); g != GestureNone {
		t.Errorf("Release after fire = %s, want none", g)
	}
	if len(got) != 1 || got[0] != GestureLongPress {
		t.Errorf("gestures = %v", got)
	}
}

func TestMoveCancelsGesture(t *testing.T) {
	for _, policy := range []GesturePolicy{PolicyDoubleTap, PolicyLongPress} {
		t.Run(policy.String(), func(t *testing.T) {
			r := NewRecognizer(RecognizerConfig{Policy: policy})
			r.Press(0, 0, ms(0))
			r.Move(3, 0, ms(10)) // inside tolerance
			r.Move(20, 0, ms(20))
			if g := r.Update(ms(600)); g != GestureNone {
				t.Errorf("Update after drag = %s", g)
			}
			if g := r.Release(20, 0, ms(700)); g != GestureNone {
				t.Errorf("Release after drag = %s", g)
			}
		})
	}
}

func TestLeaveCancelsPress(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{Policy: PolicyLongPress})
	r.Press(0, 0, ms(0))
	r.Leave(ms(100))
	if r.Pending() {
		t.Fatal("press still pending after Leave")
	}
	if g := r.Update(ms(600)); g != GestureNone {
		t.Errorf("Update after leave = %s", g)
	}
	if g := r.Release(0, 0, ms(700)); g != GestureNone {
		t.Errorf("Release after leave = %s", g)
	}
}

func TestOnlyPolicyGestureToggles(t *testing.T) {
	// Under the long-press policy a double-tap is just two taps.
	r := NewRecognizer(RecognizerConfig{Policy: PolicyLongPress})
	toggles := 0
	r.OnOverlayToggle(func(GestureEvent) { toggles++ })
	tap(r, 0)
	if g := tap(r, 100); g != GestureTap {
		t.Errorf("second tap = %s, want tap", g)
	}
	if toggles != 0 {
		t.Errorf("toggles = %d, want 0", toggles)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	r := NewRecognizer(RecognizerConfig{})
	var a, b int
	ha := r.OnGesture(func(GestureEvent) { a++ })
	r.OnGesture(func(GestureEvent) { b++ })

	tap(r, 0)
	ha.Remove()
	tap(r, 1000)

	if a != 1 || b != 2 {
		t.Errorf("a = %d, b = %d; want 1, 2", a, b)
	}
	CallbackHandle{}.Remove() // zero handle is a no-op
}
