package orbit

import (
	"fmt"
	"math"
	"time"
)

// Default recognizer thresholds.
const (
	DefaultDoubleTapWindow   = 300 * time.Millisecond
	DefaultLongPressDuration = 500 * time.Millisecond
	defaultMoveTolerance     = 4.0 // pixels
)

// GesturePolicy selects which gesture opens the detail overlay. Exactly one
// policy is live per Recognizer.
type GesturePolicy uint8

const (
	PolicyDoubleTap GesturePolicy = iota // two quick taps toggle the overlay
	PolicyLongPress                      // press and hold toggles the overlay
)

// String returns the config name of the policy.
func (p GesturePolicy) String() string {
	if p == PolicyLongPress {
		return "long-press"
	}
	return "double-tap"
}

// ParseGesturePolicy converts "double-tap" or "long-press" into a policy.
func ParseGesturePolicy(s string) (GesturePolicy, error) {
	switch s {
	case "double-tap", "doubletap", "":
		return PolicyDoubleTap, nil
	case "long-press", "longpress":
		return PolicyLongPress, nil
	}
	return PolicyDoubleTap, fmt.Errorf("unknown gesture policy %q", s)
}

// RecognizerConfig configures a Recognizer. Zero durations and tolerance
// fall back to the defaults.
type RecognizerConfig struct {
	Policy            GesturePolicy
	DoubleTapWindow   time.Duration
	LongPressDuration time.Duration
	// MoveTolerance is how far, in pixels, a press may wander before it
	// becomes a drag and stops counting as a tap or long-press.
	MoveTolerance float64
}

func (c RecognizerConfig) withDefaults() RecognizerConfig {
	if c.DoubleTapWindow <= 0 {
		c.DoubleTapWindow = DefaultDoubleTapWindow
	}
	if c.LongPressDuration <= 0 {
		c.LongPressDuration = DefaultLongPressDuration
	}
	if c.MoveTolerance <= 0 {
		c.MoveTolerance = defaultMoveTolerance
	}
	return c
}

// GestureEvent is delivered to gesture callbacks.
type GestureEvent struct {
	Gesture Gesture
	X, Y    float64
	At      time.Time
}

type gestureHandler struct {
	id uint32
	fn func(GestureEvent)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id     uint32
	remove func(id uint32)
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove(h.id)
	}
}

func removeGestureHandler(s []gestureHandler, id uint32) []gestureHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = gestureHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// Recognizer classifies timestamped pointer input into Tap, DoubleTap and
// LongPress. It only classifies; whoever owns the overlay reacts through
// OnOverlayToggle.
type Recognizer struct {
	cfg RecognizerConfig

	down      bool
	downAt    time.Time
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	moved     bool
	longFired bool
	lastTap   time.Time

	onGesture []gestureHandler
	onToggle  []gestureHandler
	nextID    uint32
}

// NewRecognizer creates a recognizer for the given config.
func NewRecognizer(cfg RecognizerConfig) *Recognizer {
	return &Recognizer{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (r *Recognizer) Config() RecognizerConfig {
	return r.cfg
}

// OnGesture registers a callback for every recognized gesture.
func (r *Recognizer) OnGesture(fn func(GestureEvent)) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.onGesture = append(r.onGesture, gestureHandler{id: id, fn: fn})
	return CallbackHandle{id: id, remove: func(id uint32) {
		r.onGesture = removeGestureHandler(r.onGesture, id)
	}}
}

// OnOverlayToggle registers a callback fired when the policy's gesture is
// recognized: DoubleTap under PolicyDoubleTap, LongPress under PolicyLongPress.
func (r *Recognizer) OnOverlayToggle(fn func(GestureEvent)) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.onToggle = append(r.onToggle, gestureHandler{id: id, fn: fn})
	return CallbackHandle{id: id, remove: func(id uint32) {
		r.onToggle = removeGestureHandler(r.onToggle, id)
	}}
}

// Pending reports whether a press is in progress.
func (r *Recognizer) Pending() bool {
	return r.down
}

// Press starts a press at (x, y).
func (r *Recognizer) Press(x, y float64, at time.Time) {
	r.down = true
	r.downAt = at
	r.startX, r.startY = x, y
	r.lastX, r.lastY = x, y
	r.moved = false
	r.longFired = false
}

// Move updates the pointer position. Wandering past MoveTolerance turns the
// press into a drag, which cancels any pending long-press.
func (r *Recognizer) Move(x, y float64, at time.Time) {
	if !r.down {
		return
	}
	r.lastX, r.lastY = x, y
	if !r.moved {
		dx := x - r.startX
		dy := y - r.startY
		if math.Sqrt(dx*dx+dy*dy) > r.cfg.MoveTolerance {
			r.moved = true
		}
	}
}

// Release ends the press and returns the resulting gesture.
func (r *Recognizer) Release(x, y float64, at time.Time) Gesture {
	if !r.down {
		return GestureNone
	}
	r.Move(x, y, at)
	r.down = false
	if r.moved || r.longFired {
		return GestureNone
	}

	if r.cfg.Policy == PolicyLongPress {
		if at.Sub(r.downAt) >= r.cfg.LongPressDuration {
			r.fire(GestureLongPress, x, y, at)
			return GestureLongPress
		}
		r.fire(GestureTap, x, y, at)
		return GestureTap
	}

	// Double-tap policy: compare press timestamps of consecutive taps.
	if !r.lastTap.IsZero() && r.downAt.Sub(r.lastTap) < r.cfg.DoubleTapWindow {
		r.lastTap = time.Time{}
		r.fire(GestureDoubleTap, x, y, at)
		return GestureDoubleTap
	}
	r.lastTap = r.downAt
	r.fire(GestureTap, x, y, at)
	return GestureTap
}

// Leave cancels the press without producing a gesture. Called when the
// pointer leaves the surface or the touch is cancelled.
func (r *Recognizer) Leave(at time.Time) {
	r.down = false
	r.moved = false
	r.longFired = false
}

// Update fires a pending long-press once the press has been held long
// enough. Call it every frame. Returns GestureLongPress on the firing
// frame, GestureNone otherwise.
func (r *Recognizer) Update(now time.Time) Gesture {
	if r.cfg.Policy != PolicyLongPress || !r.down || r.moved || r.longFired {
		return GestureNone
	}
	if now.Sub(r.downAt) < r.cfg.LongPressDuration {
		return GestureNone
	}
	r.longFired = true
	r.fire(GestureLongPress, r.lastX, r.lastY, now)
	return GestureLongPress
}

func (r *Recognizer) fire(g Gesture, x, y float64, at time.Time) {
	ev := GestureEvent{Gesture: g, X: x, Y: y, At: at}
	debugf("gesture %s at (%.0f,%.0f)", g, x, y)
	for _, h := range r.onGesture {
		h.fn(ev)
	}
	if (r.cfg.Policy == PolicyDoubleTap && g == GestureDoubleTap) ||
		(r.cfg.Policy == PolicyLongPress && g == GestureLongPress) {
		for _, h := range r.onToggle {
			h.fn(ev)
		}
	}
}
