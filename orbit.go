package orbit

import "time"

// Vec2 is a 2D vector used for screen positions, viewport percentages and
// pointer deltas throughout the API.
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

// Mode selects how the camera responds to input.
type Mode uint8

const (
	ModeGuided  Mode = iota // camera follows the active narrative section
	ModeExplore             // camera is under direct user manipulation
)

// String returns the mode name used in config, scripts and logs.
func (m Mode) String() string {
	switch m {
	case ModeGuided:
		return "guided"
	case ModeExplore:
		return "explore"
	default:
		return "unknown"
	}
}

// ParseMode converts "guided" or "explore" into a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "guided":
		return ModeGuided, true
	case "explore":
		return ModeExplore, true
	}
	return ModeGuided, false
}

// Gesture is the classification the Recognizer assigns to a pointer sequence.
type Gesture uint8

const (
	GestureNone      Gesture = iota // nothing recognized (drag, cancelled press)
	GestureTap                      // press and release inside the tolerance
	GestureDoubleTap                // second tap inside the double-tap window
	GestureLongPress                // press held past the long-press threshold
)

// String returns a lowercase gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "double-tap"
	case GestureLongPress:
		return "long-press"
	default:
		return "none"
	}
}

// EventType identifies a kind of viewer event delivered to an EventSink.
type EventType uint8

const (
	EventGesture        EventType = iota // a gesture was recognized
	EventSectionChanged                  // the active section index changed
	EventModeChanged                     // Guided/Explore switched
	EventOverlayOpened                   // Annotated-Pause entered
	EventOverlayClosed                   // Annotated-Pause left
	EventLikeToggled                     // the like flag flipped
	EventViewRecorded                    // a view was counted for this session
	EventDrag                            // Explore-mode drag manipulated the camera
	EventPinch                           // Explore-mode pinch manipulated the camera
)

// String returns a lowercase event name.
func (e EventType) String() string {
	switch e {
	case EventGesture:
		return "gesture"
	case EventSectionChanged:
		return "section"
	case EventModeChanged:
		return "mode"
	case EventOverlayOpened:
		return "overlay-open"
	case EventOverlayClosed:
		return "overlay-close"
	case EventLikeToggled:
		return "like"
	case EventViewRecorded:
		return "view"
	case EventDrag:
		return "drag"
	case EventPinch:
		return "pinch"
	default:
		return "unknown"
	}
}

// ViewerEvent carries one state change out of a Session.
type ViewerEvent struct {
	Type    EventType
	At      time.Time
	Gesture Gesture
	Section int
	Mode    Mode
	X, Y    float64
	// Counters is set for EventLikeToggled and EventViewRecorded.
	Counters Counters
}

// EventSink receives viewer events. When set on a Session, every state
// change is forwarded to it.
type EventSink interface {
	EmitEvent(event ViewerEvent)
}

// SessionState is the load state of a ViewerSession.
type SessionState uint8

const (
	StateLoading  SessionState = iota // metadata fetch in flight
	StateReady                        // metadata loaded, viewer live
	StateNotFound                     // metadata fetch returned 404 (terminal)
	StateFailed                       // metadata fetch failed (terminal)
)

// String returns a lowercase state name.
func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNotFound:
		return "not-found"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// clampInt restricts v to [lo, hi]. If hi < lo the result is lo.
func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// clampFloat restricts v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
