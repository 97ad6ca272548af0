package orbit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Session load errors. Both are terminal: a Session never retries.
var (
	ErrNotFound      = errors.New("model not found")
	ErrSessionFailed = errors.New("failed to load model")
)

const defaultSectionHeight = 800.0

// SessionOptions configures a Session.
type SessionOptions struct {
	Recognizer RecognizerConfig
	Controller ControllerOptions
	// SectionHeight is the scroll distance per section. Defaults to 800.
	SectionHeight float64
	// LeadIn is the scroll bias as a fraction of SectionHeight (0, 1/3, 1/2).
	LeadIn float64
	// Viewport is the on-screen area of the viewer, used for the overlay and
	// pointer routing.
	Viewport Rect
	// Sync submits engagement counters. Nil means counters are tracked
	// locally only.
	Sync *Synchronizer
	// DragDegPerPixel converts Explore drags into orbit degrees. Defaults to 0.25.
	DragDegPerPixel float64
	// PinchFovPerScale converts pinch scale deltas into field-of-view
	// degrees. Defaults to 30.
	PinchFovPerScale float64
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.SectionHeight <= 0 {
		o.SectionHeight = defaultSectionHeight
	}
	if o.DragDegPerPixel <= 0 {
		o.DragDegPerPixel = 0.25
	}
	if o.PinchFovPerScale <= 0 {
		o.PinchFovPerScale = 30
	}
	if o.Sync == nil {
		o.Sync = NewSynchronizer(nil, nil, SyncOptions{})
	}
	return o
}

// Session is one page visit of the viewer: created in the loading state,
// seeded by a single metadata fetch, and discarded on navigation. All
// methods are meant to be called from one input goroutine.
type Session struct {
	shortID string
	opts    SessionOptions

	state SessionState
	err   error
	model Model

	controller  *Controller
	mapper      ScrollMapper
	recognizer  *Recognizer
	annotations Annotations
	anchors     Anchors
	viewport    Rect

	progress    float64
	arSupported *bool

	// lastSectionInput is the timestamp of the newest applied
	// section-changing input; older inputs are stale.
	lastSectionInput time.Time

	sink EventSink

	// Input state
	pointers     [maxPointers]pointerState
	primary      int
	pinch        pinchState
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent
	testRunner   *TestRunner
	now          time.Time
}

// NewSession creates a session for shortID in the loading state.
func NewSession(shortID string, opts SessionOptions) *Session {
	opts = opts.withDefaults()
	return &Session{
		shortID:      shortID,
		opts:         opts,
		state:        StateLoading,
		viewport:     opts.Viewport,
		primary:      -1,
		dragDeadZone: defaultDragDeadZone,
	}
}

// OpenSession creates a session and loads it.
func OpenSession(ctx context.Context, fetcher ModelFetcher, shortID string, opts SessionOptions) (*Session, error) {
	s := NewSession(shortID, opts)
	if err := s.Load(ctx, fetcher); err != nil {
		return s, err
	}
	return s, nil
}

// Load performs the one metadata fetch that seeds the session, then counts
// a view. Failure is terminal: the session moves to StateNotFound or
// StateFailed and Load must not be called again.
func (s *Session) Load(ctx context.Context, fetcher ModelFetcher) error {
	if s.state != StateLoading {
		return fmt.Errorf("load session %s: already %s", s.shortID, s.state)
	}
	m, err := fetcher.GetModel(ctx, s.shortID)
	if err != nil {
		if IsNotFound(err) {
			s.state = StateNotFound
			s.err = fmt.Errorf("%w: %s", ErrNotFound, s.shortID)
		} else {
			s.state = StateFailed
			s.err = fmt.Errorf("%w: %s: %w", ErrSessionFailed, s.shortID, err)
		}
		debugf("session %s: %v", s.shortID, s.err)
		return s.err
	}
	s.model = m
	s.init(ctx)
	return nil
}

func (s *Session) init(ctx context.Context) {
	sections := SectionsFromModel(s.model)
	s.controller = NewController(s.model.URL, sections, s.opts.Controller)
	s.mapper = ScrollMapper{
		SectionHeight: s.opts.SectionHeight,
		Bias:          LeadIn(s.opts.SectionHeight, s.opts.LeadIn),
		SectionCount:  len(sections),
	}
	s.recognizer = NewRecognizer(s.opts.Recognizer)
	s.recognizer.OnGesture(func(ev GestureEvent) {
		s.emit(ViewerEvent{Type: EventGesture, At: ev.At, Gesture: ev.Gesture, X: ev.X, Y: ev.Y})
	})
	s.recognizer.OnOverlayToggle(func(ev GestureEvent) {
		s.ToggleOverlay(ev.At)
	})
	s.annotations = s.model.Info.Annotations()
	s.anchors = s.model.Pointers.Anchors()
	s.state = StateReady

	if _, err := s.opts.Sync.Seed(ctx, s.shortID, s.model.Views, s.model.Likes); err != nil {
		debugf("session %s: %v", s.shortID, err)
	}
	counters := s.opts.Sync.RecordView(ctx, s.shortID)
	s.emit(ViewerEvent{Type: EventViewRecorded, At: time.Now(), Counters: counters})
	debugf("session %s ready: %d sections, %s", s.shortID, len(sections), s.opts.Recognizer.Policy)
}

// SectionsFromModel builds the narrative. Without server-supplied sections
// the asset is shown front, side and back.
func SectionsFromModel(m Model) []Section {
	if len(m.Sections) == 0 {
		return []Section{
			{Index: 0, Label: "Front", Target: Orbit(0, 75, defaultRadiusPercent)},
			{Index: 1, Label: "Side", Target: Orbit(90, 75, defaultRadiusPercent)},
			{Index: 2, Label: "Back", Target: Orbit(180, 75, defaultRadiusPercent)},
		}
	}
	out := make([]Section, len(m.Sections))
	for i, spec := range m.Sections {
		target := AutoTarget
		if spec.Orbit != nil {
			target = spec.Orbit.Clamped()
		}
		out[i] = Section{Index: i, Label: spec.Label, Target: target, Annotation: spec.Annotation}
	}
	return out
}

// ShortID returns the model id this session shows.
func (s *Session) ShortID() string { return s.shortID }

// State returns the load state.
func (s *Session) State() SessionState { return s.state }

// Err returns the terminal load error, if any.
func (s *Session) Err() error { return s.err }

// Model returns the loaded metadata.
func (s *Session) Model() Model { return s.model }

// Controller returns the camera controller, or nil before the session is ready.
func (s *Session) Controller() *Controller { return s.controller }

// Recognizer returns the gesture recognizer, or nil before the session is ready.
func (s *Session) Recognizer() *Recognizer { return s.recognizer }

// ScrollMapper returns the scroll-to-section mapping in use.
func (s *Session) ScrollMapper() ScrollMapper { return s.mapper }

// Progress returns the renderer's load progress in [0, 1].
func (s *Session) Progress() float64 { return s.progress }

// ARSupported reports AR availability when the renderer has told us.
func (s *Session) ARSupported() (supported, known bool) {
	if s.arSupported == nil {
		return false, false
	}
	return *s.arSupported, true
}

// Counters returns the local engagement counters.
func (s *Session) Counters() Counters {
	return s.opts.Sync.Counters(s.shortID)
}

// SetEventSink sets the optional event bridge.
func (s *Session) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetViewport updates the on-screen area used for overlay layout.
func (s *Session) SetViewport(r Rect) {
	s.viewport = r
}

// Viewport returns the on-screen area of the viewer.
func (s *Session) Viewport() Rect {
	return s.viewport
}

// Attach injects the renderer. See Controller.Attach.
func (s *Session) Attach(r Renderer) {
	if s.controller != nil {
		s.controller.Attach(r)
	}
}

// HandleRendererEvent records load progress and forwards lifecycle events
// to the controller.
func (s *Session) HandleRendererEvent(ev RendererEvent) error {
	if ev.ARSupported != nil {
		v := *ev.ARSupported
		s.arSupported = &v
	}
	switch ev.Kind {
	case RendererProgress:
		s.progress = clampFloat(ev.Progress, 0, 1)
	case RendererLoad:
		s.progress = 1
	}
	if s.controller == nil {
		return nil
	}
	return s.controller.HandleRendererEvent(ev)
}

// RendererFailed reports whether the renderer could not load the asset.
func (s *Session) RendererFailed() bool {
	return s.controller != nil && s.controller.Failed()
}

func (s *Session) live() bool {
	return s.state == StateReady && s.controller != nil && !s.controller.Failed()
}

// acceptSectionInput applies the ordering rule for section-changing input:
// an input observed with an older timestamp than the last applied one is
// discarded.
func (s *Session) acceptSectionInput(at time.Time) bool {
	if at.Before(s.lastSectionInput) {
		debugf("stale section input at %s (last %s)", at.Format(time.StampMilli), s.lastSectionInput.Format(time.StampMilli))
		return false
	}
	s.lastSectionInput = at
	return true
}

// Scroll maps a scroll offset to a section. Ignored in Explore mode, while
// paused, and when older than the last applied section input.
func (s *Session) Scroll(offset float64, at time.Time) bool {
	if !s.live() || s.controller.Mode() == ModeExplore || s.controller.Paused() {
		return false
	}
	if !s.acceptSectionInput(at) {
		return false
	}
	return s.setSection(s.mapper.Index(offset), at)
}

// SelectSection is an explicit tab selection.
func (s *Session) SelectSection(index int, at time.Time) bool {
	if !s.live() || s.controller.Paused() {
		return false
	}
	if !s.acceptSectionInput(at) {
		return false
	}
	return s.setSection(index, at)
}

func (s *Session) setSection(index int, at time.Time) bool {
	if !s.controller.SetActiveSection(index) {
		return false
	}
	s.emit(ViewerEvent{Type: EventSectionChanged, At: at, Section: s.controller.ActiveSection(), Mode: s.controller.Mode()})
	return true
}

// SetMode switches between Guided and Explore.
func (s *Session) SetMode(m Mode, at time.Time) bool {
	if !s.live() || !s.controller.SetMode(m) {
		return false
	}
	s.emit(ViewerEvent{Type: EventModeChanged, At: at, Mode: m, Section: s.controller.ActiveSection()})
	return true
}

// ToggleMode flips between Guided and Explore.
func (s *Session) ToggleMode(at time.Time) bool {
	if !s.live() {
		return false
	}
	if s.controller.Mode() == ModeGuided {
		return s.SetMode(ModeExplore, at)
	}
	return s.SetMode(ModeGuided, at)
}

// OverlayVisible reports whether the detail overlay is open.
func (s *Session) OverlayVisible() bool {
	return s.controller != nil && s.controller.Paused()
}

// OpenOverlay shows the annotations and enters Annotated-Pause.
func (s *Session) OpenOverlay(at time.Time) bool {
	if !s.live() || !s.controller.OpenOverlay() {
		return false
	}
	s.emit(ViewerEvent{Type: EventOverlayOpened, At: at, Mode: s.controller.Mode(), Section: s.controller.ActiveSection()})
	return true
}

// CloseOverlay hides the annotations and restores the paused mode and section.
func (s *Session) CloseOverlay(at time.Time) bool {
	if s.controller == nil || !s.controller.CloseOverlay() {
		return false
	}
	s.emit(ViewerEvent{Type: EventOverlayClosed, At: at, Mode: s.controller.Mode(), Section: s.controller.ActiveSection()})
	return true
}

// ToggleOverlay opens or closes the overlay.
func (s *Session) ToggleOverlay(at time.Time) bool {
	if s.OverlayVisible() {
		return s.CloseOverlay(at)
	}
	return s.OpenOverlay(at)
}

// Overlay computes the annotation layout for the current state.
func (s *Session) Overlay() OverlayLayout {
	return LayoutOverlay(s.OverlayVisible(), s.annotations, &s.anchors, s.viewport)
}

// ToggleLike flips the like for this model. See Synchronizer.ToggleLike.
func (s *Session) ToggleLike(ctx context.Context) (Counters, error) {
	if s.state != StateReady {
		return Counters{}, fmt.Errorf("toggle like on %s session", s.state)
	}
	c, err := s.opts.Sync.ToggleLike(ctx, s.shortID)
	s.emit(ViewerEvent{Type: EventLikeToggled, At: time.Now(), Counters: c})
	return c, err
}

// Update advances time-driven input: the scripted test runner, one queued
// synthetic pointer event, and the long-press timer. Call once per frame.
func (s *Session) Update(now time.Time) {
	s.now = now
	if s.testRunner != nil {
		s.testRunner.step(s, now)
	}
	s.processInjectedInput(now)
	if s.recognizer != nil {
		s.recognizer.Update(now)
	}
}

func (s *Session) emit(ev ViewerEvent) {
	if s.sink != nil {
		s.sink.EmitEvent(ev)
	}
}
