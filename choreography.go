package orbit

import "fmt"

// Section is one step of the guided narrative.
type Section struct {
	Index      int
	Label      string
	Target     CameraTarget
	Annotation string
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// Front is the orbit forced while annotations are shown. Zero value
	// means FrontTarget.
	Front CameraTarget
}

// pauseSnapshot is the state restored when the overlay closes.
type pauseSnapshot struct {
	mode   Mode
	active int
}

// Controller owns the camera target and interaction mode and drives the
// renderer. It has two top-level states, Guided and Explore, plus the
// transient Annotated-Pause entered while the detail overlay is visible.
//
// Renderer updates are queued until the renderer reports RendererLoad and
// are then delivered in emission order. None are dropped.
type Controller struct {
	assetURL string
	sections []Section
	front    CameraTarget

	mode        Mode
	active      int
	interactive bool
	paused      bool
	saved       pauseSnapshot
	framing     Framing
	resetNext   bool

	renderer Renderer
	ready    bool
	failed   bool
	failErr  error
	applyErr error
	pending  []RendererState
	seq      uint64
}

// NewController creates a controller in Guided mode on section 0. Sections
// are copied and re-indexed. The initial state is queued for the renderer.
func NewController(assetURL string, sections []Section, opts ControllerOptions) *Controller {
	front := opts.Front
	if front == (CameraTarget{}) {
		front = FrontTarget
	}
	c := &Controller{
		assetURL:    assetURL,
		sections:    make([]Section, len(sections)),
		front:       front.Clamped(),
		mode:        ModeGuided,
		interactive: true,
	}
	for i, s := range sections {
		s.Index = i
		s.Target = s.Target.Clamped()
		c.sections[i] = s
	}
	c.emit()
	return c
}

// Sections returns the narrative sections. The returned slice MUST NOT be mutated.
func (c *Controller) Sections() []Section {
	return c.sections
}

// Mode returns the current top-level mode. While paused this is still the
// mode that will be restored.
func (c *Controller) Mode() Mode {
	return c.mode
}

// ActiveSection returns the active section index.
func (c *Controller) ActiveSection() int {
	return c.active
}

// Paused reports whether the controller is in Annotated-Pause.
func (c *Controller) Paused() bool {
	return c.paused
}

// Interactive reports whether the renderer accepts direct user input.
func (c *Controller) Interactive() bool {
	return c.interactive
}

// Framing returns the Explore manipulation accumulated so far.
func (c *Controller) Framing() Framing {
	return c.framing
}

// Failed reports whether the renderer reported a load error. A failed
// controller ignores all state changes.
func (c *Controller) Failed() bool {
	return c.failed
}

// Err returns the renderer load error, or the last Apply error.
func (c *Controller) Err() error {
	if c.failErr != nil {
		return c.failErr
	}
	return c.applyErr
}

// Ready reports whether the renderer has loaded the asset.
func (c *Controller) Ready() bool {
	return c.ready
}

// PendingCount returns how many states are waiting for the renderer.
func (c *Controller) PendingCount() int {
	return len(c.pending)
}

// SetMode switches between Guided and Explore. Returns false if the mode
// did not change or the controller is paused or failed. Leaving Explore
// resets the accumulated framing before the section target is applied.
func (c *Controller) SetMode(m Mode) bool {
	if c.failed || c.paused || m == c.mode {
		return false
	}
	if c.mode == ModeExplore && m == ModeGuided {
		c.framing = Framing{}
		c.resetNext = true
	}
	c.mode = m
	debugf("mode -> %s (section %d)", m, c.active)
	c.emit()
	return true
}

// SetActiveSection selects a narrative section. The index is clamped to the
// valid range. Returns false if nothing changed or the controller is paused
// or failed. In Explore mode the index is recorded but the camera stays
// under user control.
func (c *Controller) SetActiveSection(index int) bool {
	if c.failed || c.paused {
		return false
	}
	index = clampInt(index, 0, len(c.sections)-1)
	if index == c.active {
		return false
	}
	c.active = index
	debugf("section -> %d", index)
	if c.mode == ModeGuided {
		c.emit()
	}
	return true
}

// SetInteractive enables or disables direct user input on the renderer.
func (c *Controller) SetInteractive(enabled bool) {
	if c.failed || c.interactive == enabled {
		return
	}
	c.interactive = enabled
	c.emit()
}

// OpenOverlay enters Annotated-Pause. The current mode and section are
// saved for CloseOverlay. Returns false if already paused or failed.
func (c *Controller) OpenOverlay() bool {
	if c.failed || c.paused {
		return false
	}
	c.saved = pauseSnapshot{mode: c.mode, active: c.active}
	c.paused = true
	// Anchors assume the default framing. Explore zoom and pan are kept in
	// c.framing and come back with CloseOverlay.
	if c.mode == ModeExplore {
		c.resetNext = true
	}
	debugf("overlay open (saved %s/%d)", c.mode, c.active)
	c.emit()
	return true
}

// CloseOverlay leaves Annotated-Pause and restores the mode and section
// that were active when the overlay opened.
func (c *Controller) CloseOverlay() bool {
	if !c.paused {
		return false
	}
	c.paused = false
	c.mode = c.saved.mode
	c.active = c.saved.active
	debugf("overlay close (restored %s/%d)", c.mode, c.active)
	c.emit()
	return true
}

// Manipulate adds a direct-manipulation delta. Only honoured in Explore
// mode while interactive and not paused.
func (c *Controller) Manipulate(delta Framing) bool {
	if c.failed || c.paused || !c.interactive || c.mode != ModeExplore || delta.IsZero() {
		return false
	}
	c.framing = c.framing.Add(delta)
	c.emit()
	return true
}

// State returns the renderer state for the current mode without queueing it.
func (c *Controller) State() RendererState {
	st := RendererState{
		Seq:                c.seq,
		AssetURL:           c.assetURL,
		InteractionEnabled: c.interactive,
	}
	switch {
	case c.paused:
		st.Target = c.front
		st.PanLocked = true
		st.ZoomLocked = true
		st.Transition = TransitionSmooth
	case c.mode == ModeExplore:
		st.Target = AutoTarget
		st.AutoRotate = true
		st.Transition = TransitionInstant
		st.Framing = c.framing
	default:
		st.Target = c.sectionTarget()
		st.PanLocked = true
		st.ZoomLocked = true
		st.Transition = TransitionSmooth
	}
	return st
}

func (c *Controller) sectionTarget() CameraTarget {
	if len(c.sections) == 0 {
		return AutoTarget
	}
	return c.sections[c.active].Target
}

// Attach injects the renderer handle. A renderer implementing AssetLoader
// is told the asset URL immediately; camera and flag states stay queued
// until the renderer reports RendererLoad.
func (c *Controller) Attach(r Renderer) {
	c.renderer = r
	c.ready = false
	if l, ok := r.(AssetLoader); ok {
		if err := l.LoadAsset(c.assetURL); err != nil {
			c.applyErr = fmt.Errorf("load asset %q: %w", c.assetURL, err)
			debugf("%v", c.applyErr)
		}
	}
}

// HandleRendererEvent consumes a renderer lifecycle event. RendererLoad
// flushes queued states; RendererError makes the controller inert.
func (c *Controller) HandleRendererEvent(ev RendererEvent) error {
	switch ev.Kind {
	case RendererLoad:
		c.ready = true
		return c.flush()
	case RendererError:
		c.failed = true
		c.failErr = ev.Err
		if c.failErr == nil {
			c.failErr = fmt.Errorf("renderer failed to load %q", c.assetURL)
		}
		debugf("renderer error: %v", c.failErr)
	}
	return nil
}

// Flush retries delivery of queued states, e.g. after an Apply error.
func (c *Controller) Flush() error {
	return c.flush()
}

// emit queues the current state and tries to deliver it.
func (c *Controller) emit() {
	c.seq++
	st := c.State()
	st.ResetFraming = c.resetNext
	c.resetNext = false
	c.pending = append(c.pending, st)
	if err := c.flush(); err != nil {
		debugf("%v", err)
	}
}

// flush delivers queued states in order, stopping at the first error.
func (c *Controller) flush() error {
	if c.renderer == nil || !c.ready || c.failed {
		return nil
	}
	for len(c.pending) > 0 {
		st := c.pending[0]
		if err := c.renderer.Apply(st); err != nil {
			c.applyErr = fmt.Errorf("apply renderer state %d: %w", st.Seq, err)
			return c.applyErr
		}
		c.pending[0] = RendererState{}
		c.pending = c.pending[1:]
	}
	c.applyErr = nil
	return nil
}
