package wsbridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phanxgames/orbit"
)

// ClientMessage is sent by the page. Type selects which fields are set.
type ClientMessage struct {
	// Type is one of progress, load, error, pointer, scroll, tab, mode,
	// overlay, like or viewport.
	Type     string  `json:"type"`
	Progress float64 `json:"progress,omitempty"`
	Error    string  `json:"error,omitempty"`
	AR       *bool   `json:"ar,omitempty"`
	// Phase is down, move, up or leave for pointer messages.
	Phase   string  `json:"phase,omitempty"`
	Pointer int     `json:"pointer,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Offset  float64 `json:"offset,omitempty"`
	Index   int     `json:"index,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	// At is the page timestamp in Unix milliseconds. Zero means "when
	// received".
	At int64 `json:"at,omitempty"`
}

// Time returns the input timestamp, falling back to received.
func (m ClientMessage) Time(received time.Time) time.Time {
	if m.At <= 0 {
		return received
	}
	return time.UnixMilli(m.At)
}

// RendererEvent converts a lifecycle message. ok is false for input messages.
func (m ClientMessage) RendererEvent() (ev orbit.RendererEvent, ok bool) {
	kind, err := orbit.ParseRendererEventKind(m.Type)
	if err != nil {
		return orbit.RendererEvent{}, false
	}
	ev = orbit.RendererEvent{Kind: kind, Progress: m.Progress, ARSupported: m.AR}
	if kind == orbit.RendererError {
		msg := m.Error
		if msg == "" {
			msg = "renderer failed to load asset"
		}
		ev.Err = errors.New(msg)
	}
	return ev, true
}

// Route applies one page message to s. It must be called from the goroutine
// that owns s.
func Route(ctx context.Context, s *orbit.Session, m ClientMessage, received time.Time) error {
	if ev, ok := m.RendererEvent(); ok {
		return s.HandleRendererEvent(ev)
	}
	at := m.Time(received)
	switch m.Type {
	case "pointer":
		switch m.Phase {
		case "down":
			s.PointerDown(m.Pointer, m.X, m.Y, at)
		case "move":
			s.PointerMove(m.Pointer, m.X, m.Y, at)
		case "up":
			s.PointerUp(m.Pointer, m.X, m.Y, at)
		case "leave", "cancel":
			s.PointerLeave(m.Pointer, at)
		default:
			return fmt.Errorf("unknown pointer phase %q", m.Phase)
		}
	case "scroll":
		s.Scroll(m.Offset, at)
	case "tab":
		s.SelectSection(m.Index, at)
	case "mode":
		mode, ok := orbit.ParseMode(m.Mode)
		if !ok {
			return fmt.Errorf("unknown mode %q", m.Mode)
		}
		s.SetMode(mode, at)
	case "overlay":
		s.ToggleOverlay(at)
	case "like":
		if _, err := s.ToggleLike(ctx); err != nil {
			return err
		}
	case "viewport":
		s.SetViewport(orbit.Rect{Width: m.Width, Height: m.Height})
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
	return nil
}
