// Package ecs provides ECS adapters for orbit.
package ecs

import (
	"github.com/phanxgames/orbit"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ViewerEventType is the Donburi event type for orbit viewer events.
// Subscribe to this in your ECS systems to receive gesture, section, mode,
// overlay and engagement changes.
var ViewerEventType = events.NewEventType[orbit.ViewerEvent]()

// ViewerStateData mirrors the externally visible viewer state.
type ViewerStateData struct {
	Mode        orbit.Mode
	Section     int
	OverlayOpen bool
	LastGesture orbit.Gesture
	Counters    orbit.Counters
}

// ViewerState is the component holding a ViewerStateData.
var ViewerState = donburi.NewComponentType[ViewerStateData]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Viewer events are published to ViewerEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) orbit.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event orbit.ViewerEvent) {
	ViewerEventType.Publish(s.world, event)
}

// TrackViewer creates an entity carrying ViewerState and keeps it current
// as viewer events are processed.
func TrackViewer(world donburi.World) donburi.Entity {
	entity := world.Create(ViewerState)
	ViewerEventType.Subscribe(world, func(w donburi.World, e orbit.ViewerEvent) {
		if !w.Valid(entity) {
			return
		}
		applyEvent(ViewerState.Get(w.Entry(entity)), e)
	})
	return entity
}

func applyEvent(st *ViewerStateData, e orbit.ViewerEvent) {
	switch e.Type {
	case orbit.EventGesture:
		st.LastGesture = e.Gesture
	case orbit.EventSectionChanged, orbit.EventModeChanged:
		st.Mode = e.Mode
		st.Section = e.Section
	case orbit.EventOverlayOpened:
		st.OverlayOpen = true
	case orbit.EventOverlayClosed:
		st.OverlayOpen = false
		st.Mode = e.Mode
		st.Section = e.Section
	case orbit.EventLikeToggled, orbit.EventViewRecorded:
		st.Counters = e.Counters
	}
}
