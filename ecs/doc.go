// Package ecs provides ECS adapters for orbit's viewer event stream.
//
// The primary adapter is [NewDonburiStore], which bridges orbit viewer
// events (gestures, section and mode changes, overlay, engagement) into a
// [Donburi] world as typed events. Subscribe to [ViewerEventType] in your
// ECS systems to receive them, or call [TrackViewer] for an entity whose
// [ViewerState] component follows the session.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	session.SetEventSink(store)
//	viewer := ecs.TrackViewer(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
