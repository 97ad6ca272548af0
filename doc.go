// Package orbit is the interaction and orchestration layer of an
// interactive 3D product viewer.
//
// Orbit sits between raw pointer, scroll and tab input on one side and an
// opaque 3D renderer on the other. It turns gestures into camera targets,
// keeps a narrative of camera sections in step with the page scroll,
// manages an annotation overlay, and keeps view and like counters in sync
// with a catalog backend.
//
// # Quick start
//
// A [Session] is one page visit. Create it, load the model metadata once,
// then attach a renderer:
//
//	client := orbit.NewClient("http://localhost:3000/api", nil)
//	s, err := orbit.OpenSession(ctx, client, "abc123", orbit.SessionOptions{
//		Viewport: orbit.Rect{Width: 800, Height: 600},
//		Sync:     orbit.NewSynchronizer(client, nil, orbit.SyncOptions{}),
//	})
//	if err != nil {
//		// errors.Is(err, orbit.ErrNotFound) for an unknown model
//	}
//	s.Attach(renderer)
//
// Feed input as it arrives and call [Session.Update] once per frame:
//
//	s.Scroll(offset, time.Now())
//	s.PointerDown(0, x, y, time.Now())
//	s.PointerUp(0, x, y, time.Now())
//	s.Update(time.Now())
//
// # Modes
//
// In [ModeGuided] the camera follows the active [Section], chosen by
// scroll position ([ScrollMapper]) or by tab. In [ModeExplore] the user
// drags and pinches the camera directly and scroll input is ignored.
// Opening the overlay enters Annotated-Pause: the camera returns to the
// front view, input locks, and closing restores the previous mode and
// section.
//
// # Renderer
//
// The renderer is anything implementing [Renderer]. The [Controller]
// buffers state until the renderer reports [RendererLoad], then delivers
// every update in order. The wsbridge subpackage drives a browser
// model-viewer over a websocket; the preview subpackage draws a wireframe
// stand-in with Ebitengine.
//
// # Gestures
//
// A [Recognizer] classifies taps, double-taps and long-presses. Exactly one
// [GesturePolicy] toggles the overlay.
//
// # Engagement
//
// A [Synchronizer] keeps optimistic view and like counts and submits deltas
// to a [CounterRemote] in the background. The like flag persists in a
// [FlagStore]; the sqlitestore subpackage provides a durable one.
//
// # ECS
//
// The ecs subpackage forwards [ViewerEvent] values into a Donburi world.
//
// # Debugging
//
// [SetDebugMode] enables "[orbit]" trace lines on stderr for gestures,
// section changes and renderer delivery.
package orbit
