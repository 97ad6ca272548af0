package orbit

import "fmt"

// Renderer is the external 3D renderer. Implementations receive every state
// change in order. An error leaves the state queued for the next flush.
type Renderer interface {
	Apply(state RendererState) error
}

// AssetLoader is implemented by renderers that must be handed the asset
// before they can report RendererLoad, such as a browser page that only
// starts fetching once it has a src.
type AssetLoader interface {
	LoadAsset(assetURL string) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(state RendererState) error

// Apply calls f(state).
func (f RendererFunc) Apply(state RendererState) error { return f(state) }

// Framing is the zoom and pan accumulated by direct manipulation in Explore
// mode, relative to the renderer's default framing.
type Framing struct {
	OrbitAzimuthDeg   float64 `json:"orbitAzimuthDeg,omitempty"`
	OrbitElevationDeg float64 `json:"orbitElevationDeg,omitempty"`
	FieldOfViewDelta  float64 `json:"fovDelta,omitempty"`
	PanX              float64 `json:"panX,omitempty"`
	PanY              float64 `json:"panY,omitempty"`
}

// IsZero reports whether f is the default framing.
func (f Framing) IsZero() bool {
	return f == Framing{}
}

// Add returns the component-wise sum of f and o.
func (f Framing) Add(o Framing) Framing {
	return Framing{
		OrbitAzimuthDeg:   f.OrbitAzimuthDeg + o.OrbitAzimuthDeg,
		OrbitElevationDeg: f.OrbitElevationDeg + o.OrbitElevationDeg,
		FieldOfViewDelta:  f.FieldOfViewDelta + o.FieldOfViewDelta,
		PanX:              f.PanX + o.PanX,
		PanY:              f.PanY + o.PanY,
	}
}

// RendererState is everything the renderer needs to show the asset.
type RendererState struct {
	// Seq increases by one for every state the controller emits.
	Seq                uint64          `json:"seq"`
	AssetURL           string          `json:"src"`
	Target             CameraTarget    `json:"cameraOrbit"`
	AutoRotate         bool            `json:"autoRotate"`
	PanLocked          bool            `json:"panLocked"`
	ZoomLocked         bool            `json:"zoomLocked"`
	Transition         TransitionSpeed `json:"transition"`
	InteractionEnabled bool            `json:"interactionEnabled"`
	// ResetFraming asks the renderer to restore its default field of view
	// and pan target before applying Target.
	ResetFraming bool `json:"resetFraming,omitempty"`
	// Framing is the accumulated Explore manipulation. Zero outside Explore.
	Framing Framing `json:"framing"`
}

// RendererEventKind identifies a renderer lifecycle event.
type RendererEventKind uint8

const (
	RendererProgress RendererEventKind = iota // asset download/parse progress
	RendererLoad                              // asset ready, renderer accepts state
	RendererError                             // asset failed to load
)

// String returns the lowercase event name used on the wire.
func (k RendererEventKind) String() string {
	switch k {
	case RendererProgress:
		return "progress"
	case RendererLoad:
		return "load"
	case RendererError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseRendererEventKind converts a wire name into a kind.
func ParseRendererEventKind(s string) (RendererEventKind, error) {
	switch s {
	case "progress":
		return RendererProgress, nil
	case "load":
		return RendererLoad, nil
	case "error":
		return RendererError, nil
	}
	return 0, fmt.Errorf("unknown renderer event %q", s)
}

// RendererEvent is emitted by the renderer while loading the asset.
type RendererEvent struct {
	Kind RendererEventKind
	// Progress is in [0, 1] for RendererProgress.
	Progress float64
	// Err describes a RendererError.
	Err error
	// ARSupported is reported by renderers that can detect AR support.
	ARSupported *bool
}
