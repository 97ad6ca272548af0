package preview

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/orbit"
	"github.com/tanema/gween/ease"
)

const (
	baseFovDeg      = 45.0
	minFovDeg       = 10.0
	maxFovDeg       = 90.0
	baseDistance    = 3.0 // camera distance at 100% radius
	overlayFadeSecs = 0.25
	resetEaseSecs   = 0.4
)

// Renderer is a wireframe stand-in for the 3D renderer. It implements
// orbit.Renderer and glides its own camera toward each applied target.
type Renderer struct {
	Camera *orbit.OrbitCamera

	state   orbit.RendererState
	framing orbit.Framing
	applied orbit.Framing // framing already folded into Camera

	framingTween *orbit.TweenGroup

	overlayAlpha float64
	overlayShown bool
	overlayTween *orbit.TweenGroup
}

// NewRenderer returns a renderer resting on the front view.
func NewRenderer() *Renderer {
	return &Renderer{Camera: orbit.NewOrbitCamera()}
}

// State returns the last applied state.
func (r *Renderer) State() orbit.RendererState {
	return r.state
}

// Apply implements orbit.Renderer.
func (r *Renderer) Apply(st orbit.RendererState) error {
	r.state = st
	if st.ResetFraming {
		r.applied = orbit.Framing{}
		r.framingTween = orbit.TweenFraming(&r.framing, resetEaseSecs, ease.OutQuad)
	}
	r.Camera.AutoRotate = st.AutoRotate

	if st.Target.Auto {
		// Explore: fold in the manipulation added since the last state.
		d := orbit.Framing{
			OrbitAzimuthDeg:   st.Framing.OrbitAzimuthDeg - r.applied.OrbitAzimuthDeg,
			OrbitElevationDeg: st.Framing.OrbitElevationDeg - r.applied.OrbitElevationDeg,
		}
		r.Camera.Nudge(d.OrbitAzimuthDeg, d.OrbitElevationDeg, 0)
		r.applied = st.Framing
		if !st.ResetFraming {
			r.framingTween = nil
			r.framing = st.Framing
		}
		return nil
	}
	r.Camera.GlideTo(st.Target, st.Transition)
	return nil
}

// SetOverlay fades the annotation overlay in or out.
func (r *Renderer) SetOverlay(visible bool) {
	if visible == r.overlayShown {
		return
	}
	r.overlayShown = visible
	to := 0.0
	if visible {
		to = 1
	}
	r.overlayTween = orbit.TweenValue(&r.overlayAlpha, to, overlayFadeSecs, ease.OutQuad)
}

// Update advances camera motion and fades by dt seconds.
func (r *Renderer) Update(dt float32) {
	r.Camera.Update(dt)
	if r.framingTween != nil {
		r.framingTween.Update(dt)
		if r.framingTween.Done {
			r.framingTween = nil
		}
	}
	if r.overlayTween != nil {
		r.overlayTween.Update(dt)
		if r.overlayTween.Done {
			r.overlayTween = nil
		}
	}
}

// FieldOfView returns the current vertical field of view in degrees.
func (r *Renderer) FieldOfView() float64 {
	return math.Max(minFovDeg, math.Min(maxFovDeg, baseFovDeg+r.framing.FieldOfViewDelta))
}

var cubeVertices = [8][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Draw renders the model stand-in and the overlay into viewport.
func (r *Renderer) Draw(dst *ebiten.Image, viewport orbit.Rect, layout orbit.OverlayLayout) {
	edge := color.RGBA{R: 0x9c, G: 0xd3, B: 0xff, A: 0xff}
	var pts [8]orbit.Vec2
	var ok [8]bool
	for i, v := range cubeVertices {
		pts[i], ok[i] = Project(r.Camera.Current, r.FieldOfView(), viewport, v)
	}
	for _, e := range cubeEdges {
		if !ok[e[0]] || !ok[e[1]] {
			continue
		}
		a, b := pts[e[0]], pts[e[1]]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1.5, edge, true)
	}
	r.drawOverlay(dst, layout)
}

func (r *Renderer) drawOverlay(dst *ebiten.Image, layout orbit.OverlayLayout) {
	if r.overlayAlpha <= 0 || !layout.Visible {
		return
	}
	a := uint8(math.Round(r.overlayAlpha * 255))
	line := color.RGBA{R: a, G: a, B: a, A: a}
	for _, c := range layout.Connectors {
		vector.StrokeLine(dst, float32(c.From.X), float32(c.From.Y), float32(c.To.X), float32(c.To.Y), 1, line, true)
	}
	for _, l := range layout.Labels {
		if l.Empty {
			continue
		}
		b := l.Bounds
		vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, line, false)
		ebitenutil.DebugPrintAt(dst, l.Text, int(b.X)+6, int(b.Y)+6)
	}
}

// Project maps a model-space point to the screen for a camera orbiting the
// origin. Elevation is the polar angle from straight above. ok is false for
// points behind the camera.
func Project(cam orbit.CameraTarget, fovDeg float64, viewport orbit.Rect, p [3]float64) (orbit.Vec2, bool) {
	theta := cam.AzimuthDeg * math.Pi / 180
	phi := cam.ElevationDeg * math.Pi / 180
	dist := baseDistance * cam.RadiusPercent / 100

	dir := [3]float64{math.Sin(phi) * math.Sin(theta), math.Cos(phi), math.Sin(phi) * math.Cos(theta)}
	eye := [3]float64{dir[0] * dist, dir[1] * dist, dir[2] * dist}
	fwd := [3]float64{-dir[0], -dir[1], -dir[2]}
	right := normalize(cross(fwd, [3]float64{0, 1, 0}))
	up := cross(right, fwd)

	d := [3]float64{p[0] - eye[0], p[1] - eye[1], p[2] - eye[2]}
	z := dot(d, fwd)
	if z <= 0.01 {
		return orbit.Vec2{}, false
	}
	focal := (viewport.Height / 2) / math.Tan(fovDeg*math.Pi/360)
	cx := viewport.X + viewport.Width/2
	cy := viewport.Y + viewport.Height/2
	return orbit.Vec2{
		X: cx + dot(d, right)/z*focal,
		Y: cy - dot(d, up)/z*focal,
	}, true
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func normalize(a [3]float64) [3]float64 {
	l := math.Sqrt(dot(a, a))
	if l == 0 {
		return a
	}
	return [3]float64{a[0] / l, a[1] / l, a[2] / l}
}
