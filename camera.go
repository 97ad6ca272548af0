package orbit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Elevation bounds for orbit targets. Values outside produce degenerate
// straight-down or straight-up framings.
const (
	MinElevationDeg = 30.0
	MaxElevationDeg = 85.0

	defaultRadiusPercent = 110.0
	minRadiusPercent     = 10.0
)

// CameraTarget is an orbit around the asset: azimuth and elevation in
// degrees, and radius as a percentage of the framing distance. The Auto
// sentinel leaves the choice to the renderer (or the user in Explore mode).
type CameraTarget struct {
	Auto          bool
	AzimuthDeg    float64
	ElevationDeg  float64
	RadiusPercent float64
}

// AutoTarget lets the renderer pick or retain its current orbit.
var AutoTarget = CameraTarget{Auto: true}

// FrontTarget is the canonical front-facing orbit used while annotations
// are shown.
var FrontTarget = CameraTarget{AzimuthDeg: 0, ElevationDeg: 75, RadiusPercent: defaultRadiusPercent}

// Orbit returns a clamped, non-auto camera target.
func Orbit(azimuthDeg, elevationDeg, radiusPercent float64) CameraTarget {
	return CameraTarget{
		AzimuthDeg:    azimuthDeg,
		ElevationDeg:  elevationDeg,
		RadiusPercent: radiusPercent,
	}.Clamped()
}

// Clamped returns t with elevation inside [MinElevationDeg, MaxElevationDeg]
// and a positive radius. Auto targets are returned unchanged.
func (t CameraTarget) Clamped() CameraTarget {
	if t.Auto {
		return t
	}
	t.ElevationDeg = clampFloat(t.ElevationDeg, MinElevationDeg, MaxElevationDeg)
	if t.RadiusPercent <= 0 {
		t.RadiusPercent = defaultRadiusPercent
	}
	t.RadiusPercent = math.Max(t.RadiusPercent, minRadiusPercent)
	return t
}

// String formats the target in renderer orbit syntax, e.g. "90deg 75deg 110%".
func (t CameraTarget) String() string {
	if t.Auto {
		return "auto"
	}
	return fmt.Sprintf("%sdeg %sdeg %s%%",
		formatFloat(t.AzimuthDeg), formatFloat(t.ElevationDeg), formatFloat(t.RadiusPercent))
}

// MarshalText implements encoding.TextMarshaler so targets travel as orbit
// strings in JSON.
func (t CameraTarget) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CameraTarget) UnmarshalText(b []byte) error {
	parsed, err := ParseCameraTarget(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseCameraTarget parses "auto" or "<az>deg <el>deg <r>%". Units may be
// omitted. The result is clamped.
func ParseCameraTarget(s string) (CameraTarget, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return AutoTarget, nil
	}
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return CameraTarget{}, fmt.Errorf("parse camera target %q: expected 3 values, got %d", s, len(parts))
	}
	az, err := parseOrbitValue(parts[0], "deg")
	if err != nil {
		return CameraTarget{}, fmt.Errorf("parse camera target %q: azimuth: %w", s, err)
	}
	el, err := parseOrbitValue(parts[1], "deg")
	if err != nil {
		return CameraTarget{}, fmt.Errorf("parse camera target %q: elevation: %w", s, err)
	}
	r, err := parseOrbitValue(parts[2], "%")
	if err != nil {
		return CameraTarget{}, fmt.Errorf("parse camera target %q: radius: %w", s, err)
	}
	return Orbit(az, el, r), nil
}

func parseOrbitValue(s, unit string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, unit), 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TransitionSpeed tells the renderer how to move between targets.
type TransitionSpeed uint8

const (
	TransitionSmooth  TransitionSpeed = iota // slow interpolated glide
	TransitionInstant                        // snap, for direct manipulation
)

// String returns "smooth" or "instant".
func (s TransitionSpeed) String() string {
	if s == TransitionInstant {
		return "instant"
	}
	return "smooth"
}

// MarshalText implements encoding.TextMarshaler.
func (s TransitionSpeed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TransitionSpeed) UnmarshalText(b []byte) error {
	switch string(b) {
	case "smooth":
		*s = TransitionSmooth
	case "instant":
		*s = TransitionInstant
	default:
		return fmt.Errorf("unknown transition speed %q", b)
	}
	return nil
}

// DefaultGlideDuration is the length of a smooth transition between sections.
const DefaultGlideDuration = 1200 * time.Millisecond

// autoRotateDegPerSec is a slow counter-clockwise spin.
const autoRotateDegPerSec = -25.0

// glideAnim holds active tweens for the three orbit components.
type glideAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// OrbitCamera tracks the orbit a renderer is actually showing and glides it
// toward the requested target. Renderers that interpolate natively do not
// need it; the preview renderer does.
type OrbitCamera struct {
	// Current is the orbit being displayed.
	Current CameraTarget
	// AutoRotate spins the azimuth while no glide is running.
	AutoRotate bool
	// GlideDuration is used for TransitionSmooth moves.
	GlideDuration time.Duration
	// Ease shapes smooth glides. Defaults to ease.InOutCubic.
	Ease ease.TweenFunc

	glide *glideAnim
}

// NewOrbitCamera creates a camera resting on FrontTarget.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Current:       FrontTarget,
		GlideDuration: DefaultGlideDuration,
		Ease:          ease.InOutCubic,
	}
}

// GlideTo moves the camera to target. Auto targets keep the current orbit.
// Instant transitions snap; smooth ones tween over GlideDuration. Azimuth
// takes the shortest way around.
func (c *OrbitCamera) GlideTo(target CameraTarget, speed TransitionSpeed) {
	if target.Auto {
		c.glide = nil
		return
	}
	target = target.Clamped()
	if speed == TransitionInstant || c.GlideDuration <= 0 {
		c.glide = nil
		c.Current = target
		return
	}
	fn := c.Ease
	if fn == nil {
		fn = ease.InOutCubic
	}
	from := c.Current
	toAz := from.AzimuthDeg + shortestArc(from.AzimuthDeg, target.AzimuthDeg)
	d := float32(c.GlideDuration.Seconds())
	c.glide = &glideAnim{tweens: [3]*gween.Tween{
		gween.New(float32(from.AzimuthDeg), float32(toAz), d, fn),
		gween.New(float32(from.ElevationDeg), float32(target.ElevationDeg), d, fn),
		gween.New(float32(from.RadiusPercent), float32(target.RadiusPercent), d, fn),
	}}
	c.Current.Auto = false
}

// Gliding reports whether a smooth transition is still running.
func (c *OrbitCamera) Gliding() bool {
	return c.glide != nil
}

// Update advances the glide or the auto-rotation by dt seconds.
func (c *OrbitCamera) Update(dt float32) {
	if c.glide != nil {
		fields := [3]*float64{&c.Current.AzimuthDeg, &c.Current.ElevationDeg, &c.Current.RadiusPercent}
		for i, tw := range c.glide.tweens {
			if c.glide.done[i] {
				continue
			}
			val, done := tw.Update(dt)
			*fields[i] = float64(val)
			c.glide.done[i] = done
		}
		if c.glide.done[0] && c.glide.done[1] && c.glide.done[2] {
			c.glide = nil
			c.Current.AzimuthDeg = normalizeDeg(c.Current.AzimuthDeg)
		}
		return
	}
	if c.AutoRotate {
		c.Current.AzimuthDeg = normalizeDeg(c.Current.AzimuthDeg + autoRotateDegPerSec*float64(dt))
	}
}

// Nudge applies a manipulation delta directly, cancelling any glide.
func (c *OrbitCamera) Nudge(dAzimuth, dElevation, dRadius float64) {
	c.glide = nil
	c.Current = CameraTarget{
		AzimuthDeg:    normalizeDeg(c.Current.AzimuthDeg + dAzimuth),
		ElevationDeg:  c.Current.ElevationDeg + dElevation,
		RadiusPercent: c.Current.RadiusPercent + dRadius,
	}.Clamped()
}

// normalizeDeg maps an angle into [0, 360).
func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// shortestArc returns the signed delta in (-180, 180] from a to b.
func shortestArc(a, b float64) float64 {
	d := normalizeDeg(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}
