package orbit

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// TweenFields or TweenValue and call Update(dt) each frame. Values are
// written straight into the target fields.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenFields animates each field toward the value at the same index in to.
// Extra fields beyond four, or fields without a matching target, are ignored.
func TweenFields(fields []*float64, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	for i := 0; i < len(fields) && i < len(to) && i < len(g.tweens); i++ {
		g.tweens[i] = gween.New(float32(*fields[i]), float32(to[i]), duration, fn)
		g.fields[i] = fields[i]
		g.count++
	}
	if g.count == 0 {
		g.Done = true
	}
	return g
}

// TweenValue animates a single field, e.g. an overlay's opacity.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields([]*float64{field}, []float64{to}, duration, fn)
}

// TweenFraming animates a Framing back to zero. Used when leaving Explore so
// accumulated zoom and pan ease out instead of snapping.
func TweenFraming(f *Framing, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields(
		[]*float64{&f.FieldOfViewDelta, &f.PanX, &f.PanY},
		[]float64{0, 0, 0},
		duration, fn,
	)
}
