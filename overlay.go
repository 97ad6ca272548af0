package orbit

// Corner identifies one of the four annotation slots.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// String returns the short wire name used by the catalog ("tl", "tr", ...).
func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "tl"
	case TopRight:
		return "tr"
	case BottomLeft:
		return "bl"
	case BottomRight:
		return "br"
	default:
		return "?"
	}
}

// Annotations holds the text for each corner, indexed by Corner.
type Annotations [4]string

// Anchors holds anchor points for each corner as viewport percentages
// (0–100 on both axes), indexed by Corner.
type Anchors [4]Vec2

// DefaultAnchors is a symmetric diamond around the viewport center.
var DefaultAnchors = Anchors{
	TopLeft:     {X: 50, Y: 30},
	TopRight:    {X: 70, Y: 50},
	BottomLeft:  {X: 30, Y: 50},
	BottomRight: {X: 50, Y: 70},
}

// Overlay geometry, as fractions of the viewport and pixels.
const (
	labelWidthFrac  = 0.28
	labelHeightFrac = 0.14
	labelMargin     = 16.0
)

// LabelBox is one positioned annotation label.
type LabelBox struct {
	Corner Corner
	Text   string
	Bounds Rect
	// Empty is true when the annotation has no text. The box is still laid
	// out so the overlay keeps its shape.
	Empty bool
	// Interactive is true for populated boxes: they accept pointer input
	// and text selection. Empty boxes let input fall through.
	Interactive bool
}

// Connector is a line from an anchor point to its label box.
type Connector struct {
	Corner   Corner
	From, To Vec2
}

// OverlayLayout is the computed overlay for one frame.
type OverlayLayout struct {
	Visible    bool
	Labels     [4]LabelBox
	Connectors [4]Connector
}

// LayoutOverlay computes label boxes at the four viewport corners and
// connectors from each anchor to the inner corner of its box. It holds no
// state: an invisible overlay is the zero layout with Visible false. A nil
// anchors pointer selects DefaultAnchors.
func LayoutOverlay(visible bool, ann Annotations, anchors *Anchors, viewport Rect) OverlayLayout {
	if !visible {
		return OverlayLayout{}
	}
	a := DefaultAnchors
	if anchors != nil {
		a = *anchors
	}

	w := viewport.Width * labelWidthFrac
	h := viewport.Height * labelHeightFrac
	left := viewport.X + labelMargin
	right := viewport.X + viewport.Width - labelMargin - w
	top := viewport.Y + labelMargin
	bottom := viewport.Y + viewport.Height - labelMargin - h

	origins := [4]Vec2{
		TopLeft:     {X: left, Y: top},
		TopRight:    {X: right, Y: top},
		BottomLeft:  {X: left, Y: bottom},
		BottomRight: {X: right, Y: bottom},
	}

	out := OverlayLayout{Visible: true}
	for i := range origins {
		c := Corner(i)
		o := origins[i]
		box := LabelBox{
			Corner: c,
			Text:   ann[i],
			Bounds: Rect{X: o.X, Y: o.Y, Width: w, Height: h},
			Empty:  ann[i] == "",
		}
		box.Interactive = !box.Empty
		out.Labels[i] = box

		anchor := Vec2{
			X: viewport.X + viewport.Width*clampFloat(a[i].X, 0, 100)/100,
			Y: viewport.Y + viewport.Height*clampFloat(a[i].Y, 0, 100)/100,
		}
		out.Connectors[i] = Connector{Corner: c, From: anchor, To: innerCorner(c, box.Bounds)}
	}
	return out
}

// innerCorner returns the corner of r that faces the viewport center.
func innerCorner(c Corner, r Rect) Vec2 {
	switch c {
	case TopLeft:
		return Vec2{X: r.X + r.Width, Y: r.Y + r.Height}
	case TopRight:
		return Vec2{X: r.X, Y: r.Y + r.Height}
	case BottomLeft:
		return Vec2{X: r.X + r.Width, Y: r.Y}
	default:
		return Vec2{X: r.X, Y: r.Y}
	}
}

// HitTest returns the populated label box under (x, y). Empty boxes and
// empty space never capture input.
func (l OverlayLayout) HitTest(x, y float64) (Corner, bool) {
	if !l.Visible {
		return 0, false
	}
	for i := len(l.Labels) - 1; i >= 0; i-- {
		b := l.Labels[i]
		if b.Interactive && b.Bounds.Contains(x, y) {
			return b.Corner, true
		}
	}
	return 0, false
}
