package orbit

import "math"

// ScrollMapper converts a continuous vertical scroll offset into a section
// index. It is a pure value; callers may throttle scroll events but the
// result never depends on it.
type ScrollMapper struct {
	// SectionHeight is the scroll distance, in pixels, allotted to one section.
	SectionHeight float64
	// Bias is the lead-in added to the offset. Larger values make a section
	// active earlier as the user scrolls toward it.
	Bias float64
	// SectionCount is the number of narrative sections.
	SectionCount int
}

// LeadIn returns a bias that is the given fraction of sectionHeight.
// Typical fractions are 0, 1/3 and 1/2.
func LeadIn(sectionHeight, fraction float64) float64 {
	return sectionHeight * fraction
}

// Index returns floor((offset + Bias) / SectionHeight) clamped to
// [0, SectionCount-1]. Degenerate mappers and NaN offsets map to 0.
func (m ScrollMapper) Index(offset float64) int {
	if m.SectionCount <= 0 || m.SectionHeight <= 0 || math.IsNaN(offset) {
		return 0
	}
	f := math.Floor((offset + m.Bias) / m.SectionHeight)
	if f <= 0 {
		return 0
	}
	if f >= float64(m.SectionCount-1) {
		return m.SectionCount - 1
	}
	return int(f)
}
