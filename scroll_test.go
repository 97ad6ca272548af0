package orbit

import (
	"math"
	"testing"
)

func TestScrollMapperIndex(t *testing.T) {
	m := ScrollMapper{SectionHeight: 800, SectionCount: 3}
	tests := []struct {
		offset float64
		want   int
	}{
		{0, 0},
		{799, 0},
		{800, 1},
		{850, 1},
		{1650, 2},
		{9999, 2},
		{-500, 0},
		{math.Inf(1), 2},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := m.Index(tt.offset); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestScrollMapperLeadIn(t *testing.T) {
	tests := []struct {
		fraction float64
		offset   float64
		want     int
	}{
		{0, 500, 0},
		{1.0 / 3, 500, 0},
		{1.0 / 3, 540, 1},
		{0.5, 400, 1},
		{0.5, 399, 0},
	}
	for _, tt := range tests {
		m := ScrollMapper{SectionHeight: 800, Bias: LeadIn(800, tt.fraction), SectionCount: 4}
		if got := m.Index(tt.offset); got != tt.want {
			t.Errorf("lead-in %.2f: Index(%v) = %d, want %d", tt.fraction, tt.offset, got, tt.want)
		}
	}
}

func TestScrollMapperDegenerate(t *testing.T) {
	tests := []struct {
		name string
		m    ScrollMapper
	}{
		{"no sections", ScrollMapper{SectionHeight: 800}},
		{"zero height", ScrollMapper{SectionCount: 3}},
		{"negative height", ScrollMapper{SectionHeight: -1, SectionCount: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Index(5000); got != 0 {
				t.Errorf("Index = %d, want 0", got)
			}
		})
	}
}

func TestScrollMapperMonotonic(t *testing.T) {
	m := ScrollMapper{SectionHeight: 300, Bias: 100, SectionCount: 6}
	prev := 0
	for off := -400.0; off < 3000; off += 17 {
		got := m.Index(off)
		if got < prev {
			t.Fatalf("Index(%v) = %d decreased from %d", off, got, prev)
		}
		if got < 0 || got >= m.SectionCount {
			t.Fatalf("Index(%v) = %d out of range", off, got)
		}
		prev = got
	}
}
