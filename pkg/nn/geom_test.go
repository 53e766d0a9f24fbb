package nn

import (
	"testing"
)

func TestIOU(t *testing.T) {
	a := Rect{
		Left:   0,
		Top:    0,
		Width:  0.1,
		Height: 0.1,
	}
	b := Rect{
		Left:   0.05,
		Top:    0.05,
		Width:  0.1,
		Height: 0.1,
	}
	if a.IOU(a) != 1.0 {
		t.Errorf("IOU of a box with itself is %v, not 1", a.IOU(a))
	}
	want := float32(0.25) / (0.75 + 1)
	if diff := a.IOU(b) - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("IOU is %v, not %v", a.IOU(b), want)
	}
	disjoint := Rect{Left: 0.5, Top: 0.5, Width: 0.1, Height: 0.1}
	if a.IOU(disjoint) != 0 {
		t.Errorf("IOU of disjoint boxes is %v, not 0", a.IOU(disjoint))
	}
	// Boxes that share only an edge do not overlap
	touching := Rect{Left: 0.1, Top: 0, Width: 0.1, Height: 0.1}
	if a.IOU(touching) != 0 {
		t.Errorf("IOU of edge-touching boxes is %v, not 0", a.IOU(touching))
	}
}

func TestCenter(t *testing.T) {
	r := Rect{Left: 0.2, Top: 0.4, Width: 0.2, Height: 0.2}
	c := r.Center()
	if c.X != 0.3 || c.Y != 0.5 {
		t.Errorf("Center is %v,%v", c.X, c.Y)
	}
	other := Rect{Left: 0.2, Top: 0.1, Width: 0.2, Height: 0.2}
	if d := r.CenterDistance(other); d-0.3 > 1e-6 || d-0.3 < -1e-6 {
		t.Errorf("CenterDistance is %v, not 0.3", d)
	}
}

func TestFilterDetections(t *testing.T) {
	params := FilterParams{
		MinConfidence: 70,
		MinBoxArea:    0.0015,
		MaxBoxArea:    0.70,
	}
	raw := []Detection{
		{Box: Rect{Left: 0.1, Top: 0.1, Width: 0.1, Height: 0.2}, Confidence: 90},  // keep
		{Box: Rect{Left: 0.1, Top: 0.1, Width: 0.1, Height: 0.2}, Confidence: 50},  // low confidence
		{Box: Rect{Left: 0.1, Top: 0.1, Width: 0.01, Height: 0.01}, Confidence: 90}, // too small
		{Box: Rect{Left: 0, Top: 0, Width: 0.9, Height: 0.9}, Confidence: 90},      // too big
		{Box: Rect{Left: 0.1, Top: 0.1, Width: 0, Height: 0.2}, Confidence: 90},    // degenerate
	}
	kept := FilterDetections(raw, params)
	if len(kept) != 1 {
		t.Fatalf("kept %v detections, want 1", len(kept))
	}
	if kept[0].Confidence != 90 || kept[0].Box.Width != 0.1 {
		t.Errorf("kept the wrong detection: %+v", kept[0])
	}
}
