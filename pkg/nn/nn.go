// Package nn holds the data types that flow out of a person detector.
// The detector itself is external; by the time boxes reach this package's
// consumers they are plain normalized rectangles.
package nn

// Detection is a single detected person in one frame
type Detection struct {
	Box        Rect    `json:"box"`
	Confidence float32 `json:"confidence"` // Detector confidence, 0..100
}

// FilterParams controls which raw detector boxes are admitted
type FilterParams struct {
	MinConfidence float32 // Discard boxes below this confidence (0..100)
	MinBoxArea    float32 // Discard boxes smaller than this (fraction of frame area)
	MaxBoxArea    float32 // Discard boxes larger than this (fraction of frame area)
}

// FilterDetections discards degenerate boxes, low confidence boxes, and boxes
// whose area falls outside [MinBoxArea, MaxBoxArea].
// Tiny boxes are usually detector noise; huge boxes are usually the detector
// hallucinating a "person" out of the whole scene.
func FilterDetections(raw []Detection, p FilterParams) []Detection {
	keep := make([]Detection, 0, len(raw))
	for _, d := range raw {
		if d.Box.Width <= 0 || d.Box.Height <= 0 {
			continue
		}
		if d.Confidence < p.MinConfidence {
			continue
		}
		area := d.Box.Area()
		if area < p.MinBoxArea || area > p.MaxBoxArea {
			continue
		}
		keep = append(keep, d)
	}
	return keep
}
