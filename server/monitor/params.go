package monitor

// Params holds every threshold used by the presence tracking core.
// All box coordinates are normalized to [0,1], so the distance and area
// thresholds are resolution independent.
type Params struct {
	// Presence test (any-match): a box from the previous frame counts as still
	// present if any current box overlaps it with IOU >= IOUMatchMin, or has
	// a center within CenterDistanceMax. The two conditions are independent,
	// and a current box may vouch for several previous boxes.
	IOUMatchMin       float32 `json:"iouMatchMin"`
	CenterDistanceMax float32 `json:"centerDistanceMax"`

	// Exclusive assignment: minimum IOU for pairing a track with a detection.
	// Pairs are taken greedily, best IOU first, and each side is used once.
	MatchThreshold float32 `json:"matchThreshold"`

	// A track is dropped once it has gone unseen for more than MaxMissFrames
	// consecutive frames. Until then it coasts on its last known box.
	MaxMissFrames int `json:"maxMissFrames"`

	// A track is reported as confirmed only after MinHitsToShow sightings.
	// This suppresses single-frame detector flickers.
	MinHitsToShow int `json:"minHitsToShow"`
}

// DefaultParams returns the thresholds that we've found to work well on
// overhead pool footage.
func DefaultParams() Params {
	return Params{
		IOUMatchMin:       0.08,
		CenterDistanceMax: 0.12,
		MatchThreshold:    0.25,
		MaxMissFrames:     5,
		MinHitsToShow:     3,
	}
}
