package monitor

import (
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/idgen"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// track is the internal record of one identity.
type track struct {
	id         uint32
	box        nn.Rect
	confidence float32
	hits       int // total frames in which we were matched to a detection
	misses     int // consecutive frames without a match
	age        int // total frames since creation
}

// TrackedBox is the externally visible state of a track.
type TrackedBox struct {
	ID         uint32  `json:"id"`
	Box        nn.Rect `json:"box"`
	Confidence float32 `json:"confidence"`
	Confirmed  bool    `json:"confirmed"`
}

// Tracker maintains short-lived identities across the frames of one session.
// Tracks live in a dense slice so the per-frame scan is a linear walk, with a
// side map from id to slice index for O(1) lookup and removal (removal swaps
// the last element into the hole). Ids come from a wrap-safe counter and are
// never reused within a session, so a swimmer who genuinely leaves and a new
// one who arrives never share an id.
//
// Tracker is not safe for concurrent use. Each session owns one tracker and
// drives it from a single goroutine.
type Tracker struct {
	params Params
	nextID idgen.Uint32
	tracks []track
	byID   map[uint32]int
}

func NewTracker(params Params) *Tracker {
	return &Tracker{
		params: params,
		byID:   map[uint32]int{},
	}
}

// Update applies the detections of one frame.
//
// Matched tracks take the detection's box, reset their miss counter, and gain
// a hit. Unmatched tracks coast on their last box, and are removed once they
// have missed more than MaxMissFrames frames in a row. Unmatched detections
// spawn new tracks.
func (t *Tracker) Update(dets []nn.Detection) {
	boxes := make([]nn.Rect, len(t.tracks))
	for i := range t.tracks {
		boxes[i] = t.tracks[i].box
	}
	pairs := assignGreedy(boxes, dets, t.params.MatchThreshold)

	trackMatched := make([]bool, len(t.tracks))
	detMatched := make([]bool, len(dets))
	for _, p := range pairs {
		tr := &t.tracks[p.trackIdx]
		tr.box = dets[p.detIdx].Box
		tr.confidence = dets[p.detIdx].Confidence
		tr.hits++
		tr.misses = 0
		trackMatched[p.trackIdx] = true
		detMatched[p.detIdx] = true
	}

	expired := []uint32{}
	for i := range t.tracks {
		tr := &t.tracks[i]
		tr.age++
		if !trackMatched[i] {
			tr.misses++
			if tr.misses > t.params.MaxMissFrames {
				expired = append(expired, tr.id)
			}
		}
	}
	for _, id := range expired {
		t.remove(id)
	}

	for di, d := range dets {
		if !detMatched[di] {
			t.add(d)
		}
	}
}

// Active returns the live tracks, confirmed or not. A track that has missed
// up to MaxMissFrames frames is still live, reported at its last known box.
func (t *Tracker) Active() []TrackedBox {
	out := make([]TrackedBox, 0, len(t.tracks))
	for i := range t.tracks {
		tr := &t.tracks[i]
		out = append(out, TrackedBox{
			ID:         tr.id,
			Box:        tr.box,
			Confidence: tr.confidence,
			Confirmed:  tr.hits >= t.params.MinHitsToShow,
		})
	}
	return out
}

// Confirmed returns only the tracks that have been seen at least
// MinHitsToShow times.
func (t *Tracker) Confirmed() []TrackedBox {
	all := t.Active()
	out := make([]TrackedBox, 0, len(all))
	for _, tb := range all {
		if tb.Confirmed {
			out = append(out, tb)
		}
	}
	return out
}

func (t *Tracker) add(d nn.Detection) {
	tr := track{
		id:         t.nextID.Next(),
		box:        d.Box,
		confidence: d.Confidence,
		hits:       1,
		age:        1,
	}
	t.byID[tr.id] = len(t.tracks)
	t.tracks = append(t.tracks, tr)
}

func (t *Tracker) remove(id uint32) {
	idx, ok := t.byID[id]
	if !ok {
		return
	}
	last := len(t.tracks) - 1
	if idx != last {
		t.tracks[idx] = t.tracks[last]
		t.byID[t.tracks[idx].id] = idx
	}
	t.tracks = t.tracks[:last]
	delete(t.byID, id)
}
