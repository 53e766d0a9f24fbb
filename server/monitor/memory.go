package monitor

import (
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

type heldBox struct {
	box    nn.Rect
	misses int
}

// BoxMemory is the identity-carrying variant of coasting, for pipelines where
// the upstream detector already assigns persistent ids. It remembers the last
// box seen for each id, and when an id goes absent it keeps reporting that box
// for up to maxMissFrames frames before letting go. This bridges short
// detector dropouts without inventing identities of our own.
type BoxMemory struct {
	maxMissFrames int
	held          map[int64]*heldBox
}

func NewBoxMemory(maxMissFrames int) *BoxMemory {
	return &BoxMemory{
		maxMissFrames: maxMissFrames,
		held:          map[int64]*heldBox{},
	}
}

// Update ingests the boxes of one frame, keyed by their external id.
// Ids present in seen are refreshed. Ids absent from seen accumulate a miss,
// and are forgotten once their misses exceed maxMissFrames.
func (m *BoxMemory) Update(seen map[int64]nn.Rect) {
	for id, box := range seen {
		if h := m.held[id]; h != nil {
			h.box = box
			h.misses = 0
		} else {
			m.held[id] = &heldBox{box: box}
		}
	}
	for id, h := range m.held {
		if _, present := seen[id]; present {
			continue
		}
		h.misses++
		if h.misses > m.maxMissFrames {
			delete(m.held, id)
		}
	}
}

// Boxes returns the effective box of every remembered id, including ids that
// are currently absent but still within their grace period.
func (m *BoxMemory) Boxes() map[int64]nn.Rect {
	out := make(map[int64]nn.Rect, len(m.held))
	for id, h := range m.held {
		out[id] = h.box
	}
	return out
}

// Count is the number of ids currently remembered.
func (m *BoxMemory) Count() int {
	return len(m.held)
}
