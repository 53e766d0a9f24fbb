package monitor

import (
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/gen"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// AlertStatus is the per-frame verdict of the count-drop state machine.
type AlertStatus struct {
	// Active is true while the person count sits below the baseline and we
	// have concrete boxes to point at.
	Active bool `json:"active"`

	// Baseline is the person count we expect to recover to. Zero means no
	// drop episode is in progress (a real baseline is always >= 1, since it
	// is a count that something was observed to drop from).
	Baseline int `json:"baseline,omitempty"`

	// DropBy is how many people vanished between the previous frame and this
	// one. Nonzero only on frames where a (further) drop happened.
	DropBy int `json:"dropBy,omitempty"`

	// MissingBoxes are the last-seen boxes of the people judged missing,
	// populated only while Active.
	MissingBoxes []nn.Detection `json:"missingBoxes,omitempty"`

	// OriginFrame is the frame in which the missing people were last seen.
	OriginFrame string `json:"originFrame,omitempty"`
}

// alertState implements the baseline/drop/recovery state machine.
//
// The baseline is captured at the moment a drop begins and is never raised or
// lowered during an episode. Only a return to the full baseline count clears
// it; partial recovery keeps the alert live, because "two of three swimmers
// came back up" is precisely the situation we exist to flag.
type alertState struct {
	params   Params
	baseline int
	missing  []nn.Detection
	origin   string
}

// update advances the state machine by one frame and returns the verdict.
// prev describes the previous frame and is ignored on the first frame
// (hasPrev false).
func (a *alertState) update(hasPrev bool, prevKey string, prev []nn.Detection, curr []nn.Detection) AlertStatus {
	dropBy := 0
	if hasPrev && len(curr) < len(prev) {
		dropBy = len(prev) - len(curr)
		if a.baseline == 0 {
			a.baseline = len(prev)
		}
		candidates := findMissing(prev, curr, a.params)
		if len(candidates) == 0 {
			// Degenerate: the count fell but every previous box still has a
			// lookalike in the current frame. Rank the whole previous frame
			// rather than report a drop with no evidence.
			candidates = gen.CopySlice(prev)
		}
		a.missing = pickTopMissing(curr, candidates, dropBy, a.params)
		a.origin = prevKey
	}

	if a.baseline != 0 && len(curr) >= a.baseline {
		a.baseline = 0
		a.missing = nil
		a.origin = ""
	}

	status := AlertStatus{
		Baseline: a.baseline,
		DropBy:   dropBy,
	}
	status.Active = a.baseline != 0 && len(curr) < a.baseline && len(a.missing) > 0
	if status.Active {
		status.MissingBoxes = a.missing
		status.OriginFrame = a.origin
	}
	return status
}
