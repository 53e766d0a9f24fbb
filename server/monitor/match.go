package monitor

import (
	"sort"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// unmatchedDistance is the center distance reported for a box when the other
// set is empty. It is far larger than any distance two normalized boxes can
// have, so the box always fails the presence test and ranks first for
// missingness.
const unmatchedDistance = 999

// matchQuality measures how well box is accounted for by any member of
// against: the best IOU and the smallest center distance, each taken
// independently (they may come from different members).
func matchQuality(box nn.Rect, against []nn.Detection) (bestIOU, bestDist float32) {
	bestDist = unmatchedDistance
	for _, d := range against {
		if iou := box.IOU(d.Box); iou > bestIOU {
			bestIOU = iou
		}
		if dist := box.CenterDistance(d.Box); dist < bestDist {
			bestDist = dist
		}
	}
	return
}

// findMissing returns the boxes of prev that fail the presence test against
// curr: no current box overlaps them enough, and none is close enough.
// This is deliberately not an exclusive assignment. When two swimmers are
// close together, one current box may vouch for both previous boxes, and a
// box counts as missing only if nothing in the current frame resembles it.
func findMissing(prev, curr []nn.Detection, params Params) []nn.Detection {
	missing := []nn.Detection{}
	for _, p := range prev {
		bestIOU, bestDist := matchQuality(p.Box, curr)
		if bestIOU >= params.IOUMatchMin || bestDist <= params.CenterDistanceMax {
			continue
		}
		missing = append(missing, p)
	}
	return missing
}

// pickTopMissing ranks candidates by how poorly the current frame accounts
// for them, and returns the dropBy most missing. The score for a candidate is
// (1 - bestIOU) + bestCenterDistance against curr, so a box with no overlap
// and no nearby center ranks highest. Ties keep the input order.
func pickTopMissing(curr, candidates []nn.Detection, dropBy int, params Params) []nn.Detection {
	if dropBy <= 0 || len(candidates) == 0 {
		return nil
	}
	type scored struct {
		det   nn.Detection
		score float32
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		bestIOU, bestDist := matchQuality(c.Box, curr)
		ranked = append(ranked, scored{det: c, score: (1 - bestIOU) + bestDist})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if dropBy > len(ranked) {
		dropBy = len(ranked)
	}
	top := make([]nn.Detection, 0, dropBy)
	for _, r := range ranked[:dropBy] {
		top = append(top, r.det)
	}
	return top
}

type assignment struct {
	trackIdx int
	detIdx   int
}

// assignGreedy pairs tracks with detections one-to-one: every (track,
// detection) pair with IOU >= matchThreshold is a candidate, candidates are
// taken best IOU first, and once either side is claimed it is out of the
// running. Ties keep the enumeration order, so results are deterministic.
func assignGreedy(tracks []nn.Rect, dets []nn.Detection, matchThreshold float32) []assignment {
	type pair struct {
		iou float32
		assignment
	}
	pairs := []pair{}
	for ti, t := range tracks {
		for di, d := range dets {
			if iou := t.IOU(d.Box); iou >= matchThreshold {
				pairs = append(pairs, pair{iou: iou, assignment: assignment{trackIdx: ti, detIdx: di}})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].iou > pairs[j].iou
	})
	trackTaken := make([]bool, len(tracks))
	detTaken := make([]bool, len(dets))
	result := []assignment{}
	for _, p := range pairs {
		if trackTaken[p.trackIdx] || detTaken[p.detIdx] {
			continue
		}
		trackTaken[p.trackIdx] = true
		detTaken[p.detIdx] = true
		result = append(result, p.assignment)
	}
	return result
}
