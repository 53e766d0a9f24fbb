package monitor

import (
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/gen"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// FrameResult is what a session reports after absorbing one frame.
type FrameResult struct {
	FrameKey   string       `json:"frame"`
	FrameIndex int          `json:"frameIndex"`
	Count      int          `json:"count"`
	Tracks     []TrackedBox `json:"tracks"`
	Alert      AlertStatus  `json:"alert"`
}

// Session processes the ordered frames of one camera or video. It owns a
// tracker for identity continuity and an alert state machine for count drops,
// and carries the previous frame's detections between calls.
//
// A session is single threaded. ProcessFrame must never run concurrently with
// itself; Monitor enforces this by driving each session from one goroutine.
type Session struct {
	Name string

	log        log.Log
	params     Params
	tracker    *Tracker
	alert      alertState
	hasPrev    bool
	prevKey    string
	prevDets   []nn.Detection
	frameCount int
	wasActive  bool
}

func NewSession(logger log.Log, name string, params Params) *Session {
	return &Session{
		Name:    name,
		log:     log.NewPrefixLogger(logger, "Session "+name),
		params:  params,
		tracker: NewTracker(params),
		alert:   alertState{params: params},
	}
}

// ProcessFrame absorbs one frame and returns the session's verdict for it.
func (s *Session) ProcessFrame(frame Frame) FrameResult {
	s.frameCount++
	s.tracker.Update(frame.Detections)

	status := s.alert.update(s.hasPrev, s.prevKey, s.prevDets, frame.Detections)
	if status.Active && !s.wasActive {
		s.log.Warnf("Count dropped from %v to %v at frame %v (%v missing, last seen in %v)",
			status.Baseline, len(frame.Detections), frame.Key, len(status.MissingBoxes), status.OriginFrame)
	} else if !status.Active && s.wasActive {
		s.log.Infof("Count recovered at frame %v", frame.Key)
	}
	s.wasActive = status.Active

	s.hasPrev = true
	s.prevKey = frame.Key
	s.prevDets = gen.CopySlice(frame.Detections)

	return FrameResult{
		FrameKey:   frame.Key,
		FrameIndex: s.frameCount - 1,
		Count:      len(frame.Detections),
		Tracks:     s.tracker.Active(),
		Alert:      status,
	}
}

// PrevFrameKey returns the key of the most recently processed frame, or ""
// if no frame has been processed yet.
func (s *Session) PrevFrameKey() string {
	return s.prevKey
}
