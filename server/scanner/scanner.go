// Package scanner runs the full pipeline over the frames of one capture
// prefix: list frames, detect people in each, feed them through the presence
// monitor, render evidence, record alert events, and send notifications.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/detect"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/eventdb"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/monitor"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/notifications"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/render"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
)

type Scanner struct {
	log      log.Log
	store    storage.Storage
	detector detect.Detector
	renderer *render.Renderer
	events   *eventdb.EventDB
	notifier *notifications.Notifier
	monitor  *monitor.Monitor
}

// Options selects what one scan covers.
type Options struct {
	// Session names the pool/camera. It doubles as the monitor session key.
	Session string `json:"session"`
	// Prefix under which the frames live, eg "frames/pool-1/"
	Prefix string `json:"prefix"`
	// OutputPrefix for annotated evidence images. Empty disables rendering.
	OutputPrefix string `json:"outputPrefix,omitempty"`
	// MaxFrames caps the scan at the newest MaxFrames frames. 0 means all.
	MaxFrames int `json:"maxFrames,omitempty"`
}

// FrameReport is the per-frame line of a scan report.
type FrameReport struct {
	Frame        string         `json:"frame"`
	Count        int            `json:"count"`
	Alert        bool           `json:"alert"`
	Baseline     int            `json:"baseline,omitempty"`
	DropBy       int            `json:"dropBy,omitempty"`
	MissingBoxes []nn.Detection `json:"missingBoxes,omitempty"`
	OriginFrame  string         `json:"originFrame,omitempty"`
	EvidenceKey  string         `json:"evidenceKey,omitempty"`
	EventID      string         `json:"eventId,omitempty"`
}

// Report summarizes one scan.
type Report struct {
	Session          string        `json:"session"`
	FramesProcessed  int           `json:"framesProcessed"`
	DetectorFailures int           `json:"detectorFailures"`
	RenderFailures   int           `json:"renderFailures"`
	EventIDs         []string      `json:"eventIds"`
	Frames           []FrameReport `json:"frames"`
}

func New(logger log.Log, store storage.Storage, detector detect.Detector, renderer *render.Renderer,
	events *eventdb.EventDB, notifier *notifications.Notifier, mon *monitor.Monitor) *Scanner {
	return &Scanner{
		log:      logger,
		store:    store,
		detector: detector,
		renderer: renderer,
		events:   events,
		notifier: notifier,
		monitor:  mon,
	}
}

// Scan processes every frame under opts.Prefix, oldest first.
//
// The detection/tracking/alerting core always runs to completion. Failures in
// the collaborators around it (detector, renderer, event store, notifier) are
// logged and counted, never fatal: a frame whose detection failed is treated
// as an empty frame, and an alert whose evidence image failed to render is
// still recorded and sent.
func (s *Scanner) Scan(ctx context.Context, opts Options) (*Report, error) {
	if opts.Session == "" {
		return nil, fmt.Errorf("Scan needs a session name")
	}
	if s.detector == nil {
		return nil, fmt.Errorf("No detector configured")
	}
	frames, err := storage.ListFrames(s.store, opts.Prefix, opts.MaxFrames)
	if err != nil {
		return nil, fmt.Errorf("Failed to list frames under %v: %w", opts.Prefix, err)
	}
	s.log.Infof("Scanning %v frames under %v (session %v)", len(frames), opts.Prefix, opts.Session)

	// Every scan is a fresh pass over the footage, so start the session clean
	// and tear it down when we're done.
	s.monitor.EndSession(opts.Session)
	defer s.monitor.EndSession(opts.Session)

	report := &Report{
		Session:  opts.Session,
		EventIDs: []string{},
		Frames:   []FrameReport{},
	}
	evidenceByFrame := map[string]string{}
	wasActive := false

	for _, frameKey := range frames {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		dets, err := s.detector.DetectPersons(ctx, frameKey)
		if err != nil {
			s.log.Warnf("Detection failed on %v, treating as empty frame: %v", frameKey, err)
			report.DetectorFailures++
			dets = nil
		}

		result := s.monitor.Process(opts.Session, monitor.Frame{
			Key:        frameKey,
			PTS:        time.Now().UnixMilli(),
			Detections: dets,
		})
		report.FramesProcessed++

		fr := FrameReport{
			Frame:        frameKey,
			Count:        result.Count,
			Alert:        result.Alert.Active,
			Baseline:     result.Alert.Baseline,
			DropBy:       result.Alert.DropBy,
			MissingBoxes: result.Alert.MissingBoxes,
			OriginFrame:  result.Alert.OriginFrame,
		}

		if s.renderer != nil && opts.OutputPrefix != "" {
			outKey := render.EvidenceKey(opts.OutputPrefix, frameKey, result.Alert.Active)
			title := fmt.Sprintf("%v | %v | count %v", statusWord(result.Alert.Active), opts.Session, result.Count)
			if result.Alert.Active {
				title += fmt.Sprintf(" (baseline %v)", result.Alert.Baseline)
			}
			if err := s.renderer.Render(frameKey, outKey, title, result.Tracks, result.Alert.MissingBoxes); err != nil {
				s.log.Warnf("Failed to render evidence for %v: %v", frameKey, err)
				report.RenderFailures++
			} else {
				fr.EvidenceKey = outKey
				evidenceByFrame[frameKey] = outKey
			}
		}

		if result.Alert.Active && !wasActive {
			fr.EventID = s.recordAlert(opts.Session, result, fr.EvidenceKey, evidenceByFrame)
			if fr.EventID != "" {
				report.EventIDs = append(report.EventIDs, fr.EventID)
			}
		}
		wasActive = result.Alert.Active

		report.Frames = append(report.Frames, fr)
	}

	s.log.Infof("Scan of %v done: %v frames, %v alerts, %v detector failures",
		opts.Session, report.FramesProcessed, len(report.EventIDs), report.DetectorFailures)
	return report, nil
}

// recordAlert persists the event and queues the notification. Returns the
// event id, or "" if the event store rejected it.
func (s *Scanner) recordAlert(session string, result monitor.FrameResult, evidenceKey string, evidenceByFrame map[string]string) string {
	ev := &eventdb.Event{
		Session:         session,
		Baseline:        result.Alert.Baseline,
		DropBy:          result.Alert.Baseline - result.Count,
		FrameKey:        result.FrameKey,
		PrevFrameKey:    result.Alert.OriginFrame,
		EvidenceKey:     evidenceKey,
		PrevEvidenceKey: evidenceByFrame[result.Alert.OriginFrame],
		MissingBoxes:    eventdb.BoxList(result.Alert.MissingBoxes),
	}
	if s.events != nil {
		if err := s.events.Create(ev); err != nil {
			s.log.Errorf("Failed to record alert event for %v: %v", result.FrameKey, err)
			return ""
		}
	} else {
		ev.EventID = eventdb.MakeEventID(time.Now(), result.FrameKey)
	}
	if s.notifier != nil {
		s.notifier.Send(notifications.MakeAlertNotification(ev, s.evidenceURLs(ev)))
	}
	return ev.EventID
}

func (s *Scanner) evidenceURLs(ev *eventdb.Event) []string {
	urls := []string{}
	for _, key := range []string{ev.EvidenceKey, ev.PrevEvidenceKey} {
		if key == "" {
			continue
		}
		url, err := s.store.URL(key)
		if err != nil {
			// Filesystem storage has no URLs; the keys in the event are
			// enough to find the images.
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func statusWord(alert bool) string {
	if alert {
		return "ALERT"
	}
	return "OK"
}
