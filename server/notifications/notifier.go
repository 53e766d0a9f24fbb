// Package notifications delivers alert events to an external webhook
// (a pager bridge, a Slack hook, whatever the pool operator wired up).
// Delivery is asynchronous with retry and backoff, so a flaky receiver never
// slows down a scan.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/gen"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/eventdb"
)

// Notification is the JSON document we POST to the webhook.
type Notification struct {
	EventID      string   `json:"eventId"`
	Session      string   `json:"session"`
	CreatedAt    int64    `json:"createdAt"` // unix milliseconds
	Subject      string   `json:"subject"`
	Message      string   `json:"message"`
	EvidenceURLs []string `json:"evidenceUrls,omitempty"`
}

type Notifier struct {
	log          log.Log
	webhookURL   string
	maxQueueSize int
	httpTimeout  time.Duration

	newNotification chan *Notification
	ctx             context.Context
	cancel          context.CancelFunc
	shutdown        sync.WaitGroup
}

// NewNotifier starts the delivery goroutine. If webhookURL is empty the
// notifier accepts notifications and silently discards them, so callers never
// need to special-case an unconfigured webhook.
func NewNotifier(logger log.Log, webhookURL string) *Notifier {
	ctx, cancel := context.WithCancel(context.Background())
	n := &Notifier{
		log:             logger,
		webhookURL:      webhookURL,
		maxQueueSize:    100,
		httpTimeout:     10 * time.Second,
		newNotification: make(chan *Notification, 10),
		ctx:             ctx,
		cancel:          cancel,
	}
	n.shutdown.Add(1)
	go n.transmitLoop()
	return n
}

func (n *Notifier) Close() {
	n.cancel()
	n.shutdown.Wait()
}

// Send queues a notification for delivery and returns immediately.
func (n *Notifier) Send(nt *Notification) {
	select {
	case n.newNotification <- nt:
	case <-n.ctx.Done():
	}
}

// MakeAlertNotification formats the webhook document for an alert event.
func MakeAlertNotification(ev *eventdb.Event, evidenceURLs []string) *Notification {
	return &Notification{
		EventID:      ev.EventID,
		Session:      ev.Session,
		CreatedAt:    ev.CreatedAt.Get().UnixMilli(),
		Subject:      fmt.Sprintf("LifeShot ALERT: swimmer missing in %v", ev.Session),
		Message:      formatAlertMessage(ev),
		EvidenceURLs: evidenceURLs,
	}
}

func formatAlertMessage(ev *eventdb.Event) string {
	return fmt.Sprintf(
		"Person count dropped from %v to %v.\n"+
			"Event: %v\n"+
			"Detected in frame: %v\n"+
			"Last seen in frame: %v\n"+
			"Missing: %v",
		ev.Baseline, ev.Baseline-ev.DropBy, ev.EventID, ev.FrameKey, ev.PrevFrameKey, len(ev.MissingBoxes))
}

func (n *Notifier) transmitLoop() {
	defer n.shutdown.Done()
	minPause := 1
	maxPause := 30
	pause := maxPause
	queue := []*Notification{}
	for {
		select {
		case nt := <-n.newNotification:
			if len(queue) > n.maxQueueSize {
				n.log.Warnf("Dropping old messages from notifier queue, size: %v", len(queue))
				queue = queue[len(queue)-n.maxQueueSize:]
			}
			queue = append(queue, nt)
			pause = 0
		case <-time.After(time.Second * time.Duration(pause)):
			if len(queue) != 0 {
				queue = n.transmitQueue(queue)
			}
			if len(queue) == 0 {
				// Queue was cleared, so we can pause until receiving a new notification
				pause = maxPause
			} else {
				// Queue was not cleared, so we start backing off
				pause = gen.Clamp(pause*2, minPause, maxPause)
			}
		case <-n.ctx.Done():
			return
		}
	}
}

// Returns the notifications that still need to be sent.
func (n *Notifier) transmitQueue(queue []*Notification) []*Notification {
	if n.webhookURL == "" {
		return nil
	}
	for i, nt := range queue {
		if !n.transmit(nt) {
			return queue[i:]
		}
	}
	return nil
}

func (n *Notifier) transmit(nt *Notification) bool {
	j, _ := json.Marshal(nt)
	ctx, cancel := context.WithTimeout(n.ctx, n.httpTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(j))
	if err != nil {
		n.log.Errorf("Failed to create notification request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		n.log.Errorf("Failed to send notification %v: %v", nt.EventID, err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		n.log.Errorf("Failed to send notification %v: %v (%v)", nt.EventID, resp.Status, string(msg))
		return false
	}
	n.log.Infof("Sent notification for event %v", nt.EventID)
	return true
}
