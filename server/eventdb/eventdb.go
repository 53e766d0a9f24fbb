// Package eventdb stores alert events: when a count drop fired, which frames
// prove it, and when a responder closed it.
package eventdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/dbh"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
	"gorm.io/gorm"
)

type EventDB struct {
	log log.Log
	db  *gorm.DB
}

// Open or create the event DB
func Open(log log.Log, dbc dbh.DBConfig, flags dbh.DBConnectFlags) (*EventDB, error) {
	db, err := dbh.OpenDB(log, dbc, Migrations(log), flags)
	if err != nil {
		return nil, fmt.Errorf("Failed to open event database %v: %w", dbc.Database, err)
	}
	return &EventDB{
		log: log,
		db:  db,
	}, nil
}

// MakeEventID builds the durable public id of an event from its creation time
// and the frame that triggered it.
func MakeEventID(createdAt time.Time, frameKey string) string {
	return fmt.Sprintf("EVT-%v-%v", createdAt.Unix(), storage.Basename(frameKey))
}

// Create inserts a new OPEN event.
func (e *EventDB) Create(ev *Event) error {
	if ev.Status == "" {
		ev.Status = StatusOpen
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = dbh.MakeIntTime(time.Now())
	}
	if ev.EventID == "" {
		ev.EventID = MakeEventID(ev.CreatedAt.Get(), ev.FrameKey)
	}
	if err := e.db.Create(ev).Error; err != nil {
		return fmt.Errorf("Failed to create event %v: %w", ev.EventID, err)
	}
	e.log.Infof("Created event %v (session %v, frame %v)", ev.EventID, ev.Session, ev.FrameKey)
	return nil
}

// GetEvent returns the event with the given public id, or nil if it does not
// exist.
func (e *EventDB) GetEvent(eventID string) (*Event, error) {
	ev := Event{}
	err := e.db.First(&ev, "event_id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListEvents returns events newest first. session and status filter when
// non-empty. limit <= 0 means no limit.
func (e *EventDB) ListEvents(session, status string, limit int) ([]Event, error) {
	q := e.db.Order("created_at DESC")
	if session != "" {
		q = q.Where("session = ?", session)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	events := []Event{}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CloseEvent marks an event CLOSED and records the response time.
// Closing is idempotent: closing an already-closed event returns it unchanged,
// preserving the original ClosedAt and ResponseSeconds.
// Returns nil if the event does not exist.
func (e *EventDB) CloseEvent(eventID string, closedAt time.Time) (*Event, error) {
	ev, err := e.GetEvent(eventID)
	if err != nil || ev == nil {
		return nil, err
	}
	if ev.Status == StatusClosed {
		return ev, nil
	}
	ev.Status = StatusClosed
	ev.ClosedAt = dbh.MakeIntTime(closedAt)
	ev.ResponseSeconds = int64(closedAt.Sub(ev.CreatedAt.Get()).Seconds())
	if ev.ResponseSeconds < 0 {
		ev.ResponseSeconds = 0
	}
	if err := e.db.Save(ev).Error; err != nil {
		return nil, fmt.Errorf("Failed to close event %v: %w", eventID, err)
	}
	e.log.Infof("Closed event %v after %v seconds", eventID, ev.ResponseSeconds)
	return ev, nil
}
