package server

import (
	"net/http"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/www"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/eventdb"
	"github.com/julienschmidt/httprouter"
)

// eventJSON is an event plus viewer URLs for its evidence images, when the
// storage backend can produce them.
type eventJSON struct {
	eventdb.Event
	EvidenceURL     string `json:"evidenceUrl,omitempty"`
	PrevEvidenceURL string `json:"prevEvidenceUrl,omitempty"`
}

func (s *Server) eventToJSON(ev *eventdb.Event) eventJSON {
	j := eventJSON{Event: *ev}
	if ev.EvidenceKey != "" {
		if url, err := s.Store.URL(ev.EvidenceKey); err == nil {
			j.EvidenceURL = url
		}
	}
	if ev.PrevEvidenceKey != "" {
		if url, err := s.Store.URL(ev.PrevEvidenceKey); err == nil {
			j.PrevEvidenceURL = url
		}
	}
	return j
}

// GET /api/events?session=pool-1&status=OPEN&limit=50
func (s *Server) httpEventsList(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	session := www.QueryValue(r, "session")
	status := www.QueryValue(r, "status")
	if status != "" && status != eventdb.StatusOpen && status != eventdb.StatusClosed {
		www.PanicBadRequestf("Invalid status '%v'", status)
	}
	limit := www.QueryInt(r, "limit")

	events, err := s.Events.ListEvents(session, status, limit)
	www.Check(err)
	out := make([]eventJSON, 0, len(events))
	for i := range events {
		out = append(out, s.eventToJSON(&events[i]))
	}
	www.SendJSON(w, out)
}

// GET /api/events/:eventID
func (s *Server) httpEventsGet(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	ev, err := s.Events.GetEvent(params.ByName("eventID"))
	www.Check(err)
	if ev == nil {
		www.PanicNotFound()
	}
	www.SendJSON(w, s.eventToJSON(ev))
}

// PATCH /api/events/:eventID/close
// Closing is idempotent; a second close returns the original response time.
func (s *Server) httpEventsClose(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	ev, err := s.Events.CloseEvent(params.ByName("eventID"), time.Now())
	www.Check(err)
	if ev == nil {
		www.PanicNotFound()
	}
	www.SendJSON(w, map[string]any{
		"eventId":         ev.EventID,
		"status":          ev.Status,
		"responseSeconds": ev.ResponseSeconds,
	})
}
