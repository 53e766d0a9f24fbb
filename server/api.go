package server

import (
	"net/http"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/www"
	"github.com/julienschmidt/httprouter"
)

// SetupHTTP builds the API router.
func (s *Server) SetupHTTP() http.Handler {
	router := httprouter.New()

	www.Handle(s.Log, router, "GET", "/api/ping", s.httpPing)
	www.Handle(s.Log, router, "GET", "/api/events", s.httpEventsList)
	www.Handle(s.Log, router, "GET", "/api/events/:eventID", s.httpEventsGet)
	www.Handle(s.Log, router, "PATCH", "/api/events/:eventID/close", s.httpEventsClose)
	www.Handle(s.Log, router, "POST", "/api/scan", s.httpScan)

	return router
}

func (s *Server) httpPing(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendJSON(w, map[string]any{
		"service":       "lifeshot",
		"uptimeSeconds": int64(time.Since(s.startedAt).Seconds()),
	})
}
