// Package server assembles the LifeShot service: storage, detector, event
// database, notifier, presence monitor, and the HTTP API in front of them.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/dbh"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/config"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/detect"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/eventdb"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/monitor"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/notifications"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/render"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/scanner"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
)

type Server struct {
	Log      log.Log
	Config   config.Config
	Store    storage.Storage
	Detector detect.Detector
	Events   *eventdb.EventDB
	Notifier *notifications.Notifier
	Monitor  *monitor.Monitor
	Scanner  *scanner.Scanner

	httpServer *http.Server
	startedAt  time.Time
}

// NewServer builds every component from the config. The detector may be nil
// (eg in tests); scans will then treat every frame as empty.
func NewServer(logger log.Log, cfg config.Config) (*Server, error) {
	store, err := openStorage(logger, cfg.Storage)
	if err != nil {
		return nil, err
	}
	events, err := eventdb.Open(logger, cfg.DB, 0)
	if err != nil {
		return nil, err
	}
	var detector detect.Detector
	if cfg.Detector.URL != "" {
		detector = detect.NewHTTPDetector(logger, store, cfg.Detector.URL, cfg.Detector.Filter, cfg.Detector.Timeout())
	}
	notifier := notifications.NewNotifier(logger, cfg.Notify.WebhookURL)
	mon := monitor.NewMonitor(logger, cfg.Tracking)
	renderer := render.NewRenderer(logger, store)

	s := &Server{
		Log:       logger,
		Config:    cfg,
		Store:     store,
		Detector:  detector,
		Events:    events,
		Notifier:  notifier,
		Monitor:   mon,
		Scanner:   scanner.New(logger, store, detector, renderer, events, notifier, mon),
		startedAt: time.Now(),
	}
	return s, nil
}

func openStorage(logger log.Log, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Kind {
	case "", "filesystem":
		return storage.NewStorageFS(logger, cfg.Root)
	case "gcs":
		return storage.NewStorageGCS(logger, cfg.Bucket, cfg.Public, cfg.URLExpiry())
	}
	return nil, fmt.Errorf("Unknown storage kind '%v'", cfg.Kind)
}

// ListenAndServe runs the HTTP API until the process dies.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%v", s.Config.HTTPPort)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.SetupHTTP(),
	}
	s.Log.Infof("Listening on %v", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the background machinery. The HTTP listener, if running,
// dies with the process.
func (s *Server) Shutdown() {
	s.Log.Infof("Shutting down")
	s.Monitor.Close()
	s.Notifier.Close()
	if s.Detector != nil {
		s.Detector.Close()
	}
	s.Log.Close()
}

// DropAllData wipes the event database. Used by tools, never by the server
// itself.
func DropAllData(logger log.Log, cfg config.Config) error {
	return dbh.DropAllTables(logger, cfg.DB)
}
