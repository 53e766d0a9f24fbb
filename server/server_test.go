package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/dbh"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/config"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/eventdb"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/monitor"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/notifications"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/render"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/scanner"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
	"github.com/stretchr/testify/require"
)

type cannedDetector struct {
	byFrame map[string][]nn.Detection
}

func (d *cannedDetector) DetectPersons(ctx context.Context, frameKey string) ([]nn.Detection, error) {
	return d.byFrame[frameKey], nil
}

func (d *cannedDetector) Close() {}

func newTestServer(t *testing.T) (*Server, *cannedDetector, string) {
	logger := log.NewTestingLog(t)
	root := t.TempDir()
	store, err := storage.NewStorageFS(logger, root)
	require.NoError(t, err)
	events, err := eventdb.Open(logger, dbh.MakeSqliteConfig(filepath.Join(t.TempDir(), "events.sqlite")), 0)
	require.NoError(t, err)

	detector := &cannedDetector{byFrame: map[string][]nn.Detection{}}
	notifier := notifications.NewNotifier(logger, "")
	mon := monitor.NewMonitor(logger, monitor.DefaultParams())
	t.Cleanup(func() {
		mon.Close()
		notifier.Close()
	})

	s := &Server{
		Log:       logger,
		Config:    config.Default(),
		Store:     store,
		Detector:  detector,
		Events:    events,
		Notifier:  notifier,
		Monitor:   mon,
		Scanner:   scanner.New(logger, store, detector, render.NewRenderer(logger, store), events, notifier, mon),
		startedAt: time.Now(),
	}
	return s, detector, root
}

func writeTestFrame(t *testing.T, root string, store storage.Storage, key string, modifiedAt time.Time) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{30, 80, 150, 255})
		}
	}
	buf := bytes.Buffer{}
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, storage.WriteFile(store, key, &buf))
	require.NoError(t, os.Chtimes(filepath.Join(root, key), modifiedAt, modifiedAt))
}

func TestAPI(t *testing.T) {
	s, detector, root := newTestServer(t)
	ts := httptest.NewServer(s.SetupHTTP())
	defer ts.Close()

	// Ping
	resp, err := http.Get(ts.URL + "/api/ping")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Seed three frames: two swimmers, then one vanishes
	a := nn.Detection{Box: nn.Rect{Left: 0.1, Top: 0.1, Width: 0.1, Height: 0.1}, Confidence: 90}
	b := nn.Detection{Box: nn.Rect{Left: 0.6, Top: 0.5, Width: 0.1, Height: 0.1}, Confidence: 85}
	base := time.Now().Add(-time.Hour)
	for i, dets := range [][]nn.Detection{{a, b}, {a, b}, {a}} {
		key := fmt.Sprintf("frames/pool-1/frame_%03d.jpg", i)
		writeTestFrame(t, root, s.Store, key, base.Add(time.Duration(i)*time.Minute))
		detector.byFrame[key] = dets
	}

	// Scan
	resp, err = http.Post(ts.URL+"/api/scan", "application/json", bytes.NewReader([]byte(`{"session":"pool-1"}`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := scanner.Report{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	resp.Body.Close()
	require.Equal(t, 3, report.FramesProcessed)
	require.Len(t, report.EventIDs, 1)
	eventID := report.EventIDs[0]

	// Scan without a session is a 400
	resp, err = http.Post(ts.URL+"/api/scan", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// List
	resp, err = http.Get(ts.URL + "/api/events?session=pool-1&status=OPEN")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := []eventJSON{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 1)
	require.Equal(t, eventID, list[0].EventID)
	require.Equal(t, 2, list[0].Baseline)

	// Get by id
	resp, err = http.Get(ts.URL + "/api/events/" + eventID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/events/EVT-0-nope")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Close, twice; the second close must not change the response time
	closeEvent := func() map[string]any {
		req, err := http.NewRequest(http.MethodPatch, ts.URL+"/api/events/"+eventID+"/close", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := map[string]any{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		return body
	}
	first := closeEvent()
	require.Equal(t, string(eventdb.StatusClosed), first["status"])
	second := closeEvent()
	require.Equal(t, first["responseSeconds"], second["responseSeconds"])

	// The list now shows no open events
	resp, err = http.Get(ts.URL + "/api/events?status=OPEN")
	require.NoError(t, err)
	list = []eventJSON{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Empty(t, list)

	// Bad status filter
	resp, err = http.Get(ts.URL + "/api/events?status=BOGUS")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
