package detect

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
	"github.com/stretchr/testify/require"
)

func TestHTTPDetector(t *testing.T) {
	store, err := storage.NewStorageFS(log.NewTestingLog(t), t.TempDir())
	require.NoError(t, err)
	require.NoError(t, storage.WriteFile(store, "pool-1/frame_001.jpg", bytes.NewReader([]byte("jpegbytes"))))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.Equal(t, []byte("jpegbytes"), body)
		w.Header().Set("Content-Type", "application/json")
		// One good box, one below confidence, one sliver that the area
		// filter must drop
		w.Write([]byte(`{"boxes":[
			{"box":{"left":0.4,"top":0.4,"width":0.1,"height":0.1},"confidence":91},
			{"box":{"left":0.1,"top":0.1,"width":0.1,"height":0.1},"confidence":12},
			{"box":{"left":0.2,"top":0.2,"width":0.001,"height":0.001},"confidence":95}
		]}`))
	}))
	defer ts.Close()

	filter := nn.FilterParams{MinConfidence: 70, MinBoxArea: 0.0015, MaxBoxArea: 0.70}
	d := NewHTTPDetector(log.NewTestingLog(t), store, ts.URL, filter, 5*time.Second)
	defer d.Close()

	dets, err := d.DetectPersons(context.Background(), "pool-1/frame_001.jpg")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	require.InDelta(t, 0.4, dets[0].Box.Left, 1e-5)

	_, err = d.DetectPersons(context.Background(), "pool-1/missing.jpg")
	require.Error(t, err)
}

func TestHTTPDetectorServerError(t *testing.T) {
	store, err := storage.NewStorageFS(log.NewTestingLog(t), t.TempDir())
	require.NoError(t, err)
	require.NoError(t, storage.WriteFile(store, "f.jpg", bytes.NewReader([]byte("x"))))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	d := NewHTTPDetector(log.NewTestingLog(t), store, ts.URL, nn.FilterParams{}, 5*time.Second)
	defer d.Close()
	_, err = d.DetectPersons(context.Background(), "f.jpg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "model not loaded")
}
