package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
)

// HTTPDetector sends frame images to a remote inference endpoint and filters
// the boxes that come back. The endpoint accepts a raw image POST and replies
// with JSON person boxes in normalized coordinates.
type HTTPDetector struct {
	log    log.Log
	store  storage.Storage
	url    string
	filter nn.FilterParams
	client *http.Client
}

type detectResponse struct {
	Boxes []nn.Detection `json:"boxes"`
}

func NewHTTPDetector(logger log.Log, store storage.Storage, url string, filter nn.FilterParams, timeout time.Duration) *HTTPDetector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDetector{
		log:    logger,
		store:  store,
		url:    url,
		filter: filter,
		client: &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDetector) DetectPersons(ctx context.Context, frameKey string) ([]nn.Detection, error) {
	img, err := storage.ReadFile(d.store, frameKey)
	if err != nil {
		return nil, fmt.Errorf("Failed to read frame %v: %w", frameKey, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(img))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Inference request for %v failed: %w", frameKey, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("Inference request for %v failed: %v (%v)", frameKey, resp.Status, string(body))
	}
	var dr detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("Failed to decode inference response for %v: %w", frameKey, err)
	}
	return nn.FilterDetections(dr.Boxes, d.filter), nil
}

func (d *HTTPDetector) Close() {
	d.client.CloseIdleConnections()
}
