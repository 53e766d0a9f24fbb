package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/monitor"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
	"github.com/stretchr/testify/require"
)

func writeTestFrame(t *testing.T, store storage.Storage, key string) {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{40, 90, 160, 255})
		}
	}
	buf := bytes.Buffer{}
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, storage.WriteFile(store, key, &buf))
}

func TestEvidenceKey(t *testing.T) {
	require.Equal(t, "out/frame_007_ALERT.png", EvidenceKey("out/", "pool-1/frame_007.jpg", true))
	require.Equal(t, "out/frame_007_OK.png", EvidenceKey("out/", "pool-1/frame_007.jpg", false))
}

func TestRender(t *testing.T) {
	store, err := storage.NewStorageFS(log.NewTestingLog(t), t.TempDir())
	require.NoError(t, err)
	writeTestFrame(t, store, "pool-1/frame_007.jpg")

	r := NewRenderer(log.NewTestingLog(t), store)
	current := []monitor.TrackedBox{
		{ID: 3, Box: nn.Rect{Left: 0.1, Top: 0.1, Width: 0.2, Height: 0.2}, Confirmed: true},
	}
	missing := []nn.Detection{
		{Box: nn.Rect{Left: 0.6, Top: 0.5, Width: 0.2, Height: 0.3}, Confidence: 88},
	}
	outKey := EvidenceKey("out/", "pool-1/frame_007.jpg", true)
	require.NoError(t, r.Render("pool-1/frame_007.jpg", outKey, "ALERT pool-1", current, missing))

	// The output must be a decodable PNG with the source dimensions
	data, err := storage.ReadFile(store, outKey)
	require.NoError(t, err)
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 320, img.Bounds().Dx())
	require.Equal(t, 240, img.Bounds().Dy())

	// Missing source frame is an error, not a panic
	require.Error(t, r.Render("pool-1/nope.jpg", "out/x.png", "t", nil, nil))
}
