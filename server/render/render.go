// Package render draws annotated evidence images: the source frame with the
// current person boxes, the last-seen boxes of anyone missing, and a status
// banner. These are what a lifeguard actually looks at when an alert fires.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/monitor"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/storage"
	"github.com/fogleman/gg"
)

// Renderer reads frames from storage and writes annotated PNGs back.
type Renderer struct {
	log   log.Log
	store storage.Storage
}

func NewRenderer(logger log.Log, store storage.Storage) *Renderer {
	return &Renderer{
		log:   logger,
		store: store,
	}
}

// EvidenceKey is the storage key of the annotated image for a frame:
// the frame's basename plus an ALERT or OK suffix, under outputPrefix.
func EvidenceKey(outputPrefix, frameKey string, alert bool) string {
	status := "OK"
	if alert {
		status = "ALERT"
	}
	return outputPrefix + storage.Basename(frameKey) + "_" + status + ".png"
}

// Render draws the evidence image for one frame and writes it to outKey.
// Current boxes are drawn in green, missing boxes (last-seen positions of
// people who vanished) in red, and title goes in a banner across the top.
func (r *Renderer) Render(frameKey, outKey, title string, current []monitor.TrackedBox, missing []nn.Detection) error {
	src, err := storage.ReadFile(r.store, frameKey)
	if err != nil {
		return fmt.Errorf("Failed to read frame %v: %w", frameKey, err)
	}
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("Failed to decode frame %v: %w", frameKey, err)
	}

	dc := gg.NewContextForImage(img)
	w := float64(dc.Width())
	h := float64(dc.Height())

	for _, tb := range current {
		r.drawBox(dc, tb.Box, w, h, 0, 0.85, 0.15)
		dc.SetRGB(0, 0.85, 0.15)
		dc.DrawString(fmt.Sprintf("#%d", tb.ID), float64(tb.Box.Left)*w+3, float64(tb.Box.Top)*h-4)
	}
	for _, m := range missing {
		r.drawBox(dc, m.Box, w, h, 0.9, 0.1, 0.1)
		dc.SetRGB(0.9, 0.1, 0.1)
		dc.DrawString("LAST SEEN", float64(m.Box.Left)*w+3, float64(m.Box.Top)*h-4)
	}

	// Banner
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, w, 22)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 6, 15)

	buf := bytes.Buffer{}
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("Failed to encode evidence image for %v: %w", frameKey, err)
	}
	if err := storage.WriteFile(r.store, outKey, &buf); err != nil {
		return fmt.Errorf("Failed to write evidence image %v: %w", outKey, err)
	}
	return nil
}

func (r *Renderer) drawBox(dc *gg.Context, box nn.Rect, w, h, red, green, blue float64) {
	dc.SetRGB(red, green, blue)
	dc.SetLineWidth(2)
	dc.DrawRectangle(float64(box.Left)*w, float64(box.Top)*h, float64(box.Width)*w, float64(box.Height)*h)
	dc.Stroke()
}
