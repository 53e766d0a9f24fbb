package detect

import (
	"context"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// StubDetector serves canned detections keyed by frame, for demos and for
// replaying recorded footage without an inference endpoint. Frames it has
// never heard of come back empty.
type StubDetector struct {
	ByFrame map[string][]nn.Detection
}

func NewStubDetector() *StubDetector {
	return &StubDetector{
		ByFrame: map[string][]nn.Detection{},
	}
}

func (d *StubDetector) DetectPersons(ctx context.Context, frameKey string) ([]nn.Detection, error) {
	return d.ByFrame[frameKey], nil
}

func (d *StubDetector) Close() {
}
