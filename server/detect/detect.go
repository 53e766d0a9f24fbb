// Package detect finds people in stored frames by calling an external
// inference service.
package detect

import (
	"context"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// Detector finds people in a frame. Implementations must be safe for
// concurrent use, since independent sessions scan in parallel.
type Detector interface {
	// DetectPersons returns the person boxes in the frame at frameKey,
	// normalized to [0,1] and already filtered for confidence and size.
	DetectPersons(ctx context.Context, frameKey string) ([]nn.Detection, error)

	Close()
}
