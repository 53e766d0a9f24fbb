package eventdb

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/dbh"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// BaseModel is our base class for a GORM model.
// The default GORM Model uses int, but we prefer int64
type BaseModel struct {
	ID int64 `gorm:"primaryKey" json:"id"`
}

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Event is one alert episode: somebody went under and a human needs to
// respond. It is created OPEN when the alert fires and moves to CLOSED
// exactly once, when a responder acknowledges it.
type Event struct {
	BaseModel
	EventID         string      `gorm:"uniqueIndex" json:"eventId"` // eg EVT-1756304000-frame_0042
	Session         string      `json:"session"`
	Status          string      `json:"status"` // OPEN or CLOSED
	CreatedAt       dbh.IntTime `json:"createdAt"`
	ClosedAt        dbh.IntTime `json:"closedAt,omitempty"`
	ResponseSeconds int64       `json:"responseSeconds,omitempty"` // ClosedAt - CreatedAt, set on close
	Baseline        int         `json:"baseline"`
	DropBy          int         `json:"dropBy"`
	FrameKey        string      `json:"frameKey"`        // Frame in which the drop was detected
	PrevFrameKey    string      `json:"prevFrameKey"`    // Frame in which the missing people were last seen
	EvidenceKey     string      `json:"evidenceKey"`     // Annotated image for FrameKey
	PrevEvidenceKey string      `json:"prevEvidenceKey"` // Annotated image for PrevFrameKey
	MissingBoxes    BoxList     `gorm:"type:text" json:"missingBoxes"`
}

// BoxList stores detections as a JSON text column.
type BoxList []nn.Detection

func (b BoxList) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	j, err := json.Marshal([]nn.Detection(b))
	if err != nil {
		return nil, err
	}
	return string(j), nil
}

func (b *BoxList) Scan(src any) error {
	if src == nil {
		*b = nil
		return nil
	}
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), (*[]nn.Detection)(b))
	case []byte:
		return json.Unmarshal(v, (*[]nn.Detection)(b))
	}
	return fmt.Errorf("Unsupported type %T for BoxList", src)
}
