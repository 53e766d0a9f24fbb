package eventdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/dbh"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *EventDB {
	dbc := dbh.MakeSqliteConfig(filepath.Join(t.TempDir(), "events.sqlite"))
	e, err := Open(log.NewTestingLog(t), dbc, 0)
	require.NoError(t, err)
	return e
}

func makeTestEvent(session, frameKey string) *Event {
	return &Event{
		Session:      session,
		Baseline:     3,
		DropBy:       1,
		FrameKey:     frameKey,
		PrevFrameKey: "pool-1/frame_0041.jpg",
		MissingBoxes: BoxList{
			{Box: nn.Rect{Left: 0.6, Top: 0.5, Width: 0.1, Height: 0.2}, Confidence: 84},
		},
	}
}

func TestEventLifecycle(t *testing.T) {
	e := openTestDB(t)

	ev := makeTestEvent("pool-1", "pool-1/frame_0042.jpg")
	require.NoError(t, e.Create(ev))
	require.NotEmpty(t, ev.EventID)
	require.Equal(t, StatusOpen, ev.Status)

	fetched, err := e.GetEvent(ev.EventID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Equal(t, ev.EventID, fetched.EventID)
	require.Equal(t, 3, fetched.Baseline)
	require.Len(t, fetched.MissingBoxes, 1)
	require.InDelta(t, 0.6, fetched.MissingBoxes[0].Box.Left, 1e-5)

	// Close it 90 seconds later
	closedAt := fetched.CreatedAt.Get().Add(90 * time.Second)
	closed, err := e.CloseEvent(ev.EventID, closedAt)
	require.NoError(t, err)
	require.NotNil(t, closed)
	require.Equal(t, StatusClosed, closed.Status)
	require.Equal(t, int64(90), closed.ResponseSeconds)

	// Closing again is a no-op and preserves the original response time
	closed2, err := e.CloseEvent(ev.EventID, closedAt.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(90), closed2.ResponseSeconds)
	require.Equal(t, closed.ClosedAt, closed2.ClosedAt)

	// Unknown events: nil, not an error
	missing, err := e.GetEvent("EVT-0-nope")
	require.NoError(t, err)
	require.Nil(t, missing)
	missing, err = e.CloseEvent("EVT-0-nope", time.Now())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestListEvents(t *testing.T) {
	e := openTestDB(t)

	ev1 := makeTestEvent("pool-1", "pool-1/frame_0042.jpg")
	ev1.CreatedAt = dbh.MakeIntTime(time.Now().Add(-2 * time.Hour))
	require.NoError(t, e.Create(ev1))

	ev2 := makeTestEvent("pool-1", "pool-1/frame_0099.jpg")
	ev2.CreatedAt = dbh.MakeIntTime(time.Now().Add(-1 * time.Hour))
	require.NoError(t, e.Create(ev2))

	ev3 := makeTestEvent("pool-2", "pool-2/frame_0007.jpg")
	require.NoError(t, e.Create(ev3))

	_, err := e.CloseEvent(ev1.EventID, time.Now())
	require.NoError(t, err)

	// Newest first, all sessions
	all, err := e.ListEvents("", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, ev3.EventID, all[0].EventID)
	require.Equal(t, ev1.EventID, all[2].EventID)

	// Session filter
	pool1, err := e.ListEvents("pool-1", "", 0)
	require.NoError(t, err)
	require.Len(t, pool1, 2)

	// Status filter
	open, err := e.ListEvents("", StatusOpen, 0)
	require.NoError(t, err)
	require.Len(t, open, 2)

	// Limit
	limited, err := e.ListEvents("", "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, ev3.EventID, limited[0].EventID)
}

func TestMakeEventID(t *testing.T) {
	at := time.Unix(1756304000, 0)
	require.Equal(t, "EVT-1756304000-frame_0042", MakeEventID(at, "pool-1/frame_0042.jpg"))
}
