package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/stretchr/testify/require"
)

func TestStorageFSRoundtrip(t *testing.T) {
	s, err := NewStorageFS(log.NewTestingLog(t), t.TempDir())
	require.NoError(t, err)

	require.NoError(t, WriteFile(s, "pool-1/frame_001.jpg", bytes.NewReader([]byte("hello"))))
	data, err := ReadFile(s, "pool-1/frame_001.jpg")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	_, err = s.ReadFile("pool-1/nope.jpg")
	require.Error(t, err)

	_, err = s.ReadFile("../escape.jpg")
	require.Error(t, err)

	_, err = s.URL("pool-1/frame_001.jpg")
	require.ErrorIs(t, err, ErrNoPublicUrl)

	require.NoError(t, s.DeleteFile("pool-1/frame_001.jpg"))
	_, err = s.ReadFile("pool-1/frame_001.jpg")
	require.Error(t, err)
}

func TestListFrames(t *testing.T) {
	root := t.TempDir()
	s, err := NewStorageFS(log.NewTestingLog(t), root)
	require.NoError(t, err)

	// Write frames with deliberately shuffled modification times, plus files
	// that ListFrames must ignore.
	write := func(key string, modifiedAt time.Time) {
		require.NoError(t, WriteFile(s, key, bytes.NewReader([]byte("x"))))
		require.NoError(t, os.Chtimes(filepath.Join(root, key), modifiedAt, modifiedAt))
	}
	base := time.Now().Add(-time.Hour)
	write("pool-1/frame_b.jpg", base.Add(2*time.Minute))
	write("pool-1/frame_a.jpg", base.Add(1*time.Minute))
	write("pool-1/frame_c.png", base.Add(3*time.Minute))
	write("pool-1/notes.txt", base)
	write("pool-2/frame_z.jpg", base)

	frames, err := ListFrames(s, "pool-1/", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"pool-1/frame_a.jpg", "pool-1/frame_b.jpg", "pool-1/frame_c.png"}, frames)

	// maxFrames keeps the newest, still ordered oldest first
	frames, err = ListFrames(s, "pool-1/", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"pool-1/frame_b.jpg", "pool-1/frame_c.png"}, frames)
}

func TestBasename(t *testing.T) {
	require.Equal(t, "frame_001", Basename("pool-1/frame_001.jpg"))
	require.Equal(t, "frame_001", Basename("frame_001.png"))
	require.Equal(t, "frame_001", Basename("frame_001"))
}
