package storage

import (
	"path"
	"sort"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImageKey is true if the key looks like a frame we can decode.
func IsImageKey(key string) bool {
	return imageExtensions[strings.ToLower(path.Ext(key))]
}

// Basename strips the directory and extension from a key, leaving the frame's
// bare name. This is the stem that evidence images and event ids are built on.
func Basename(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ListFrames returns the image keys under prefix, oldest first by modification
// time. Capture pipelines upload frames as they happen, so modification time
// is our proxy for capture order. If maxFrames > 0 and the prefix holds more,
// only the newest maxFrames are returned (still oldest first).
func ListFrames(s Storage, prefix string, maxFrames int) ([]string, error) {
	files, err := s.ListFiles(prefix)
	if err != nil {
		return nil, err
	}
	frames := []FileInfo{}
	for _, f := range files {
		if IsImageKey(f.Key) {
			frames = append(frames, f)
		}
	}
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].ModifiedAt.Before(frames[j].ModifiedAt)
	})
	if maxFrames > 0 && len(frames) > maxFrames {
		frames = frames[len(frames)-maxFrames:]
	}
	keys := make([]string, 0, len(frames))
	for _, f := range frames {
		keys = append(keys, f.Key)
	}
	return keys, nil
}
