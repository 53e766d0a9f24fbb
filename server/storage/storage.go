package storage

import (
	"errors"
	"io"
	"time"
)

var (
	ErrNoPublicUrl    = errors.New("This storage system has no public URL")
	ErrNotAFilesystem = errors.New("This storage system is not a filesystem")
)

// Storage is an abstraction of a blob store (eg GCS, or a local directory).
// Frames land here from the capture side, and we write annotated evidence
// images back.
type Storage interface {
	// When finished, you must close the WriteCloser
	WriteFile(name string) (io.WriteCloser, error)

	// When finished, you must close File.Reader
	ReadFile(name string) (*File, error)

	DeleteFile(name string) error

	// ListFiles returns every file whose name starts with prefix
	ListFiles(prefix string) ([]FileInfo, error)

	// URL returns a link suitable for handing to an external viewer
	// (public or time-limited signed, depending on the backend).
	// Filesystem stores return ErrNoPublicUrl.
	URL(name string) (string, error)
}

// File is an element in blob storage.
type File struct {
	Reader     io.ReadCloser
	ModifiedAt time.Time
	Size       int64
}

// FileInfo describes a file without opening it.
type FileInfo struct {
	Key        string
	ModifiedAt time.Time
	Size       int64
}

func WriteFile(s Storage, name string, content io.Reader) error {
	f, err := s.WriteFile(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, content)
	errClose := f.Close()
	if err != nil {
		return err
	}
	return errClose
}

func ReadFile(s Storage, name string) ([]byte, error) {
	f, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Reader.Close()
	return io.ReadAll(f.Reader)
}
