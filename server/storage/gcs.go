package storage

import (
	"context"
	"io"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"google.golang.org/api/iterator"
)

// StorageGCS is a Google Cloud Storage-based blob store
type StorageGCS struct {
	bucketName string
	bucket     *gcs.BucketHandle
	isPublic   bool
	urlExpiry  time.Duration
	log        log.Log
}

// NewStorageGCS connects to the named bucket. If isPublic is false, URL()
// returns signed URLs valid for urlExpiry.
func NewStorageGCS(log log.Log, bucketName string, isPublic bool, urlExpiry time.Duration) (*StorageGCS, error) {
	ctx := context.Background()
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	bucket := client.Bucket(bucketName)
	return &StorageGCS{
		bucketName: bucketName,
		bucket:     bucket,
		isPublic:   isPublic,
		urlExpiry:  urlExpiry,
		log:        log,
	}, nil
}

func (s *StorageGCS) WriteFile(name string) (io.WriteCloser, error) {
	ctx := context.Background()
	w := s.bucket.Object(name).NewWriter(ctx)
	return w, nil
}

func (s *StorageGCS) ReadFile(name string) (*File, error) {
	ctx := context.Background()
	r, err := s.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return &File{
		Reader:     r,
		ModifiedAt: r.Attrs.LastModified,
		Size:       r.Attrs.Size,
	}, nil
}

func (s *StorageGCS) DeleteFile(name string) error {
	ctx := context.Background()
	return s.bucket.Object(name).Delete(ctx)
}

func (s *StorageGCS) ListFiles(prefix string) ([]FileInfo, error) {
	ctx := context.Background()
	files := []FileInfo{}
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		files = append(files, FileInfo{
			Key:        attrs.Name,
			ModifiedAt: attrs.Updated,
			Size:       attrs.Size,
		})
	}
	return files, nil
}

func (s *StorageGCS) URL(name string) (string, error) {
	if s.isPublic {
		return "https://storage.googleapis.com/" + s.bucketName + "/" + name, nil
	}
	return s.bucket.SignedURL(name, &gcs.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(s.urlExpiry),
	})
}
