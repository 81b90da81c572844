// Package archive keeps the raw bytes of uploaded documents in an
// S3-compatible object store.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver stores and retrieves raw uploads.
type Archiver interface {
	Store(ctx context.Context, docID, filename string, data []byte) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, docID string) error
}

// Settings configure the MinIO connection.
type Settings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Minio stores uploads under <docID>/<filename>.
type Minio struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

// NewMinio connects and creates the bucket when missing.
func NewMinio(ctx context.Context, s Settings, log *slog.Logger) (*Minio, error) {
	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseSSL,
		Region: s.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", s.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{Region: s.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", s.Bucket, err)
		}
		log.Info("created archive bucket", "bucket", s.Bucket)
	}

	return &Minio{client: client, bucket: s.Bucket, log: log}, nil
}

// Key returns the object key for an upload.
func Key(docID, filename string) string {
	return docID + "/" + path.Base(filename)
}

func (m *Minio) Store(ctx context.Context, docID, filename string, data []byte) (string, error) {
	key := Key(docID, filename)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	return key, nil
}

func (m *Minio) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("archive get %s: %w", key, err)
	}
	return obj, nil
}

// Delete removes every object stored for docID.
func (m *Minio) Delete(ctx context.Context, docID string) error {
	objects := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: docID + "/", Recursive: true})
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("archive list %s: %w", docID, obj.Err)
		}
		if err := m.client.RemoveObject(ctx, m.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("archive delete %s: %w", obj.Key, err)
		}
		m.log.Debug("deleted archived upload", "key", obj.Key)
	}
	return nil
}
