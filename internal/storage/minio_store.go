package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"modelhub/internal/config"
)

// MinioStore implements BlobStore on a single MinIO (or S3-compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore initializes a MinIO client, ensures the bucket exists and
// returns a BlobStore backed by it.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, err
	}
	// Ensure the bucket exists (create if not present)
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: ""}); err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.MinioBucket).Msg("created bucket")
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

// Put writes the blob under namespace/filename and returns that reference.
func (s *MinioStore) Put(ctx context.Context, namespace, filename string, r io.Reader, size int64) (string, error) {
	ref := Ref(namespace, filename)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, ref, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s", ref)
	}
	return ref, nil
}

// Get opens the blob for reading.
func (s *MinioStore) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve %s", ref)
	}
	// GetObject is lazy; surface missing objects here rather than on first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, errors.Wrapf(err, "failed to stat %s", ref)
	}
	return obj, nil
}

// Delete removes the blob if present, reporting whether it existed.
func (s *MinioStore) Delete(ctx context.Context, ref string) (bool, error) {
	exists, err := s.Exists(ctx, ref)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return true, errors.Wrapf(err, "failed to remove %s", ref)
	}
	return true, nil
}

// Exists reports whether the reference resolves to a stored object.
func (s *MinioStore) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, ref, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
