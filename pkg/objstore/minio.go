// Package objstore wraps the MinIO client behind the few operations the
// upload path needs: put, stream back, and remove.
package objstore

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Store struct {
	client *minio.Client
	bucket string
}

// Connect dials MinIO and makes sure the bucket exists.
func Connect(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	log.Printf("[OK] Connected to object storage, bucket %q", bucket)
	return &Store{client: client, bucket: bucket}, nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %q: %w", key, err)
	}
	return nil
}

// Get returns the object stream plus its content type. The caller owns the
// returned ReadCloser.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch object %q: %w", key, err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, "", fmt.Errorf("failed to stat object %q: %w", key, err)
	}
	return obj, stat.ContentType, nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}

// RemoveAll deletes every key, logging rather than failing on individual
// misses; it backs cleanup-on-reject, where the row was never written.
func (s *Store) RemoveAll(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil {
			log.Printf("[WARN] cleanup failed for %q: %v", key, err)
		}
	}
}
