package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"unibase/internal/env"
	"unibase/internal/logger"
)

// ErrBlobNotFound marks lookups of ids that were never stored (or already
// removed) under the caller's prefix.
var ErrBlobNotFound = errors.New("blob not found")

const presignTTL = 15 * time.Minute

// BlobStore is an S3-compatible object store. Each owner gets a key prefix
// of their own; retrieval happens through presigned, time-limited URLs so
// blob bytes never flow through the API process on download.
type BlobStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewBlobStore(ctx context.Context) (*BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(env.S3_REGION),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(env.S3_ACCESS_KEY, env.S3_SECRET_KEY, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoint plus path-style addressing covers MinIO and
		// other S3-compatible services.
		o.BaseEndpoint = aws.String(env.S3_ENDPOINT)
		o.UsePathStyle = true
	})

	b := &BlobStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  env.S3_BUCKET,
	}

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	}); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *BlobStore) key(ownerID string, fileID string) string {
	return "users/" + ownerID + "/" + fileID
}

// Put streams the blob into the store. A failed upload removes whatever was
// written so the id never becomes retrievable.
func (b *BlobStore) Put(
	ctx context.Context,
	ownerID string,
	fileID string,
	body io.Reader,
	size int64,
	contentType string,
) error {
	key := b.key(ownerID, fileID)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		if _, derr := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(key),
		}); derr != nil {
			logger.Sugar.Warnw("partial blob cleanup failed", "key", key, "error", derr)
		}
		return err
	}

	return nil
}

// PresignGet returns a time-limited URL for the blob, or ErrBlobNotFound if
// nothing lives under the owner's prefix with that id.
func (b *BlobStore) PresignGet(ctx context.Context, ownerID string, fileID string) (string, error) {
	key := b.key(ownerID, fileID)

	if _, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return "", ErrBlobNotFound
	}

	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (b *BlobStore) Remove(ctx context.Context, ownerID string, fileID string) error {
	key := b.key(ownerID, fileID)

	if _, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return ErrBlobNotFound
	}

	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})

	return err
}
