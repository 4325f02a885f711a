// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates the download file in an S3-compatible bucket.
type S3Config struct {
	Endpoint  string // "minio:9000" or "https://s3.example.com"
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
}

// S3Object serves the download file from MinIO or any S3-compatible store.
type S3Object struct {
	client *minio.Client
	bucket string
	key    string
}

// NewS3Object connects to the endpoint and checks that the bucket exists.
func NewS3Object(ctx context.Context, cfg S3Config) (*S3Object, error) {
	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket does not exist: %s", cfg.Bucket)
	}

	return &S3Object{client: client, bucket: cfg.Bucket, key: strings.TrimPrefix(cfg.Key, "/")}, nil
}

func (o *S3Object) Describe() string {
	return "s3://" + o.bucket + "/" + o.key
}

// Open starts streaming the object. Stat forces the request so a missing
// object fails here rather than mid-response.
func (o *S3Object) Open(ctx context.Context) (*Object, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, o.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Object{
		Body:        obj,
		Size:        info.Size,
		ContentType: contentType,
		ModTime:     info.LastModified,
	}, nil
}

// normaliseEndpoint accepts either "host:port" or a URL with scheme and
// returns the host and whether TLS is used.
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// No scheme: plain host:port, insecure like a local MinIO.
	return raw, false, nil
}
