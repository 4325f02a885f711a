// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danielhkuo/edition-drop/cliparse"
)

// ErrUnavailable means the downloadable file cannot be read right now.
var ErrUnavailable = errors.New("download file unavailable")

// Object is an opened download file. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64 // -1 when unknown
	ContentType string
	ModTime     time.Time
}

// Source yields the file that every redeemed link downloads.
type Source interface {
	Open(ctx context.Context) (*Object, error)
	// Describe names the file for logs.
	Describe() string
}

// New builds the Source selected by the configuration.
func New(ctx context.Context, cfg cliparse.Config) (Source, error) {
	switch cfg.StorageBackend {
	case cliparse.StorageLocal:
		return NewLocalFile(cfg.DownloadFile), nil
	case cliparse.StorageS3:
		return NewS3Object(ctx, S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Key:       cfg.DownloadFile,
		})
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
}

// Check opens and closes the source once so misconfiguration shows up at
// startup instead of on the first download.
func Check(ctx context.Context, src Source) (*Object, error) {
	obj, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	_ = obj.Body.Close()
	obj.Body = nil
	return obj, nil
}
