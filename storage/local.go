// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// LocalFile serves a file from the local filesystem.
type LocalFile struct {
	path string
}

func NewLocalFile(path string) *LocalFile {
	return &LocalFile{path: path}
}

func (f *LocalFile) Describe() string {
	return "file://" + f.path
}

// Open opens the file for one download. Directories count as unavailable.
func (f *LocalFile) Open(_ context.Context) (*Object, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnavailable, f.path)
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Object{
		Body:        file,
		Size:        info.Size(),
		ContentType: contentType,
		ModTime:     info.ModTime(),
	}, nil
}
