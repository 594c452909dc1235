package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

// FileStorage stores attendance selfies and payroll archives by slash
// separated key, for example "attendance/2026-03-10/<user>-in.jpg".
type FileStorage interface {
	// Upload writes file under key and returns the normalized key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, key string) error

	// GetURL returns a URL clients can fetch key from. expiry only applies
	// to backends that presign.
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, key string) (bool, error)
}
