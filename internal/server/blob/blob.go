// Package blob stores a single document on durable storage: a local file or
// an object in an S3-compatible bucket. Reads and writes always move the
// whole document.
package blob

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when the document has never been written.
var ErrNotExist = errors.New("blob does not exist")

type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	// Location describes where the document lives, for logs.
	Location() string
}
