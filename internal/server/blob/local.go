package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/usersapp/internal/filex"
)

// LocalStore keeps the document in a file on local disk.
type LocalStore struct {
	path string
}

func NewLocalStore(path string) *LocalStore {
	if path == "" {
		path = "users.json"
	}
	return &LocalStore{path: path}
}

func (s *LocalStore) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

func (s *LocalStore) Write(ctx context.Context, data []byte) error {
	return filex.ReplaceFile(s.path, data, 0o600)
}

func (s *LocalStore) Location() string {
	return s.path
}
