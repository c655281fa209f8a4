package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usersapp/internal/logging"
	"github.com/dmitrijs2005/usersapp/internal/server/blob"
	"github.com/dmitrijs2005/usersapp/internal/server/models"
)

// FileRepository keeps every user in one JSON array document. Each call
// reads the whole document and every mutation rewrites it in full; there is
// no locking, so concurrent writers can silently lose updates.
type FileRepository struct {
	listRepository
}

func NewFileRepository(store blob.Store, l logging.Logger) *FileRepository {
	return &FileRepository{listRepository{store: &fileStore{blob: store, logger: l}}}
}

type fileStore struct {
	blob   blob.Store
	logger logging.Logger
}

// load treats a missing, empty or malformed document as an empty store.
func (s *fileStore) load(ctx context.Context) ([]models.User, error) {
	data, err := s.blob.Read(ctx)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("load users: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn(ctx, "malformed users document, treating as empty",
			"location", s.blob.Location(), "error", err.Error())
		return []models.User{}, nil
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *fileStore) save(ctx context.Context, users []models.User) error {
	data, err := encodeUsers(users)
	if err != nil {
		return err
	}
	if err := s.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// encodeUsers renders the document: a UTF-8 JSON array indented by two
// spaces, with non-ASCII and HTML characters left as is.
func encodeUsers(users []models.User) ([]byte, error) {
	if users == nil {
		users = []models.User{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(users); err != nil {
		return nil, fmt.Errorf("encode users: %w", err)
	}
	return buf.Bytes(), nil
}
