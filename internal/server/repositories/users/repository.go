// Package users holds the user repository contract and its three storage
// variants: a JSON document (FileRepository), the client's session
// (SessionRepository) and a relational table (SQLRepository).
package users

import (
	"context"

	"github.com/dmitrijs2005/usersapp/internal/server/models"
)

// Repository is the storage contract shared by every backend.
//
// Get returns (nil, nil) when the id is unknown. Update and Delete are
// no-ops for unknown ids.
type Repository interface {
	All(ctx context.Context, term string) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Add(ctx context.Context, user models.User) error
	Update(ctx context.Context, id string, patch models.UserPatch) error
	Delete(ctx context.Context, id string) error
	// Import adds many users in one step.
	Import(ctx context.Context, users []models.User) error
	Close() error
}

// listStore is a whole-list load/save pair. FileRepository and
// SessionRepository only differ in where the list lives.
type listStore interface {
	load(ctx context.Context) ([]models.User, error)
	save(ctx context.Context, users []models.User) error
}

// listRepository implements Repository as read-modify-write over a
// listStore. Nothing serialises concurrent callers: two overlapping
// mutations both read the old list and the later save wins.
type listRepository struct {
	store listStore
}

func (r listRepository) All(ctx context.Context, term string) ([]models.User, error) {
	users, err := r.store.load(ctx)
	if err != nil {
		return nil, err
	}
	return models.FilterUsers(users, term), nil
}

func (r listRepository) Get(ctx context.Context, id string) (*models.User, error) {
	users, err := r.store.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r listRepository) Add(ctx context.Context, user models.User) error {
	return r.Import(ctx, []models.User{user})
}

func (r listRepository) Import(ctx context.Context, batch []models.User) error {
	users, err := r.store.load(ctx)
	if err != nil {
		return err
	}
	return r.store.save(ctx, append(users, batch...))
}

func (r listRepository) Update(ctx context.Context, id string, patch models.UserPatch) error {
	users, err := r.store.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			patch.Apply(&users[i])
			break
		}
	}
	return r.store.save(ctx, users)
}

func (r listRepository) Delete(ctx context.Context, id string) error {
	users, err := r.store.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return r.store.save(ctx, kept)
}

func (r listRepository) Close() error {
	return nil
}
