package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usersapp/internal/dbx"
	"github.com/dmitrijs2005/usersapp/internal/server/models"
)

// Dialect holds the statements that differ between database engines.
type Dialect struct {
	Name   string
	all    string
	search string
	get    string
	insert string
	update string
	delete string
}

var (
	Postgres = Dialect{
		Name:   "postgres",
		all:    `SELECT id, name, email FROM users ORDER BY name, id`,
		search: `SELECT id, name, email FROM users WHERE name ILIKE $1 ESCAPE '\' ORDER BY name, id`,
		get:    `SELECT id, name, email FROM users WHERE id = $1`,
		insert: `INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`,
		update: `UPDATE users SET name = COALESCE($1, name), email = COALESCE($2, email) WHERE id = $3`,
		delete: `DELETE FROM users WHERE id = $1`,
	}

	SQLite = Dialect{
		Name:   "sqlite",
		all:    `SELECT id, name, email FROM users ORDER BY name, id`,
		search: `SELECT id, name, email FROM users WHERE ufold(name) LIKE ufold(?) ESCAPE '\' ORDER BY name, id`,
		get:    `SELECT id, name, email FROM users WHERE id = ?`,
		insert: `INSERT INTO users (id, name, email) VALUES (?, ?, ?)`,
		update: `UPDATE users SET name = COALESCE(?, name), email = COALESCE(?, email) WHERE id = ?`,
		delete: `DELETE FROM users WHERE id = ?`,
	}
)

// SQLRepository stores users in a relational table. It owns db and
// closes it in Close.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLRepository(db *sql.DB, d Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: d}
}

func (r *SQLRepository) All(ctx context.Context, term string) ([]models.User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if term == "" {
		rows, err = r.db.QueryContext(ctx, r.dialect.all)
	} else {
		rows, err = r.db.QueryContext(ctx, r.dialect.search, likePattern(term))
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, r.dialect.get, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SQLRepository) Add(ctx context.Context, user models.User) error {
	return insertUser(ctx, r.db, r.dialect, user)
}

// Import inserts all users in one transaction.
func (r *SQLRepository) Import(ctx context.Context, batch []models.User) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, u := range batch {
			if err := insertUser(ctx, tx, r.dialect, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLRepository) Update(ctx context.Context, id string, patch models.UserPatch) error {
	if patch.Empty() {
		return nil
	}
	_, err := r.db.ExecContext(ctx, r.dialect.update, nullable(patch.Name), nullable(patch.Email), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.delete, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func insertUser(ctx context.Context, db dbx.DBTX, d Dialect, u models.User) error {
	if _, err := db.ExecContext(ctx, d.insert, u.ID, u.Name, u.Email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a "contains" pattern with LIKE wildcards in term
// matched literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
