package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
)

// ErrThemeNotFound indicates that a show theme was not located in the DB.
var ErrThemeNotFound = errors.New("theme not found")

// ErrThemeExists indicates a theme with the same name already exists.
// Theme names carry a unique key in the schema.
var ErrThemeExists = errors.New("theme already exists")

// ThemeRepo manages persistence for show themes.
type ThemeRepo struct {
	db *sql.DB
}

// NewThemeRepo constructs a ThemeRepo with the given DB handle.
func NewThemeRepo(db *sql.DB) *ThemeRepo {
	return &ThemeRepo{db: db}
}

// Create inserts a new theme.  The unique key on name maps duplicate
// inserts to ErrThemeExists.
func (r *ThemeRepo) Create(ctx context.Context, t *model.Theme) error {
	const q = `INSERT INTO show_themes (name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, q, t.Name)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrThemeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a theme by its ID.
func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (*model.Theme, error) {
	const q = `SELECT id, name FROM show_themes WHERE id = ?`
	var t model.Theme
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all themes ordered case-insensitively by name.
func (r *ThemeRepo) List(ctx context.Context) ([]model.Theme, error) {
	const q = `SELECT id, name FROM show_themes ORDER BY LOWER(name)`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Theme, 0)
	for rows.Next() {
		var t model.Theme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames a theme.  Returns ErrThemeNotFound when the theme
// does not exist and ErrThemeExists on a name collision.
func (r *ThemeRepo) Update(ctx context.Context, id uint64, name string) error {
	const q = `UPDATE show_themes SET name = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrThemeExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "renamed to the same value".
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a theme.  Links from shows to the theme are removed
// by cascade; the shows themselves are untouched.
func (r *ThemeRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM show_themes WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrThemeNotFound
	}
	return nil
}
