// This file defines persistence for astronomy shows, including the
// many-to-many link to themes and the catalog filters (theme-id
// membership and case-insensitive title substring) that the listing
// endpoints depend on.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for astronomy shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB for multi-repository transactions.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// ShowDetail is a show together with its resolved themes.  It is the
// shape returned to clients by list and detail endpoints.
type ShowDetail struct {
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Themes      []model.Theme `json:"themes"`
	Image       *string       `json:"image"`
}

// ShowFilter narrows List results.  ThemeIDs selects shows linked to
// any of the given themes; Title matches a case-insensitive substring.
type ShowFilter struct {
	ThemeIDs []uint64
	Title    string
}

// Create inserts a show and its theme links inside one transaction.
// At least one theme is required; a dangling theme ID surfaces as
// ErrThemeNotFound via the foreign key.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show, themeIDs []uint64) error {
	if len(themeIDs) == 0 {
		return ErrThemeNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO astronomy_shows (title, description) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Title, s.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	if err := insertThemeLinks(ctx, tx, s.ID, themeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertThemeLinks bulk-inserts show->theme rows within a transaction.
func insertThemeLinks(ctx context.Context, tx *sql.Tx, showID uint64, themeIDs []uint64) error {
	query := `INSERT INTO show_theme_links (show_id, theme_id) VALUES `
	args := make([]interface{}, 0, len(themeIDs)*2)
	for i, tid := range themeIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, showID, tid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil && isForeignKeyViolation(err) {
		return ErrThemeNotFound
	}
	return err
}

// GetDetail returns a show with its themes resolved, ordered
// case-insensitively by theme name.
func (r *ShowRepo) GetDetail(ctx context.Context, id uint64) (*ShowDetail, error) {
	const q = `SELECT id, title, description, image FROM astronomy_shows WHERE id = ?`
	var d ShowDetail
	var img sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Title, &d.Description, &img)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if img.Valid {
		v := img.String
		d.Image = &v
	}
	d.Themes = []model.Theme{}
	const themeQ = `SELECT t.id, t.name
	                FROM show_theme_links l
	                JOIN show_themes t ON t.id = l.theme_id
	                WHERE l.show_id = ?
	                ORDER BY LOWER(t.name)`
	rows, err := r.db.QueryContext(ctx, themeQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Theme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		d.Themes = append(d.Themes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns shows matching the filter, ordered case-insensitively
// by title.  Themes are resolved with a second query over all matched
// shows rather than per row.
func (r *ShowRepo) List(ctx context.Context, f ShowFilter) ([]ShowDetail, error) {
	where := []string{}
	args := []any{}
	if f.Title != "" {
		where = append(where, "LOWER(s.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}
	if len(f.ThemeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.ThemeIDs)), ",")
		where = append(where,
			"s.id IN (SELECT show_id FROM show_theme_links WHERE theme_id IN ("+placeholders+"))")
		for _, tid := range f.ThemeIDs {
			args = append(args, tid)
		}
	}
	query := `SELECT s.id, s.title, s.description, s.image FROM astronomy_shows s`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY LOWER(s.title)"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ShowDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ShowDetail
		var img sql.NullString
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &img); err != nil {
			return nil, err
		}
		if img.Valid {
			v := img.String
			d.Image = &v
		}
		d.Themes = []model.Theme{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Resolve themes for all matched shows in one query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	themeQuery := `SELECT l.show_id, t.id, t.name
	               FROM show_theme_links l
	               JOIN show_themes t ON t.id = l.theme_id
	               WHERE l.show_id IN (` + strings.Join(placeholders, ",") + `)
	               ORDER BY l.show_id, LOWER(t.name)`
	trows, err := r.db.QueryContext(ctx, themeQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var showID uint64
		var t model.Theme
		if err := trows.Scan(&showID, &t.ID, &t.Name); err != nil {
			return nil, err
		}
		if idx, ok := index[showID]; ok {
			details[idx].Themes = append(details[idx].Themes, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// Update applies the provided non-nil fields.  When themeIDs is
// non-nil the theme links are replaced wholesale inside the same
// transaction; an empty replacement list is rejected because every
// show must keep at least one theme.
func (r *ShowRepo) Update(ctx context.Context, id uint64, title, description *string, themeIDs *[]uint64) error {
	if themeIDs != nil && len(*themeIDs) == 0 {
		return ErrThemeNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var curTitle, curDesc string
	const sel = `SELECT title, description FROM astronomy_shows WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, id).Scan(&curTitle, &curDesc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	if title != nil && *title != "" {
		curTitle = *title
	}
	if description != nil {
		curDesc = *description
	}
	const upd = `UPDATE astronomy_shows SET title = ?, description = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, curTitle, curDesc, id); err != nil {
		return err
	}
	if themeIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM show_theme_links WHERE show_id = ?`, id); err != nil {
			return err
		}
		if err := insertThemeLinks(ctx, tx, id, *themeIDs); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SetImage stores the relative artwork path for a show and returns
// the previous path, if any, so the caller can remove the old file.
func (r *ShowRepo) SetImage(ctx context.Context, id uint64, path string) (*string, error) {
	var prev sql.NullString
	const sel = `SELECT image FROM astronomy_shows WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, id).Scan(&prev); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	const upd = `UPDATE astronomy_shows SET image = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, upd, path, id); err != nil {
		return nil, err
	}
	if prev.Valid {
		v := prev.String
		return &v, nil
	}
	return nil, nil
}

// Delete removes a show.  Sessions of the show and their tickets are
// removed by cascade.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM astronomy_shows WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShowNotFound
	}
	return nil
}

