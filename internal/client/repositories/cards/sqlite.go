package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/dbx"
)

// SQLiteRepository implements Repository over a dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `id, owner_identity, created_at, image_reference, theme, alignment,
	display_name, is_public, is_active, save_count, schema_version`

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner, extra ...any) (*models.Card, error) {
	var (
		c         models.Card
		createdAt string
		active    sql.NullBool
	)
	dest := append([]any{&c.ID, &c.OwnerIdentity, &createdAt, &c.ImageReference, &c.Theme, &c.Alignment,
		&c.DisplayName, &c.IsPublic, &active, &c.SaveCount, &c.SchemaVersion}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	c.CreatedAt = ts
	// NULL predates soft delete.
	c.IsActive = !active.Valid || active.Bool
	return &c, nil
}

func (r *SQLiteRepository) list(ctx context.Context, op, where string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM cards `+where, args...)
	if err != nil {
		return nil, dbx.Unavailable(op, err)
	}
	defer rows.Close()

	var result []*models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, dbx.Unavailable(op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Unavailable(op, err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.Unavailable("get card", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Card, error) {
	return r.list(ctx, "list cards", `ORDER BY created_at DESC, id DESC`)
}

func (r *SQLiteRepository) GetByOwner(ctx context.Context, owner string) ([]*models.Card, error) {
	return r.list(ctx, "list cards by owner", `WHERE owner_identity = ? ORDER BY created_at DESC, id DESC`, owner)
}

const upsert = `INSERT INTO cards (id, owner_identity, created_at, image_reference, theme, alignment,
		display_name, is_public, is_active, save_count, schema_version, pending, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
		owner_identity = excluded.owner_identity,
		created_at = excluded.created_at,
		image_reference = excluded.image_reference,
		theme = excluded.theme,
		alignment = excluded.alignment,
		display_name = excluded.display_name,
		is_public = excluded.is_public,
		is_active = excluded.is_active,
		save_count = excluded.save_count,
		schema_version = excluded.schema_version,
		pending = excluded.pending,
		updated_at = excluded.updated_at`

func cardArgs(c *models.Card, pending int64) []any {
	return []any{c.ID, c.OwnerIdentity, c.CreatedAt.UTC().Format(timeLayout), c.ImageReference,
		string(c.Theme), string(c.Alignment), c.DisplayName, c.IsPublic, c.IsActive, c.SaveCount,
		models.CurrentSchemaVersion, pending}
}

func (r *SQLiteRepository) Put(ctx context.Context, c *models.Card) (int64, error) {
	rev := dbx.NextRevision()
	if _, err := r.db.ExecContext(ctx, upsert, cardArgs(c, rev)...); err != nil {
		return 0, dbx.Unavailable("put card", err)
	}
	return rev, nil
}

func (r *SQLiteRepository) Refresh(ctx context.Context, c *models.Card) (bool, error) {
	query := upsert + `
	WHERE cards.pending = 0 AND (
		cards.image_reference IS NOT excluded.image_reference OR
		cards.display_name IS NOT excluded.display_name OR
		cards.is_public IS NOT excluded.is_public OR
		cards.is_active IS NOT excluded.is_active OR
		cards.save_count IS NOT excluded.save_count OR
		cards.schema_version IS NOT excluded.schema_version OR
		cards.owner_identity IS NOT excluded.owner_identity OR
		cards.theme IS NOT excluded.theme OR
		cards.alignment IS NOT excluded.alignment)`
	res, err := r.db.ExecContext(ctx, query, cardArgs(c, 0)...)
	if err != nil {
		return false, dbx.Unavailable("refresh card", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.Unavailable("refresh card", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, revision int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE cards SET pending = 0 WHERE id = ? AND pending = ?`, id, revision); err != nil {
		return dbx.Unavailable("mark card synced", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]Pending, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+`, pending FROM cards WHERE pending <> 0 ORDER BY created_at`)
	if err != nil {
		return nil, dbx.Unavailable("list pending cards", err)
	}
	defer rows.Close()

	var result []Pending
	for rows.Next() {
		var rev int64
		c, err := scanCard(rows, &rev)
		if err != nil {
			return nil, dbx.Unavailable("list pending cards", err)
		}
		result = append(result, Pending{Card: c, Revision: rev})
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Unavailable("list pending cards", err)
	}
	return result, nil
}

// touchAttempts bounds the compare-and-swap loop in touch.
const touchAttempts = 3

var errContended = errors.New("pending revision kept changing")

// touch applies set to an existing row and flags it pending with a fresh
// revision. The swap only lands on the pending value it read, so the
// returned Previous is exactly what the write replaced.
func (r *SQLiteRepository) touch(ctx context.Context, op, set, id string, args ...any) (Change, error) {
	for attempt := 0; attempt < touchAttempts; attempt++ {
		var prev int64
		err := r.db.QueryRowContext(ctx, `SELECT pending FROM cards WHERE id = ?`, id).Scan(&prev)
		if errors.Is(err, sql.ErrNoRows) {
			return Change{}, nil
		}
		if err != nil {
			return Change{}, dbx.Unavailable(op, err)
		}

		rev := dbx.NextRevision()
		q := `UPDATE cards SET ` + set + `, pending = ?, schema_version = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND pending = ?`
		res, err := r.db.ExecContext(ctx, q, append(args, rev, models.CurrentSchemaVersion, id, prev)...)
		if err != nil {
			return Change{}, dbx.Unavailable(op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return Change{}, dbx.Unavailable(op, err)
		}
		if n > 0 {
			return Change{Revision: rev, Previous: prev}, nil
		}
	}
	return Change{}, dbx.Unavailable(op, errContended)
}

func (r *SQLiteRepository) SetVisibility(ctx context.Context, id string, public bool) (Change, error) {
	return r.touch(ctx, "set card visibility", `is_public = ?`, id, public)
}

func (r *SQLiteRepository) Deactivate(ctx context.Context, id string) (Change, error) {
	return r.touch(ctx, "deactivate card", `is_active = 0`, id)
}

func (r *SQLiteRepository) DeactivateMissing(ctx context.Context, owner string, keep []string) (int64, error) {
	query := `UPDATE cards SET is_active = 0, schema_version = ?, updated_at = CURRENT_TIMESTAMP
		WHERE owner_identity = ? AND pending = 0 AND (is_active = 1 OR is_active IS NULL)`
	args := []any{models.CurrentSchemaVersion, owner}
	if len(keep) > 0 {
		query += ` AND id NOT IN (` + strings.TrimSuffix(strings.Repeat("?,", len(keep)), ",") + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbx.Unavailable("deactivate missing cards", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.Unavailable("deactivate missing cards", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
		return dbx.Unavailable("delete card", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return dbx.Unavailable("clear cards", err)
	}
	return nil
}
