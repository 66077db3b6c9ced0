package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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

const selectColumns = `identity, display_name, portrait_reference, strengths, story, schema_version`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u         models.User
		strengths string
	)
	if err := row.Scan(&u.Identity, &u.DisplayName, &u.PortraitReference, &strengths, &u.Story, &u.SchemaVersion); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(strengths), &u.Strengths); err != nil {
		return nil, fmt.Errorf("decode strengths: %w", err)
	}
	return &u, nil
}

func encodeStrengths(s []string) (string, error) {
	if s == nil {
		s = []string{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode strengths: %w", err)
	}
	return string(b), nil
}

func (r *SQLiteRepository) Get(ctx context.Context, identity string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM profiles WHERE identity = ?`, identity)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.Unavailable("get profile", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM profiles ORDER BY identity`)
	if err != nil {
		return nil, dbx.Unavailable("list profiles", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, dbx.Unavailable("scan profile", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Unavailable("list profiles", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, u *models.User) (int64, error) {
	strengths, err := encodeStrengths(u.Strengths)
	if err != nil {
		return 0, err
	}
	rev := dbx.NextRevision()

	query := `INSERT INTO profiles (identity, display_name, portrait_reference, strengths, story, schema_version, pending, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity) DO UPDATE SET
			display_name = excluded.display_name,
			portrait_reference = excluded.portrait_reference,
			strengths = excluded.strengths,
			story = excluded.story,
			schema_version = excluded.schema_version,
			pending = excluded.pending,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		u.Identity, u.DisplayName, u.PortraitReference, strengths, u.Story, models.CurrentSchemaVersion, rev)
	if err != nil {
		return 0, dbx.Unavailable("put profile", err)
	}
	return rev, nil
}

func (r *SQLiteRepository) Refresh(ctx context.Context, u *models.User) (bool, error) {
	strengths, err := encodeStrengths(u.Strengths)
	if err != nil {
		return false, err
	}

	query := `INSERT INTO profiles (identity, display_name, portrait_reference, strengths, story, schema_version, pending, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
		ON CONFLICT(identity) DO UPDATE SET
			display_name = excluded.display_name,
			portrait_reference = excluded.portrait_reference,
			strengths = excluded.strengths,
			story = excluded.story,
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at
		WHERE profiles.pending = 0 AND (
			profiles.display_name IS NOT excluded.display_name OR
			profiles.portrait_reference IS NOT excluded.portrait_reference OR
			profiles.strengths IS NOT excluded.strengths OR
			profiles.story IS NOT excluded.story OR
			profiles.schema_version IS NOT excluded.schema_version)`
	res, err := r.db.ExecContext(ctx, query,
		u.Identity, u.DisplayName, u.PortraitReference, strengths, u.Story, models.CurrentSchemaVersion)
	if err != nil {
		return false, dbx.Unavailable("refresh profile", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.Unavailable("refresh profile", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, identity string, revision int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET pending = 0 WHERE identity = ? AND pending = ?`, identity, revision)
	if err != nil {
		return dbx.Unavailable("mark profile synced", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]Pending, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+`, pending FROM profiles WHERE pending <> 0`)
	if err != nil {
		return nil, dbx.Unavailable("list pending profiles", err)
	}
	defer rows.Close()

	var result []Pending
	for rows.Next() {
		var (
			p         Pending
			u         models.User
			strengths string
		)
		if err := rows.Scan(&u.Identity, &u.DisplayName, &u.PortraitReference, &strengths, &u.Story, &u.SchemaVersion, &p.Revision); err != nil {
			return nil, dbx.Unavailable("scan pending profile", err)
		}
		if err := json.Unmarshal([]byte(strengths), &u.Strengths); err != nil {
			return nil, fmt.Errorf("decode strengths: %w", err)
		}
		p.User = &u
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Unavailable("list pending profiles", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, identity string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE identity = ?`, identity); err != nil {
		return dbx.Unavailable("delete profile", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return dbx.Unavailable("clear profiles", err)
	}
	return nil
}
