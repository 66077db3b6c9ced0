package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/herocards/internal/client/migrations"
	"github.com/dmitrijs2005/herocards/internal/client/repositories/cards"
	"github.com/dmitrijs2005/herocards/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/herocards/internal/dbx"

	_ "modernc.org/sqlite"
)

// Repositories is the local cache: one repository per collection over a
// shared SQLite handle.
type Repositories struct {
	Profiles profiles.Repository
	Cards    cards.Repository

	db *sql.DB
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Profiles: profiles.NewSQLiteRepository(db),
		Cards:    cards.NewSQLiteRepository(db),
		db:       db,
	}
}

// InitDatabase opens the SQLite file at dsn and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewRepositories(db), nil
}

// PurgeAll empties every collection in one transaction.
func (r *Repositories) PurgeAll(ctx context.Context) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := profiles.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return cards.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return dbx.Unavailable("purge local cache", err)
	}
	return nil
}

func (r *Repositories) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repositories) Close() error {
	return r.db.Close()
}
