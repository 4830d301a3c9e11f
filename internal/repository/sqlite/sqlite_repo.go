package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/garnizeh/inspections/internal/db"
	"github.com/garnizeh/inspections/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
// A repo returned to an InTx callback is bound to that transaction.
type SQLiteRepo struct {
	conn   *db.DB
	q      db.Querier
	tx     *sql.Tx
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.EngineerRepo = (*SQLiteRepo)(nil)
var _ repository.SiteRepo = (*SQLiteRepo)(nil)
var _ repository.ItemRepo = (*SQLiteRepo)(nil)
var _ repository.CatalogRepo = (*SQLiteRepo)(nil)
var _ repository.InspectionRepo = (*SQLiteRepo)(nil)
var _ repository.RemedialActionRepo = (*SQLiteRepo)(nil)
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.Store = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, q: conn.GetConn(), logger: logger}
}

// InTx runs fn with a repo bound to one transaction. Nested calls reuse the
// outer transaction.
func (r *SQLiteRepo) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if r.tx != nil {
		return fn(r)
	}

	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&SQLiteRepo{conn: r.conn, q: tx, tx: tx, logger: r.logger})
	})
}

// withQuerier runs fn inside the current transaction, or a new one when the
// repo is not bound to a transaction.
func (r *SQLiteRepo) withQuerier(ctx context.Context, fn func(q db.Querier) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}

	return r.conn.WithTx(ctx, func(tx *sql.Tx) error { return fn(tx) })
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
