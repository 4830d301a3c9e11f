package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/inspections/pkg/models"
)

const engineerColumns = `id, name, email, role, updated, password_hash`

func (r *SQLiteRepo) CreateEngineer(ctx context.Context, e *models.Engineer) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("engineer is nil")
	}
	role := e.Role
	if role == "" {
		role = "engineer"
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO engineers (name, email, role, updated, password_hash) VALUES (?, ?, ?, ?, ?)`, e.Name, e.Email, role, now(), e.PasswordHash)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id int64) (*models.Engineer, error) {
	return r.scanEngineer(r.q.QueryRowContext(ctx, `SELECT `+engineerColumns+` FROM engineers WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (*models.Engineer, error) {
	return r.scanEngineer(r.q.QueryRowContext(ctx, `SELECT `+engineerColumns+` FROM engineers WHERE email = ?`, email))
}

func (r *SQLiteRepo) scanEngineer(row *sql.Row) (*models.Engineer, error) {
	var e models.Engineer
	var pw sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Updated, &pw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	if pw.Valid {
		e.PasswordHash = pw.String
	}

	return &e, nil
}

func (r *SQLiteRepo) UpdateEngineer(ctx context.Context, e *models.Engineer) error {
	if e == nil {
		return fmt.Errorf("engineer is nil")
	}

	_, err := r.q.ExecContext(ctx, `UPDATE engineers SET name = ?, email = ?, role = ?, updated = ?, password_hash = ? WHERE id = ?`, e.Name, e.Email, e.Role, now(), e.PasswordHash, e.ID)
	return err
}
