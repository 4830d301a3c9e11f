package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/inspections/pkg/models"
)

const itemSelect = `SELECT i.id, i.zone_id, i.item_type_id, i.name, i.created, it.label, it.category FROM items i JOIN item_types it ON it.id = i.item_type_id`

func (r *SQLiteRepo) CreateItem(ctx context.Context, it *models.Item) (int64, error) {
	if it == nil {
		return 0, fmt.Errorf("item is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO items (zone_id, item_type_id, name, created) VALUES (?, ?, ?, ?)`, it.ZoneID, it.ItemTypeID, it.Name, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// GetItem returns the item joined with its item type label and category.
func (r *SQLiteRepo) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	row := r.q.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id)
	var it models.Item
	if err := row.Scan(&it.ID, &it.ZoneID, &it.ItemTypeID, &it.Name, &it.Created, &it.ItemTypeLabel, &it.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &it, nil
}

// ListItems lists items of a zone, or all items when zoneID is 0.
func (r *SQLiteRepo) ListItems(ctx context.Context, zoneID int64) ([]models.Item, error) {
	query := itemSelect + ` ORDER BY i.id`
	args := []any{}
	if zoneID > 0 {
		query = itemSelect + ` WHERE i.zone_id = ? ORDER BY i.id`
		args = append(args, zoneID)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.ZoneID, &it.ItemTypeID, &it.Name, &it.Created, &it.ItemTypeLabel, &it.Category); err != nil {
			return nil, err
		}
		out = append(out, it)
	}

	return out, rows.Err()
}
