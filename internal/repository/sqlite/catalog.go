package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/inspections/pkg/models"
)

// ResolveItemType returns the id of the (category, label) item type, creating
// it when absent. The insert is a no-op on conflict and the row is re-selected,
// so concurrent first use yields a single row and the same id for every caller.
func (r *SQLiteRepo) ResolveItemType(ctx context.Context, category models.Category, label string) (int64, bool, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO item_types (category, label, description) VALUES (?, ?, NULL) ON CONFLICT(category, label) DO NOTHING`, string(category), label)
	if err != nil {
		return 0, false, fmt.Errorf("insert item type: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("item type rows affected: %w", err)
	}

	var id int64
	if err := r.q.QueryRowContext(ctx, `SELECT id FROM item_types WHERE category = ? AND label = ?`, string(category), label).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("select item type: %w", err)
	}

	return id, n == 1, nil
}

func (r *SQLiteRepo) GetItemType(ctx context.Context, id int64) (*models.ItemType, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, category, label, description FROM item_types WHERE id = ?`, id)
	var it models.ItemType
	var desc sql.NullString
	if err := row.Scan(&it.ID, &it.Category, &it.Label, &desc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if desc.Valid {
		s := desc.String
		it.Description = &s
	}

	return &it, nil
}

func (r *SQLiteRepo) ListItemTypes(ctx context.Context) ([]models.ItemType, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, category, label, description FROM item_types ORDER BY category, label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ItemType
	for rows.Next() {
		var it models.ItemType
		var desc sql.NullString
		if err := rows.Scan(&it.ID, &it.Category, &it.Label, &desc); err != nil {
			return nil, err
		}
		if desc.Valid {
			s := desc.String
			it.Description = &s
		}
		out = append(out, it)
	}

	return out, rows.Err()
}

const templateColumns = `id, item_type_id, label, description, value_type, mandatory, pass_criteria`

func scanTemplate(scan func(dest ...any) error) (models.SubcheckTemplate, error) {
	var t models.SubcheckTemplate
	var valueType string
	var mandatory int
	if err := scan(&t.ID, &t.ItemTypeID, &t.Label, &t.Description, &valueType, &mandatory, &t.PassCriteria); err != nil {
		return t, err
	}
	vt, err := models.ParseValueType(valueType)
	if err != nil {
		return t, err
	}
	t.ValueType = vt
	t.Mandatory = mandatory != 0

	return t, nil
}

func (r *SQLiteRepo) GetTemplate(ctx context.Context, itemTypeID int64, label string) (*models.SubcheckTemplate, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM subcheck_templates WHERE item_type_id = ? AND label = ?`, itemTypeID, label)
	t, err := scanTemplate(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &t, nil
}

// CreateTemplateIfAbsent inserts t unless a template with the same
// (item_type_id, label) exists. On return t holds the stored row, which is the
// pre-existing one when created is false.
func (r *SQLiteRepo) CreateTemplateIfAbsent(ctx context.Context, t *models.SubcheckTemplate) (bool, error) {
	if t == nil {
		return false, fmt.Errorf("template is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO subcheck_templates (item_type_id, label, description, value_type, mandatory, pass_criteria) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(item_type_id, label) DO NOTHING`,
		t.ItemTypeID, t.Label, t.Description, string(t.ValueType), boolToInt(t.Mandatory), t.PassCriteria)
	if err != nil {
		return false, fmt.Errorf("insert template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("template rows affected: %w", err)
	}

	stored, err := r.GetTemplate(ctx, t.ItemTypeID, t.Label)
	if err != nil {
		return false, fmt.Errorf("select template: %w", err)
	}
	if stored == nil {
		return false, fmt.Errorf("template %q vanished after insert", t.Label)
	}
	*t = *stored

	return n == 1, nil
}

// UpsertTemplate creates or replaces the definition of a template; the id of
// an existing (item_type_id, label) row is kept.
func (r *SQLiteRepo) UpsertTemplate(ctx context.Context, t *models.SubcheckTemplate) (int64, error) {
	if t == nil {
		return 0, fmt.Errorf("template is nil")
	}

	_, err := r.q.ExecContext(ctx, `INSERT INTO subcheck_templates (item_type_id, label, description, value_type, mandatory, pass_criteria) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(item_type_id, label) DO UPDATE SET description=excluded.description, value_type=excluded.value_type, mandatory=excluded.mandatory, pass_criteria=excluded.pass_criteria`,
		t.ItemTypeID, t.Label, t.Description, string(t.ValueType), boolToInt(t.Mandatory), t.PassCriteria)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.q.QueryRowContext(ctx, `SELECT id FROM subcheck_templates WHERE item_type_id = ? AND label = ?`, t.ItemTypeID, t.Label).Scan(&id); err != nil {
		return 0, err
	}
	t.ID = id

	return id, nil
}

func (r *SQLiteRepo) ListTemplates(ctx context.Context, itemTypeID int64) ([]models.SubcheckTemplate, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+templateColumns+` FROM subcheck_templates WHERE item_type_id = ? ORDER BY id`, itemTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubcheckTemplate
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// MandatoryByLabel returns the mandatory flag of every template of an item type.
func (r *SQLiteRepo) MandatoryByLabel(ctx context.Context, itemTypeID int64) (map[string]bool, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT label, mandatory FROM subcheck_templates WHERE item_type_id = ?`, itemTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var label string
		var mandatory int
		if err := rows.Scan(&label, &mandatory); err != nil {
			return nil, err
		}
		out[label] = mandatory != 0
	}

	return out, rows.Err()
}

// DeleteTemplate removes a template; stored subcheck results keep their
// snapshot and lose the reference.
func (r *SQLiteRepo) DeleteTemplate(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM subcheck_templates WHERE id = ?`, id)
	return err
}
