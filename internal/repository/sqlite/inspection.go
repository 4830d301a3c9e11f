package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/inspections/pkg/models"
)

// CreateInspection inserts the inspection header row. Subcheck results are
// inserted separately with CreateSubcheckResult in the same transaction.
func (r *SQLiteRepo) CreateInspection(ctx context.Context, in *models.Inspection) (int64, error) {
	if in == nil {
		return 0, fmt.Errorf("inspection is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO inspections (inspection_date, category, item_id, engineer_id, comment, overall_result, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Date, string(in.Category), in.ItemID, in.EngineerID, in.Comment, string(in.OverallResult), now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) CreateSubcheckResult(ctx context.Context, sr *models.SubcheckResult) (int64, error) {
	if sr == nil {
		return 0, fmt.Errorf("subcheck result is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO subcheck_results (inspection_id, template_id, label, description, value_type, mandatory, pass_criteria, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sr.InspectionID, sr.TemplateID, sr.Label, sr.Description, string(sr.ValueType), boolToInt(sr.Mandatory), sr.PassCriteria, string(sr.Status))
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

const inspectionSelect = `SELECT i.id, i.engineer_id, e.name, i.inspection_date, i.category, i.item_id, i.comment, i.overall_result, i.created FROM inspections i JOIN engineers e ON e.id = i.engineer_id`

func scanInspection(scan func(dest ...any) error) (models.Inspection, error) {
	var in models.Inspection
	var comment sql.NullString
	if err := scan(&in.ID, &in.EngineerID, &in.EngineerName, &in.Date, &in.Category, &in.ItemID, &comment, &in.OverallResult, &in.Created); err != nil {
		return in, err
	}
	if comment.Valid {
		s := comment.String
		in.Comment = &s
	}

	return in, nil
}

// GetInspection returns one inspection joined with the engineer name and its
// subchecks in insertion order.
func (r *SQLiteRepo) GetInspection(ctx context.Context, id int64) (*models.Inspection, error) {
	in, err := scanInspection(r.q.QueryRowContext(ctx, inspectionSelect+` WHERE i.id = ?`, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	subs, err := r.subcheckResults(ctx, []int64{in.ID})
	if err != nil {
		return nil, err
	}
	in.Subchecks = subs[in.ID]
	if in.Subchecks == nil {
		in.Subchecks = []models.SubcheckResult{}
	}

	return &in, nil
}

// ListInspections returns every inspection, newest date first and higher id
// first on equal dates.
func (r *SQLiteRepo) ListInspections(ctx context.Context) ([]models.Inspection, error) {
	rows, err := r.q.QueryContext(ctx, inspectionSelect+` ORDER BY i.inspection_date DESC, i.id DESC`)
	if err != nil {
		return nil, err
	}

	out := []models.Inspection{}
	ids := []int64{}
	for rows.Next() {
		in, err := scanInspection(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, in)
		ids = append(ids, in.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}

	subs, err := r.subcheckResults(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Subchecks = subs[out[i].ID]
		if out[i].Subchecks == nil {
			out[i].Subchecks = []models.SubcheckResult{}
		}
	}

	return out, nil
}

// subcheckResults loads the subcheck results of the given inspections keyed by
// inspection id, each slice ordered by insertion.
func (r *SQLiteRepo) subcheckResults(ctx context.Context, inspectionIDs []int64) (map[int64][]models.SubcheckResult, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(inspectionIDs)), ",")
	args := make([]any, len(inspectionIDs))
	for i, id := range inspectionIDs {
		args[i] = id
	}

	rows, err := r.q.QueryContext(ctx, `SELECT id, inspection_id, template_id, label, description, value_type, mandatory, pass_criteria, status FROM subcheck_results WHERE inspection_id IN (`+placeholders+`) ORDER BY inspection_id, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.SubcheckResult, len(inspectionIDs))
	for rows.Next() {
		var sr models.SubcheckResult
		var templateID sql.NullInt64
		var valueType string
		var mandatory int
		if err := rows.Scan(&sr.ID, &sr.InspectionID, &templateID, &sr.Label, &sr.Description, &valueType, &mandatory, &sr.PassCriteria, &sr.Status); err != nil {
			return nil, err
		}
		if templateID.Valid {
			v := templateID.Int64
			sr.TemplateID = &v
		}
		vt, err := models.ParseValueType(valueType)
		if err != nil {
			return nil, err
		}
		sr.ValueType = vt
		sr.Mandatory = mandatory != 0
		out[sr.InspectionID] = append(out[sr.InspectionID], sr)
	}

	return out, rows.Err()
}
