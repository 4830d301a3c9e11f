package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/inspections/pkg/models"
)

// CreateRemedialAction opens an action for a subcheck result. A second call for
// the same subcheck result is a no-op and returns the existing id.
func (r *SQLiteRepo) CreateRemedialAction(ctx context.Context, a *models.RemedialAction) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("remedial action is nil")
	}
	status := a.Status
	if status == "" {
		status = "open"
	}

	if _, err := r.q.ExecContext(ctx, `INSERT INTO remedial_actions (inspection_id, subcheck_result_id, label, status, created) VALUES (?, ?, ?, ?, ?) ON CONFLICT(subcheck_result_id) DO NOTHING`,
		a.InspectionID, a.SubcheckResultID, a.Label, status, now()); err != nil {
		return 0, err
	}

	var id int64
	if err := r.q.QueryRowContext(ctx, `SELECT id FROM remedial_actions WHERE subcheck_result_id = ?`, a.SubcheckResultID).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *SQLiteRepo) ListRemedialActions(ctx context.Context, inspectionID int64) ([]models.RemedialAction, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, inspection_id, subcheck_result_id, label, status, created FROM remedial_actions WHERE inspection_id = ? ORDER BY id`, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RemedialAction
	for rows.Next() {
		var a models.RemedialAction
		if err := rows.Scan(&a.ID, &a.InspectionID, &a.SubcheckResultID, &a.Label, &a.Status, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
