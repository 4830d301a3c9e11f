package inspection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
)

type followUpPayload struct {
	InspectionID int64 `json:"inspection_id"`
}

// FollowUpHandler returns the job handler for JobInspectionFailed. It opens
// one remedial action per unsatisfied subcheck of the failed inspection and
// can run more than once for the same job without duplicating actions.
func FollowUpHandler(store repository.Store, logger *slog.Logger) func(context.Context, *models.BackgroundJob) error {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, j *models.BackgroundJob) error {
		var p followUpPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}

		in, err := store.GetInspection(ctx, p.InspectionID)
		if err != nil {
			return fmt.Errorf("get inspection: %w", err)
		}
		if in == nil {
			// deleted since it was enqueued
			logger.Warn("follow-up for missing inspection", slog.Int64("inspection_id", p.InspectionID))
			return nil
		}

		opened := 0
		err = store.InTx(ctx, func(tx repository.Store) error {
			for _, s := range in.Subchecks {
				if Satisfied(s.Status, s.Mandatory) {
					continue
				}
				if _, err := tx.CreateRemedialAction(ctx, &models.RemedialAction{
					InspectionID:     in.ID,
					SubcheckResultID: s.ID,
					Label:            s.Label,
				}); err != nil {
					return fmt.Errorf("open action for %q: %w", s.Label, err)
				}
				opened++
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Info("remedial actions opened", slog.Int64("inspection_id", in.ID), slog.Int("count", opened))
		return nil
	}
}

// Actions lists the remedial actions opened for an inspection.
func (e *Engine) Actions(ctx context.Context, inspectionID int64) ([]models.RemedialAction, error) {
	if _, err := e.Get(ctx, inspectionID); err != nil {
		return nil, err
	}

	actions, err := e.store.ListRemedialActions(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("list remedial actions: %w", err)
	}
	if actions == nil {
		actions = []models.RemedialAction{}
	}

	return actions, nil
}
