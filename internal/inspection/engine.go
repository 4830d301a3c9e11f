// Package inspection implements inspection submission: subcheck validation,
// overall result aggregation and the transactional write of an inspection
// with its subcheck results against the template catalog.
package inspection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
)

// JobInspectionFailed is enqueued for every inspection stored with a fail result.
const JobInspectionFailed = "inspection.failed"

// Engine submits and reads inspections. It owns no connection; the store and
// its lifecycle belong to the caller.
type Engine struct {
	store  repository.Store
	logger *slog.Logger
}

func NewEngine(store repository.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

// Submit validates a draft and stores it as one inspection with its subcheck
// results in a single transaction, then returns the stored record as re-read
// from the database. Nothing is written when an error is returned.
//
// Errors are *ValidationError for malformed input (including a missing
// comment on a failed inspection), *NotFoundError for an unknown item or
// engineer, and wrapped storage errors otherwise.
func (e *Engine) Submit(ctx context.Context, draft models.InspectionDraft) (*models.Inspection, error) {
	category, date, err := validateDraft(draft)
	if err != nil {
		return nil, err
	}

	var (
		inspectionID int64
		overall      models.Result
		created      int
	)
	err = e.store.InTx(ctx, func(tx repository.Store) error {
		item, err := tx.GetItem(ctx, draft.ItemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if item == nil {
			return &NotFoundError{Entity: "item", ID: draft.ItemID}
		}

		engineer, err := tx.GetByID(ctx, draft.EngineerID)
		if err != nil {
			return fmt.Errorf("get engineer: %w", err)
		}
		if engineer == nil {
			return &NotFoundError{Entity: "engineer", ID: draft.EngineerID}
		}

		itemTypeID, _, err := tx.ResolveItemType(ctx, category, item.ItemTypeLabel)
		if err != nil {
			return fmt.Errorf("resolve item type: %w", err)
		}

		mandatory, err := tx.MandatoryByLabel(ctx, itemTypeID)
		if err != nil {
			return fmt.Errorf("load mandatory flags: %w", err)
		}

		// Judged against the catalog as it was before this submission: labels
		// without a template count as mandatory.
		overall = AggregateOverall(draft.Subchecks, mandatory)
		if problems := RequireCommentOnFailure(overall, draft.Comment); len(problems) > 0 {
			return invalid(problems...)
		}

		// Resolve in submission order so a template created for one subcheck is
		// seen by later subchecks with the same label.
		resolved := make([]TemplateResolution, len(draft.Subchecks))
		for i, s := range draft.Subchecks {
			res, err := ResolveTemplate(ctx, tx, itemTypeID, s)
			if err != nil {
				return err
			}
			if res.Origin == TemplateCreated {
				created++
			}
			resolved[i] = res
		}

		inspectionID, err = tx.CreateInspection(ctx, &models.Inspection{
			EngineerID:    engineer.ID,
			Date:          date,
			Category:      category,
			ItemID:        item.ID,
			Comment:       normalizeComment(draft.Comment),
			OverallResult: overall,
		})
		if err != nil {
			return fmt.Errorf("insert inspection: %w", err)
		}

		for i, s := range draft.Subchecks {
			t := resolved[i].Template
			templateID := t.ID
			if _, err := tx.CreateSubcheckResult(ctx, &models.SubcheckResult{
				InspectionID: inspectionID,
				TemplateID:   &templateID,
				Label:        t.Label,
				Description:  strings.TrimSpace(s.Description),
				ValueType:    t.ValueType,
				Mandatory:    t.Mandatory,
				PassCriteria: t.PassCriteria,
				Status:       models.Status(s.Status),
			}); err != nil {
				return fmt.Errorf("insert subcheck %q: %w", t.Label, err)
			}
		}

		if overall == models.ResultFail {
			payload, err := json.Marshal(followUpPayload{InspectionID: inspectionID})
			if err != nil {
				return err
			}
			if _, err := tx.Enqueue(ctx, &models.BackgroundJob{Type: JobInspectionFailed, Payload: payload, Priority: 50, MaxAttempts: 3}); err != nil {
				return fmt.Errorf("enqueue follow-up: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("inspection stored",
		slog.Int64("inspection_id", inspectionID),
		slog.Int64("item_id", draft.ItemID),
		slog.String("overall_result", string(overall)),
		slog.Int("templates_created", created),
	)

	return e.Get(ctx, inspectionID)
}

// Get returns the stored inspection or a *NotFoundError.
func (e *Engine) Get(ctx context.Context, id int64) (*models.Inspection, error) {
	in, err := e.store.GetInspection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get inspection: %w", err)
	}
	if in == nil {
		return nil, &NotFoundError{Entity: "inspection", ID: id}
	}

	return in, nil
}

// List returns all inspections, newest first.
func (e *Engine) List(ctx context.Context) ([]models.Inspection, error) {
	list, err := e.store.ListInspections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	if list == nil {
		list = []models.Inspection{}
	}

	return list, nil
}

// validateDraft checks everything that can be checked without storage and
// returns the parsed category and normalized date.
func validateDraft(d models.InspectionDraft) (models.Category, string, error) {
	var problems []string

	date, err := models.ParseInspectionDate(strings.TrimSpace(d.InspectionDate))
	if err != nil {
		problems = append(problems, err.Error())
	}
	category, err := models.ParseCategory(d.Category)
	if err != nil {
		problems = append(problems, err.Error())
	}
	if d.ItemID <= 0 {
		problems = append(problems, "itemId is required")
	}
	if d.EngineerID <= 0 {
		problems = append(problems, "engineerId is required")
	}
	if len(d.Subchecks) == 0 {
		problems = append(problems, "at least one subcheck is required")
	}
	for _, s := range d.Subchecks {
		problems = append(problems, ValidateSubcheckShape(s)...)
	}

	if len(problems) > 0 {
		return "", "", invalid(problems...)
	}
	return category, date, nil
}

func normalizeComment(c *string) *string {
	if c == nil {
		return nil
	}
	s := strings.TrimSpace(*c)
	if s == "" {
		return nil
	}
	return &s
}
