package inspection

import (
	"context"
	"fmt"
	"strings"

	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
)

// Defaults applied to templates created from a submission.
const (
	DefaultMandatory    = true
	DefaultPassCriteria = "true"
)

// TemplateOrigin tells whether a resolved template already existed or was
// created by the resolving call.
type TemplateOrigin int

const (
	TemplateExisting TemplateOrigin = iota
	TemplateCreated
)

func (o TemplateOrigin) String() string {
	if o == TemplateCreated {
		return "created"
	}
	return "existing"
}

// TemplateResolution is the outcome of ResolveTemplate. Template carries the
// effective value type, mandatory flag and pass criteria for the subcheck.
type TemplateResolution struct {
	Template models.SubcheckTemplate
	Origin   TemplateOrigin
}

// ResolveTemplate finds the template for a submitted subcheck under an item
// type, creating it from the submission when absent. Values of an existing
// template take precedence over the submitted ones. When two callers race to
// create the same template both get the single stored row; only the winner
// sees TemplateCreated.
func ResolveTemplate(ctx context.Context, catalog repository.CatalogRepo, itemTypeID int64, s models.DraftSubcheck) (TemplateResolution, error) {
	label := strings.TrimSpace(s.Name)

	existing, err := catalog.GetTemplate(ctx, itemTypeID, label)
	if err != nil {
		return TemplateResolution{}, fmt.Errorf("get template %q: %w", label, err)
	}
	if existing != nil {
		return TemplateResolution{Template: *existing, Origin: TemplateExisting}, nil
	}

	valueType, err := models.ParseValueType(s.ValueType)
	if err != nil {
		return TemplateResolution{}, invalid(fmt.Sprintf("subcheck %q: %v", label, err))
	}
	t := models.SubcheckTemplate{
		ItemTypeID:   itemTypeID,
		Label:        label,
		Description:  strings.TrimSpace(s.Description),
		ValueType:    valueType,
		Mandatory:    DefaultMandatory,
		PassCriteria: DefaultPassCriteria,
	}
	if s.Mandatory != nil {
		t.Mandatory = *s.Mandatory
	}
	if pc := strings.TrimSpace(s.PassCriteria); pc != "" {
		t.PassCriteria = pc
	}

	created, err := catalog.CreateTemplateIfAbsent(ctx, &t)
	if err != nil {
		return TemplateResolution{}, fmt.Errorf("create template %q: %w", label, err)
	}

	origin := TemplateExisting
	if created {
		origin = TemplateCreated
	}
	return TemplateResolution{Template: t, Origin: origin}, nil
}
