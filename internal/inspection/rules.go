package inspection

import (
	"fmt"
	"strings"

	"github.com/garnizeh/inspections/pkg/models"
)

// ValidateSubcheckShape returns the problems with a submitted subcheck; an
// empty result means the subcheck is well formed.
func ValidateSubcheckShape(s models.DraftSubcheck) []string {
	var problems []string
	name := strings.TrimSpace(s.Name)
	if name == "" {
		problems = append(problems, "subcheck name is required")
		name = "<unnamed>"
	}
	if strings.TrimSpace(s.Description) == "" {
		problems = append(problems, fmt.Sprintf("subcheck %q: description is required", name))
	}
	if _, err := models.ParseValueType(s.ValueType); err != nil {
		problems = append(problems, fmt.Sprintf("subcheck %q: %v", name, err))
	}
	if _, err := models.ParseStatus(s.Status); err != nil {
		problems = append(problems, fmt.Sprintf("subcheck %q: %v", name, err))
	}

	return problems
}

// Satisfied reports whether a subcheck with the given status counts towards a
// passing inspection. Mandatory subchecks must pass; optional ones may also be
// not applicable.
func Satisfied(status models.Status, mandatory bool) bool {
	if mandatory {
		return status == models.StatusPass
	}
	return status == models.StatusPass || status == models.StatusNotApplicable
}

// AggregateOverall derives the overall result. Labels missing from
// mandatoryByLabel are treated as mandatory. The result does not depend on the
// order of subchecks.
func AggregateOverall(subchecks []models.DraftSubcheck, mandatoryByLabel map[string]bool) models.Result {
	for _, s := range subchecks {
		mandatory, ok := mandatoryByLabel[strings.TrimSpace(s.Name)]
		if !ok {
			mandatory = true
		}
		if !Satisfied(models.Status(s.Status), mandatory) {
			return models.ResultFail
		}
	}

	return models.ResultPass
}

// RequireCommentOnFailure returns a violation when a failed inspection has no
// comment.
func RequireCommentOnFailure(overall models.Result, comment *string) []string {
	if overall != models.ResultFail {
		return nil
	}
	if comment == nil || strings.TrimSpace(*comment) == "" {
		return []string{"a comment is required when the inspection fails"}
	}

	return nil
}
