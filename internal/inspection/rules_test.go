package inspection_test

import (
	"slices"
	"testing"

	"github.com/garnizeh/inspections/internal/inspection"
	"github.com/garnizeh/inspections/pkg/models"
)

func sub(name, status string) models.DraftSubcheck {
	return models.DraftSubcheck{Name: name, Description: name + " check", ValueType: "boolean", Status: status}
}

func strPtr(s string) *string { return &s }

func TestValidateSubcheckShape(t *testing.T) {
	tests := []struct {
		name      string
		subcheck  models.DraftSubcheck
		wantValid bool
	}{
		{name: "valid", subcheck: sub("Function test", "pass"), wantValid: true},
		{name: "not applicable", subcheck: sub("Function test", "notApplicable"), wantValid: true},
		{name: "string value type", subcheck: models.DraftSubcheck{Name: "a", Description: "b", ValueType: "string", Status: "fail"}, wantValid: true},
		{name: "text value type", subcheck: models.DraftSubcheck{Name: "a", Description: "b", ValueType: "text", Status: "fail"}, wantValid: true},
		{name: "blank name", subcheck: sub("  ", "pass")},
		{name: "missing description", subcheck: models.DraftSubcheck{Name: "a", ValueType: "number", Status: "pass"}},
		{name: "unknown value type", subcheck: models.DraftSubcheck{Name: "a", Description: "b", ValueType: "date", Status: "pass"}},
		{name: "unknown status", subcheck: sub("a", "skipped")},
		{name: "status is case sensitive", subcheck: sub("a", "Pass")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := inspection.ValidateSubcheckShape(tt.subcheck)
			if got := len(problems) == 0; got != tt.wantValid {
				t.Fatalf("valid = %v, want %v (problems: %v)", got, tt.wantValid, problems)
			}
		})
	}
}

func TestAggregateOverall(t *testing.T) {
	mandatory := map[string]bool{"Function test": true, "Duration test": false}

	tests := []struct {
		name      string
		subchecks []models.DraftSubcheck
		want      models.Result
	}{
		{name: "all mandatory pass", subchecks: []models.DraftSubcheck{sub("Function test", "pass"), sub("Unknown", "pass")}, want: models.ResultPass},
		{name: "mandatory fail", subchecks: []models.DraftSubcheck{sub("Function test", "fail"), sub("Duration test", "pass")}, want: models.ResultFail},
		{name: "mandatory not applicable", subchecks: []models.DraftSubcheck{sub("Function test", "notApplicable")}, want: models.ResultFail},
		{name: "optional not applicable", subchecks: []models.DraftSubcheck{sub("Function test", "pass"), sub("Duration test", "notApplicable")}, want: models.ResultPass},
		{name: "optional fail", subchecks: []models.DraftSubcheck{sub("Function test", "pass"), sub("Duration test", "fail")}, want: models.ResultFail},
		{name: "unknown label is mandatory", subchecks: []models.DraftSubcheck{sub("Battery", "notApplicable")}, want: models.ResultFail},
		{name: "label is trimmed", subchecks: []models.DraftSubcheck{sub(" Duration test ", "notApplicable")}, want: models.ResultPass},
		{name: "fail among many passes", subchecks: []models.DraftSubcheck{sub("a", "pass"), sub("b", "pass"), sub("c", "fail"), sub("Duration test", "notApplicable")}, want: models.ResultFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspection.AggregateOverall(tt.subchecks, mandatory); got != tt.want {
				t.Fatalf("AggregateOverall = %s, want %s", got, tt.want)
			}

			reversed := slices.Clone(tt.subchecks)
			slices.Reverse(reversed)
			if got := inspection.AggregateOverall(reversed, mandatory); got != tt.want {
				t.Fatalf("AggregateOverall(reversed) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAggregateOverall_NilMap(t *testing.T) {
	if got := inspection.AggregateOverall([]models.DraftSubcheck{sub("x", "pass")}, nil); got != models.ResultPass {
		t.Fatalf("expected pass, got %s", got)
	}
	if got := inspection.AggregateOverall([]models.DraftSubcheck{sub("x", "notApplicable")}, nil); got != models.ResultFail {
		t.Fatalf("expected fail, got %s", got)
	}
}

func TestRequireCommentOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		overall models.Result
		comment *string
		want    bool
	}{
		{name: "fail without comment", overall: models.ResultFail, comment: nil, want: true},
		{name: "fail with empty comment", overall: models.ResultFail, comment: strPtr(""), want: true},
		{name: "fail with whitespace comment", overall: models.ResultFail, comment: strPtr(" \t\n"), want: true},
		{name: "fail with comment", overall: models.ResultFail, comment: strPtr("Bulb failed"), want: false},
		{name: "pass without comment", overall: models.ResultPass, comment: nil, want: false},
		{name: "pass with comment", overall: models.ResultPass, comment: strPtr("all good"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := len(inspection.RequireCommentOnFailure(tt.overall, tt.comment)) > 0
			if got != tt.want {
				t.Fatalf("violation = %v, want %v", got, tt.want)
			}
		})
	}
}
