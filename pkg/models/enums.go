package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Category string

const (
	CategoryFacility      Category = "Facility"
	CategoryMachineSafety Category = "MachineSafety"
)

// ParseCategory accepts the exact category tokens only.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFacility, CategoryMachineSafety:
		return Category(s), nil
	}
	return "", fmt.Errorf("invalid inspection category %q", s)
}

// Status of a single subcheck. The three-state set is used everywhere.
type Status string

const (
	StatusPass          Status = "pass"
	StatusFail          Status = "fail"
	StatusNotApplicable Status = "notApplicable"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPass, StatusFail, StatusNotApplicable:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid subcheck status %q", s)
}

// Result is the overall verdict of an inspection.
type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

// ValueType is the stored value type of a subcheck. Clients send "string" for
// text values; storage uses "text".
type ValueType string

const (
	ValueText    ValueType = "text"
	ValueNumber  ValueType = "number"
	ValueBoolean ValueType = "boolean"
)

// ParseValueType maps a wire or storage token to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	switch s {
	case "string", "text":
		return ValueText, nil
	case "number":
		return ValueNumber, nil
	case "boolean":
		return ValueBoolean, nil
	}
	return "", fmt.Errorf("invalid value type %q", s)
}

// WireName is the token clients use for v.
func (v ValueType) WireName() string {
	switch v {
	case ValueText:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBoolean:
		return "boolean"
	}
	return string(v)
}

func (v ValueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.WireName())
}

func (v *ValueType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseValueType(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseInspectionDate accepts a calendar date (2006-01-02) or an RFC 3339
// timestamp and returns the normalized RFC 3339 UTC form used for storage.
func ParseInspectionDate(s string) (string, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("invalid inspection date %q", s)
}
