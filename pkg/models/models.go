package models

// Domain models matching the database schema in db/migrations.

type Engineer struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" validate:"required"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	Role         string `json:"role" db:"role"`
	Updated      int64  `json:"updated" db:"updated"`
	PasswordHash string `json:"-" db:"password_hash"`
}

type Site struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Created int64  `json:"created" db:"created"`
}

type Zone struct {
	ID      int64  `json:"id" db:"id"`
	SiteID  int64  `json:"siteId" db:"site_id"`
	Name    string `json:"name" db:"name"`
	Created int64  `json:"created" db:"created"`
}

// Item is a physical asset under inspection. ItemTypeLabel and Category are
// read from the owning item type.
type Item struct {
	ID            int64    `json:"id" db:"id"`
	ZoneID        int64    `json:"zoneId" db:"zone_id"`
	ItemTypeID    int64    `json:"itemTypeId" db:"item_type_id"`
	Name          string   `json:"name" db:"name"`
	Created       int64    `json:"created" db:"created"`
	ItemTypeLabel string   `json:"itemType"`
	Category      Category `json:"inspectionCategory"`
}

type ItemType struct {
	ID          int64    `json:"id" db:"id"`
	Category    Category `json:"inspectionCategory" db:"category"`
	Label       string   `json:"label" db:"label"`
	Description *string  `json:"description,omitempty" db:"description"`
}

type SubcheckTemplate struct {
	ID           int64     `json:"id" db:"id"`
	ItemTypeID   int64     `json:"itemTypeId" db:"item_type_id"`
	Label        string    `json:"label" db:"label"`
	Description  string    `json:"description" db:"description"`
	ValueType    ValueType `json:"valueType" db:"value_type"`
	Mandatory    bool      `json:"mandatory" db:"mandatory"`
	PassCriteria string    `json:"passCriteria" db:"pass_criteria"`
}

// Inspection is the canonical stored form of a submitted inspection.
type Inspection struct {
	ID            int64            `json:"inspectionId" db:"id"`
	EngineerID    int64            `json:"engineerId" db:"engineer_id"`
	EngineerName  string           `json:"engineerName"`
	Date          string           `json:"inspectionDate" db:"inspection_date"`
	Category      Category         `json:"inspectionCategory" db:"category"`
	ItemID        int64            `json:"itemId" db:"item_id"`
	Comment       *string          `json:"comment" db:"comment"`
	OverallResult Result           `json:"overallResult" db:"overall_result"`
	Created       int64            `json:"created" db:"created"`
	Subchecks     []SubcheckResult `json:"subchecks"`
}

// SubcheckResult snapshots the effective template values at submission time.
type SubcheckResult struct {
	ID           int64     `json:"subcheckId" db:"id"`
	InspectionID int64     `json:"-" db:"inspection_id"`
	TemplateID   *int64    `json:"templateId,omitempty" db:"template_id"`
	Label        string    `json:"subcheckName" db:"label"`
	Description  string    `json:"subcheckDescription" db:"description"`
	ValueType    ValueType `json:"valueType" db:"value_type"`
	Mandatory    bool      `json:"mandatory" db:"mandatory"`
	PassCriteria string    `json:"passCriteria" db:"pass_criteria"`
	Status       Status    `json:"status" db:"status"`
}

// RemedialAction is opened for every unsatisfied subcheck of a failed inspection.
type RemedialAction struct {
	ID               int64  `json:"id" db:"id"`
	InspectionID     int64  `json:"inspectionId" db:"inspection_id"`
	SubcheckResultID int64  `json:"subcheckId" db:"subcheck_result_id"`
	Label            string `json:"subcheckName" db:"label"`
	Status           string `json:"status" db:"status"`
	Created          int64  `json:"created" db:"created"`
}

// InspectionDraft is the raw submission payload.
type InspectionDraft struct {
	InspectionDate string          `json:"inspectionDate"`
	Category       string          `json:"inspectionCategory"`
	ItemID         int64           `json:"itemId"`
	EngineerID     int64           `json:"engineerId,omitempty"`
	EngineerEmail  string          `json:"engineerEmail,omitempty"`
	EngineerName   string          `json:"engineerName,omitempty"`
	Comment        *string         `json:"comment"`
	Subchecks      []DraftSubcheck `json:"subchecks"`
}

type DraftSubcheck struct {
	Name         string `json:"subcheckName"`
	Description  string `json:"subcheckDescription"`
	ValueType    string `json:"valueType"`
	PassCriteria string `json:"passCriteria,omitempty"`
	Mandatory    *bool  `json:"mandatory,omitempty"`
	Status       string `json:"status"`
}
