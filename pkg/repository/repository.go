package repository

import (
	"context"

	"github.com/garnizeh/inspections/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Getters return (nil, nil) when the row does not exist.

type EngineerRepo interface {
	CreateEngineer(ctx context.Context, e *models.Engineer) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Engineer, error)
	GetByEmail(ctx context.Context, email string) (*models.Engineer, error)
	UpdateEngineer(ctx context.Context, e *models.Engineer) error
}

type SiteRepo interface {
	CreateSite(ctx context.Context, s *models.Site) (int64, error)
	ListSites(ctx context.Context) ([]models.Site, error)
	CreateZone(ctx context.Context, z *models.Zone) (int64, error)
	ListZones(ctx context.Context, siteID int64) ([]models.Zone, error)
}

type ItemRepo interface {
	CreateItem(ctx context.Context, it *models.Item) (int64, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context, zoneID int64) ([]models.Item, error)
}

// CatalogRepo stores item types and their subcheck templates. The
// create-if-absent operations are idempotent under concurrent callers.
type CatalogRepo interface {
	ResolveItemType(ctx context.Context, category models.Category, label string) (id int64, created bool, err error)
	GetItemType(ctx context.Context, id int64) (*models.ItemType, error)
	ListItemTypes(ctx context.Context) ([]models.ItemType, error)
	GetTemplate(ctx context.Context, itemTypeID int64, label string) (*models.SubcheckTemplate, error)
	CreateTemplateIfAbsent(ctx context.Context, t *models.SubcheckTemplate) (created bool, err error)
	UpsertTemplate(ctx context.Context, t *models.SubcheckTemplate) (int64, error)
	ListTemplates(ctx context.Context, itemTypeID int64) ([]models.SubcheckTemplate, error)
	MandatoryByLabel(ctx context.Context, itemTypeID int64) (map[string]bool, error)
	DeleteTemplate(ctx context.Context, id int64) error
}

type InspectionRepo interface {
	CreateInspection(ctx context.Context, in *models.Inspection) (int64, error)
	CreateSubcheckResult(ctx context.Context, sr *models.SubcheckResult) (int64, error)
	GetInspection(ctx context.Context, id int64) (*models.Inspection, error)
	ListInspections(ctx context.Context) ([]models.Inspection, error)
}

type RemedialActionRepo interface {
	CreateRemedialAction(ctx context.Context, a *models.RemedialAction) (int64, error)
	ListRemedialActions(ctx context.Context, inspectionID int64) ([]models.RemedialAction, error)
}

type JobRepo interface {
	Enqueue(ctx context.Context, j *models.BackgroundJob) (int64, error)
	FetchNext(ctx context.Context) (*models.BackgroundJob, error)
	UpdateJob(ctx context.Context, j *models.BackgroundJob) error
	MoveToDeadLetter(ctx context.Context, j *models.BackgroundJob) error
}

// Store groups the repositories an inspection submission touches. InTx runs
// fn against a Store bound to a single transaction; fn's error rolls it back.
type Store interface {
	EngineerRepo
	ItemRepo
	CatalogRepo
	InspectionRepo
	RemedialActionRepo
	JobRepo
	InTx(ctx context.Context, fn func(tx Store) error) error
}
