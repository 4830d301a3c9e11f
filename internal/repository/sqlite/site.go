package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/inspections/pkg/models"
)

func (r *SQLiteRepo) CreateSite(ctx context.Context, s *models.Site) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("site is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO sites (name, created) VALUES (?, ?)`, s.Name, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListSites(ctx context.Context) ([]models.Site, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, created FROM sites ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Site
	for rows.Next() {
		var s models.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CreateZone(ctx context.Context, z *models.Zone) (int64, error) {
	if z == nil {
		return 0, fmt.Errorf("zone is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO zones (site_id, name, created) VALUES (?, ?, ?)`, z.SiteID, z.Name, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListZones(ctx context.Context, siteID int64) ([]models.Zone, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, site_id, name, created FROM zones WHERE site_id = ? ORDER BY name`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Zone
	for rows.Next() {
		var z models.Zone
		if err := rows.Scan(&z.ID, &z.SiteID, &z.Name, &z.Created); err != nil {
			return nil, err
		}
		out = append(out, z)
	}

	return out, rows.Err()
}
