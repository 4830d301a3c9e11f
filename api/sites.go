package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/inspections/internal/repository/sqlite"
	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
)

// SitesHandler manages the sites, zones and items inspections refer to.
type SitesHandler struct {
	sites   repository.SiteRepo
	items   repository.ItemRepo
	catalog repository.CatalogRepo
}

func NewSitesHandler(s repository.SiteRepo, i repository.ItemRepo, c repository.CatalogRepo) *SitesHandler {
	return &SitesHandler{sites: s, items: i, catalog: c}
}

type nameRequest struct {
	Name string `json:"name"`
}

// createItemRequest names the item type either by id or by category and label;
// the latter creates the item type on first use.
type createItemRequest struct {
	ZoneID     int64  `json:"zoneId"`
	Name       string `json:"name"`
	ItemTypeID int64  `json:"itemTypeId,omitempty"`
	Category   string `json:"inspectionCategory,omitempty"`
	ItemType   string `json:"itemType,omitempty"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (h *SitesHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.sites.CreateSite(r.Context(), &models.Site{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		storeFailed(w, "create site", err)
		return
	}

	writeJSON(w, createdResponse{ID: id}, http.StatusCreated)
}

func (h *SitesHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.sites.ListSites(r.Context())
	if err != nil {
		storeFailed(w, "list sites", err)
		return
	}
	if sites == nil {
		sites = []models.Site{}
	}

	writeJSON(w, sites, http.StatusOK)
}

func (h *SitesHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.sites.CreateZone(r.Context(), &models.Zone{SiteID: siteID, Name: strings.TrimSpace(req.Name)})
	if err != nil {
		storeFailed(w, "create zone", err)
		return
	}

	writeJSON(w, createdResponse{ID: id}, http.StatusCreated)
}

func (h *SitesHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	zones, err := h.sites.ListZones(r.Context(), siteID)
	if err != nil {
		storeFailed(w, "list zones", err)
		return
	}
	if zones == nil {
		zones = []models.Zone{}
	}

	writeJSON(w, zones, http.StatusOK)
}

func (h *SitesHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var problems []string
	if req.ZoneID <= 0 {
		problems = append(problems, "zoneId is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if req.ItemTypeID <= 0 && (req.Category == "" || strings.TrimSpace(req.ItemType) == "") {
		problems = append(problems, "itemTypeId or inspectionCategory and itemType are required")
	}
	if len(problems) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", problems...)
		return
	}

	ctx := r.Context()
	itemTypeID := req.ItemTypeID
	if itemTypeID <= 0 {
		category, err := models.ParseCategory(req.Category)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		itemTypeID, _, err = h.catalog.ResolveItemType(ctx, category, strings.TrimSpace(req.ItemType))
		if err != nil {
			storeFailed(w, "resolve item type", err)
			return
		}
	}

	id, err := h.items.CreateItem(ctx, &models.Item{ZoneID: req.ZoneID, ItemTypeID: itemTypeID, Name: strings.TrimSpace(req.Name)})
	if err != nil {
		storeFailed(w, "create item", err)
		return
	}

	writeJSON(w, createdResponse{ID: id}, http.StatusCreated)
}

func (h *SitesHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var zoneID int64
	if z := r.URL.Query().Get("zoneId"); z != "" {
		v, err := strconv.ParseInt(z, 10, 64)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "invalid zoneId")
			return
		}
		zoneID = v
	}

	items, err := h.items.ListItems(r.Context(), zoneID)
	if err != nil {
		storeFailed(w, "list items", err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	writeJSON(w, items, http.StatusOK)
}

func (h *SitesHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.items.GetItem(r.Context(), id)
	if err != nil {
		storeFailed(w, "get item", err)
		return
	}
	if it == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	writeJSON(w, it, http.StatusOK)
}

// storeFailed answers 409 for constraint violations (duplicate names,
// unknown parents) and 500 for anything else.
func storeFailed(w http.ResponseWriter, op string, err error) {
	if sqlite.IsConstraint(err) {
		writeError(w, http.StatusConflict, op+": conflicts with existing data")
		return
	}
	logger.Error(op, slog.Any("err", err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
