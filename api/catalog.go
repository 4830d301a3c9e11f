package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/garnizeh/inspections/internal/inspection"
	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
)

// CatalogHandler administers item types and their subcheck templates.
type CatalogHandler struct {
	catalog repository.CatalogRepo
}

func NewCatalogHandler(c repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

type templateRequest struct {
	Label        string           `json:"label"`
	Description  string           `json:"description"`
	ValueType    models.ValueType `json:"valueType"`
	Mandatory    *bool            `json:"mandatory,omitempty"`
	PassCriteria string           `json:"passCriteria,omitempty"`
}

func (h *CatalogHandler) ListItemTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListItemTypes(r.Context())
	if err != nil {
		logger.Error("list item types", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if types == nil {
		types = []models.ItemType{}
	}

	writeJSON(w, types, http.StatusOK)
}

func (h *CatalogHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	itemTypeID, ok := h.itemType(w, r)
	if !ok {
		return
	}

	list, err := h.catalog.ListTemplates(r.Context(), itemTypeID)
	if err != nil {
		logger.Error("list templates", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []models.SubcheckTemplate{}
	}

	writeJSON(w, list, http.StatusOK)
}

// UpsertTemplate creates a template or replaces the definition of the one
// with the same label. Existing subcheck results keep their snapshot.
func (h *CatalogHandler) UpsertTemplate(w http.ResponseWriter, r *http.Request) {
	itemTypeID, ok := h.itemType(w, r)
	if !ok {
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	t := models.SubcheckTemplate{
		ItemTypeID:   itemTypeID,
		Label:        strings.TrimSpace(req.Label),
		Description:  strings.TrimSpace(req.Description),
		ValueType:    req.ValueType,
		Mandatory:    inspection.DefaultMandatory,
		PassCriteria: strings.TrimSpace(req.PassCriteria),
	}
	if req.Mandatory != nil {
		t.Mandatory = *req.Mandatory
	}
	if t.PassCriteria == "" {
		t.PassCriteria = inspection.DefaultPassCriteria
	}

	var problems []string
	if t.Label == "" {
		problems = append(problems, "label is required")
	}
	if t.Description == "" {
		problems = append(problems, "description is required")
	}
	if t.ValueType == "" {
		problems = append(problems, "valueType is required")
	}
	if len(problems) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", problems...)
		return
	}

	if _, err := h.catalog.UpsertTemplate(r.Context(), &t); err != nil {
		logger.Error("upsert template", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, t, http.StatusOK)
}

func (h *CatalogHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalog.DeleteTemplate(r.Context(), id); err != nil {
		logger.Error("delete template", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// itemType reads the item type id from the path and checks it exists,
// answering the request itself when it does not.
func (h *CatalogHandler) itemType(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}

	it, err := h.catalog.GetItemType(r.Context(), id)
	if err != nil {
		logger.Error("get item type", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return 0, false
	}
	if it == nil {
		writeError(w, http.StatusNotFound, "item type not found")
		return 0, false
	}

	return id, true
}
