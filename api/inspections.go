package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/inspections/internal/inspection"
	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
)

const maxDraftBytes = 1 << 20

type InspectionsHandler struct {
	engine    *inspection.Engine
	engineers repository.EngineerRepo
	schema    *jsonschema.Schema
}

func NewInspectionsHandler(engine *inspection.Engine, engineers repository.EngineerRepo) (*InspectionsHandler, error) {
	rs, err := loadDraftSchema()
	if err != nil {
		return nil, err
	}
	return &InspectionsHandler{engine: engine, engineers: engineers, schema: rs}, nil
}

// CreateInspection validates the body against the draft schema, resolves the
// submitting engineer and hands the draft to the engine.
func (h *InspectionsHandler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDraftBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ctx := r.Context()
	problems, err := schemaProblems(ctx, h.schema, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(problems) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", problems...)
		return
	}

	var draft models.InspectionDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	engineerID, err := h.resolveEngineer(r, draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	draft.EngineerID = engineerID

	stored, err := h.engine.Submit(ctx, draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, stored, http.StatusCreated)
}

func (h *InspectionsHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	list, err := h.engine.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *InspectionsHandler) GetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := h.engine.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, in, http.StatusOK)
}

func (h *InspectionsHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actions, err := h.engine.Actions(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, actions, http.StatusOK)
}

// resolveEngineer picks the engineer from the token, then the draft id, then
// the draft email. Unknown engineers are never created here.
func (h *InspectionsHandler) resolveEngineer(r *http.Request, draft models.InspectionDraft) (int64, error) {
	if id, ok := EngineerIDFromContext(r.Context()); ok {
		return id, nil
	}
	if draft.EngineerID > 0 {
		return draft.EngineerID, nil
	}

	email := strings.ToLower(strings.TrimSpace(draft.EngineerEmail))
	if email == "" {
		return 0, &inspection.ValidationError{Problems: []string{"engineerId or engineerEmail is required"}}
	}
	e, err := h.engineers.GetByEmail(r.Context(), email)
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 0, &inspection.ValidationError{Problems: []string{"no engineer registered with email " + email}}
	}

	return e.ID, nil
}

// fail maps domain errors to status codes. Unexpected errors are logged and
// answered with an opaque message.
func (h *InspectionsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *inspection.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation failed", verr.Problems...)
	case errors.Is(err, inspection.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("inspection request failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("err", err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
