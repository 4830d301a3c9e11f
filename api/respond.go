package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/qri-io/jsonschema"
)

//go:embed schema/inspection_draft.json
var draftSchemaJSON []byte

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, problems ...string) {
	writeJSON(w, errorResponse{Error: msg, Problems: problems}, status)
}

// pathID parses the named mux variable as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// loadDraftSchema compiles the embedded inspection draft schema.
func loadDraftSchema() (*jsonschema.Schema, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(draftSchemaJSON, rs); err != nil {
		return nil, fmt.Errorf("parse inspection draft schema: %w", err)
	}
	return rs, nil
}

// schemaProblems validates body against rs and returns one message per
// violation. A non-nil error means body is not JSON at all.
func schemaProblems(ctx context.Context, rs *jsonschema.Schema, body []byte) ([]string, error) {
	verrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return nil, err
	}

	problems := make([]string, 0, len(verrs))
	for _, v := range verrs {
		if v.PropertyPath != "" && v.PropertyPath != "/" {
			problems = append(problems, v.PropertyPath+": "+v.Message)
			continue
		}
		problems = append(problems, v.Message)
	}
	return problems, nil
}
