package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/AgencyFlow/agencyflow/internal/agency/service"
	"github.com/AgencyFlow/agencyflow/utils"
)

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// writeServiceError maps service errors to one consistent HTTP status scheme:
// validation 400, not found 404, everything else 500.
func writeServiceError(w http.ResponseWriter, action string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, fmt.Sprintf("failed to %s: %v", action, err), status)
}

// pathUUID parses a uuid path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		http.Error(w, fmt.Sprintf("missing %s in path", name), http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid %s: %v", name, err), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// paginationFromQuery reads optional offset/limit query parameters and clamps
// them to the shared defaults.
func paginationFromQuery(r *http.Request) (int, int) {
	var offset, limit *int
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = &v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = &v
		}
	}
	return utils.GetPaginationParams(offset, limit)
}
