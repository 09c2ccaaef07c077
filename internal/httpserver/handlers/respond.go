package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes:
// validation 400, not found 404, invalid transition 409, persistence 502.
// Anything else is a 500 with no detail leaked to the client.
func writeError(w http.ResponseWriter, d deps.Deps, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Reason, Field: ve.Field})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "invalid transition"})
	case domain.IsPersistence(err):
		d.Logger.Error("persistence failure", logger.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "storage unavailable"})
	default:
		d.Logger.Error("unhandled error", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
