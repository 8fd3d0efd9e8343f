package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/curza/testgen/internal/model"
)

// Machine-readable error kinds in the JSON error envelope.
const (
	kindInvalidArgument = "invalid_argument"
	kindUnauthenticated = "unauthenticated"
	kindNotFound        = "not_found"
	kindInternal        = "internal"
)

// maxBodyBytes caps request bodies; full papers are well under this.
const maxBodyBytes = 1 << 20

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: message}})
}

// writeDomainError maps the shared error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, kindInvalidArgument, err.Error())
	case errors.Is(err, model.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, err.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
	}
}

// decodeJSON reads and decodes a request body. Unknown fields are
// tolerated; the mobile clients send extras.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}
