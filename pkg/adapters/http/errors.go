package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/pkg/domain"
)

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrProjectNotFound), errors.Is(err, domain.ErrUnknownTag):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProjectExists), errors.Is(err, domain.ErrDuplicateTag):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidChildKind),
		errors.Is(err, domain.ErrUnknownEntityKind),
		errors.Is(err, domain.ErrInvalidPropertyValue),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrMalformedDocument),
		errors.Is(err, domain.ErrInvalidTag),
		errors.Is(err, domain.ErrInvalidProjectName),
		errors.Is(err, domain.ErrAlreadyAttached),
		errors.Is(err, domain.ErrCycle),
		errors.Is(err, domain.ErrRootNode),
		errors.Is(err, femtree.ErrUnknownTemplate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, femtree.ErrNoMeshEngine), errors.Is(err, femtree.ErrNoSolver):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
