package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidChoice     = "INVALID_CHOICE"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodePlayerExists      = "PLAYER_EXISTS"
	CodePlayerUnavailable = "PLAYER_UNAVAILABLE"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeNotAParticipant   = "NOT_A_PARTICIPANT"
	CodeConflict          = "CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Input errors carry the detail of what was wrong
	case errors.Is(err, model.ErrInvalidChoice):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidChoice, err.Error()}}
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidRequest, err.Error()}}

	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerExists):
		return &httpError{http.StatusBadRequest, APIError{CodePlayerExists, "Player already exists"}}
	case errors.Is(err, model.ErrPlayerUnavailable):
		return &httpError{http.StatusBadRequest, APIError{CodePlayerUnavailable, "Player is already in game or not found"}}
	case errors.Is(err, model.ErrNotParticipant):
		return &httpError{http.StatusForbidden, APIError{CodeNotAParticipant, "Player is not in this game"}}
	case errors.Is(err, model.ErrConcurrentUpdate):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Too many concurrent updates, try again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates an error for a path no route serves
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewMethodNotAllowedError creates an error for a route hit with the wrong method
func NewMethodNotAllowedError(method string) error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method " + method + " not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
