package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/sociogram/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidParticipant,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as {"error": {"code", "message"}}. Internal errors
// never expose their cause.
func writeError(w http.ResponseWriter, _ *http.Request, err error) {
	code := errors.GetCode(err)
	status := StatusFor(code)
	if status == http.StatusInternalServerError {
		writeStatusError(w, status, string(errors.ErrCodeInternal), "internal server error")
		return
	}
	writeStatusError(w, status, string(code), clientMessage(err))
}

func writeStatusError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func clientMessage(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

func errNotFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

// fail logs server-side failures before writing the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusFor(errors.GetCode(err)) >= http.StatusInternalServerError {
		s.Logger.Error("request failed",
			"route", routePattern(r),
			"request_id", RequestIDFromContext(r.Context()),
			"err", err)
	}
	writeError(w, r, err)
}
