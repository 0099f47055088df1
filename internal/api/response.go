package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/erazemk/propkeeper/internal/logging"
)

// HTTPError is an error with a status code and a client-facing message.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func badRequest(message string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message}
}

func notFound(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: message}
}

func conflict(message string) *HTTPError {
	return &HTTPError{Status: http.StatusConflict, Message: message}
}

type errorDetail struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logging.Error().Err(err).Msg("error encoding response")
		}
	}
}

// jsonError writes a {"error":{"message":...}} response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: errorDetail{Message: message}})
}

// writeError writes err to the client. An *HTTPError keeps its status and
// message; anything else is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		jsonError(w, httpErr.Status, httpErr.Message)
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	jsonError(w, http.StatusInternalServerError, "internal server error")
}

// handle adapts an error-returning handler to http.HandlerFunc.
func handle(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// decodeJSON decodes a JSON request body into the given target. An empty
// body leaves target untouched.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
