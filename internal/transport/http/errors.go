package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"journalist-api/internal/domain"
	"journalist-api/internal/observability/middleware"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: http.StatusText(status), Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRangeNotSatisfiable):
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto the error envelope. Only RequestError messages
// reach the client; anything unclassified is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(r.Context()).Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeStatus(w, status, "")
		return
	}
	var reqErr *domain.RequestError
	msg := ""
	if errors.As(err, &reqErr) {
		msg = reqErr.Message
	}
	writeStatus(w, status, msg)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusNotFound, "")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusMethodNotAllowed, "")
}

// recoverer turns a panic into the 500 envelope. http.ErrAbortHandler is
// re-raised so the server can drop the connection.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			middleware.Logger(r.Context()).Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", rec)
			writeStatus(w, http.StatusInternalServerError, "")
		}()
		next.ServeHTTP(w, r)
	})
}
