// Package respond renders the API response envelope and is the single
// boundary where domain errors become HTTP responses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/domain"
)

// Envelope is the uniform success shape: success = statusCode < 400.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope adds the detail list; data is always null on errors.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// Writer carries the logger and mode flag every handler needs to render
// responses. Development mode exposes internal error text; production never
// does.
type Writer struct {
	Log         *zap.SugaredLogger
	Development bool
}

func (wr *Writer) JSON(w http.ResponseWriter, statusCode int, data any, message string) {
	write(w, statusCode, Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	})
}

// Error translates any error into the envelope. Typed domain errors keep
// their status class; everything else defaults to 500 with internals
// suppressed outside development mode.
func (wr *Writer) Error(w http.ResponseWriter, err error) {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		details := apiErr.Errors
		if details == nil {
			details = []string{}
		}
		write(w, apiErr.StatusCode, ErrorEnvelope{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Errors:     details,
		})
		return
	}

	wr.Log.Errorw("unhandled error", "error", err)
	details := []string{}
	if wr.Development {
		details = []string{err.Error()}
	}
	write(w, http.StatusInternalServerError, ErrorEnvelope{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
		Errors:     details,
	})
}

func write(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
