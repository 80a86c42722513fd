// Package handler translates HTTP requests into service calls and service
// results into JSON responses.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/model"

	"github.com/rs/zerolog"
)

// requestError is a client error detected while decoding a request.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(code, message string) *requestError {
	return &requestError{status: http.StatusBadRequest, code: code, message: message}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already sent
		return
	}
}

// writeData wraps payload in the standard data envelope.
func writeData(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, model.DataResponse{Data: payload})
}

// writeError maps err to a status code and error body. Unexpected errors are
// logged with their detail and reported to the client generically.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	resp := model.ErrorResponse{
		CorrelationID: middleware.GetRequestID(r.Context()),
	}

	var (
		reqErr      *requestError
		validErr    *model.ValidationError
		domainErr   *model.DomainError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		resp.StatusCode = http.StatusRequestEntityTooLarge
		resp.Error = model.ErrCodePayloadTooLarge
		resp.Message = "Request body too large"
	case errors.As(err, &reqErr):
		resp.StatusCode = reqErr.status
		resp.Error = reqErr.code
		resp.Message = reqErr.message
	case errors.As(err, &validErr):
		resp.StatusCode = http.StatusBadRequest
		resp.Error = model.ErrCodeValidationFailed
		resp.Message = "Validation failed"
		resp.Fields = validErr.Fields
	case errors.Is(err, model.ErrProductNotFound):
		resp.StatusCode = http.StatusNotFound
		resp.Error = model.ErrCodeProductNotFound
		resp.Message = model.ErrProductNotFound.Message
	case errors.As(err, &domainErr):
		resp.StatusCode = http.StatusBadRequest
		resp.Error = domainErr.Code
		resp.Message = domainErr.Message
	default:
		resp.StatusCode = http.StatusInternalServerError
		resp.Error = model.ErrCodeInternalError
		resp.Message = "An unexpected error occurred"
	}

	event := logger.Warn()
	if resp.StatusCode >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Err(err).
		Str("request_id", resp.CorrelationID).
		Str("code", resp.Error).
		Int("status", resp.StatusCode).
		Msg("handler error")

	writeJSON(w, resp.StatusCode, resp)
}
