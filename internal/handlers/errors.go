package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/shortener"
)

// ErrorDetail is the inner object of the error envelope.
type ErrorDetail struct {
	Message string   `doc:"Human readable error message"             json:"message"`
	Detail  string   `doc:"Underlying cause, development only"       json:"detail,omitempty"`
	Errors  []string `doc:"Request validation failures, if any"      json:"errors,omitempty"`
}

// ErrorModel is the error envelope returned by every operation:
// {"success": false, "error": {"message": "..."}}.
type ErrorModel struct {
	status  int
	Success bool        `json:"success"`
	Err     ErrorDetail `json:"error"`
}

func (e *ErrorModel) Error() string {
	return e.Err.Message
}

func (e *ErrorModel) GetStatus() int {
	return e.status
}

// NewError builds an ErrorModel. It replaces huma.NewError so that framework
// errors, such as request validation failures, share the envelope.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	var details []string

	for _, err := range errs {
		var detailer huma.ErrorDetailer
		if err == nil || !errors.As(err, &detailer) {
			continue
		}

		d := detailer.ErrorDetail()
		if d.Location != "" {
			details = append(details, fmt.Sprintf("%s: %s", d.Location, d.Message))
		} else {
			details = append(details, d.Message)
		}
	}

	return &ErrorModel{
		status: status,
		Err: ErrorDetail{
			Message: msg,
			Errors:  details,
		},
	}
}

// StatusClientClosedRequest is the nginx status for a request the client
// abandoned before the response was ready.
const StatusClientClosedRequest = 499

// statusFor maps a pipeline error to its HTTP status and public message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, shortener.ErrMissingURL):
		return http.StatusBadRequest, "URL is required"
	case errors.Is(err, shortener.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL format"
	case errors.Is(err, shortener.ErrMissingShortID):
		return http.StatusBadRequest, "Short ID is required"
	case errors.Is(err, shortener.ErrNotFound):
		return http.StatusNotFound, "URL not found"
	case errors.Is(err, shortener.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests, please try again later"
	case errors.Is(err, shortener.ErrGenerationExhausted):
		return http.StatusServiceUnavailable, "Could not allocate a short ID, please retry"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
