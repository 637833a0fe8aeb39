package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fanfeed/internal/models"
)

const defaultRateLimitCountdown = 30

// HTTPError is returned for any non-2xx response. Callers classify by
// Status; Body is kept only for logging.
type HTTPError struct {
	Status     int
	Body       string
	RetryAfter int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api responded with status %d", e.Status)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}

// Classify maps a client error onto the application error taxonomy.
// Anything that is not an HTTPError (timeouts, connection failures, decode
// errors) counts as internal: state must be left unchanged or rolled back
// by the caller.
func Classify(err error) *models.AppError {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return models.NewInternalError(err)
	}

	switch httpErr.Status {
	case http.StatusUnauthorized:
		return models.NewUnauthorizedError("Session expired, please log in again")
	case http.StatusForbidden:
		return models.NewSubscriptionRequiredError()
	case http.StatusTooManyRequests:
		countdown := httpErr.RetryAfter
		if countdown <= 0 {
			countdown = defaultRateLimitCountdown
		}
		return models.NewRateLimitError(countdown)
	case http.StatusNotFound:
		return models.NewNotFoundError("content", "requested")
	default:
		return models.NewInternalError(httpErr)
	}
}

func parseRetryAfter(header string) int {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}
