package paginate

import (
	"fmt"

	"github.com/google/go-github/v84/github"
	"github.com/isometry/gh-issue-bridge/internal/metrics"
	"github.com/pkg/errors"
)

// RequestError reports a page request answered with a non-success status.
// Message carries the "message" field of the response body.
type RequestError struct {
	StatusCode int
	URL        string
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("GET %s: %d", e.URL, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func newRequestError(url string, err error) error {
	var (
		errResp   *github.ErrorResponse
		rateErr   *github.RateLimitError
		abuseErr  *github.AbuseRateLimitError
		status    int
		message   string
		isRequest = true
	)
	switch {
	case errors.As(err, &rateErr):
		message = rateErr.Message
		if rateErr.Response != nil {
			status = rateErr.Response.StatusCode
		}
	case errors.As(err, &abuseErr):
		message = abuseErr.Message
		if abuseErr.Response != nil {
			status = abuseErr.Response.StatusCode
		}
	case errors.As(err, &errResp):
		message = errResp.Message
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
	default:
		isRequest = false
	}

	if !isRequest {
		metrics.PageErrors.WithLabelValues("transport").Inc()
		return errors.Wrapf(err, "failed to fetch %s", url)
	}
	metrics.PageErrors.WithLabelValues("status").Inc()
	return &RequestError{StatusCode: status, URL: url, Message: message, Err: err}
}
