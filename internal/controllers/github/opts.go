package github

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/isometry/gh-issue-bridge/internal/controllers/aws"
)

// WithToken sets the GitHub authentication token for the Controller instance.
func WithToken(token string) GHOption {
	return func(a *Controller) {
		a.credentials.Token = token
	}
}

// WithAppCredentials sets the GitHub App ID and PEM private key used to authenticate installations.
func WithAppCredentials(appID int64, privateKey string) GHOption {
	return func(a *Controller) {
		a.credentials.AppID = appID
		a.credentials.PrivateKey = privateKey
	}
}

// WithAuthMode sets the authentication mode for a Controller instance using the given mode string.
func WithAuthMode(mode string) GHOption {
	return func(a *Controller) {
		a.authMode = mode
	}
}

// WithAWSController sets the AWS controller used to fetch credentials from SSM.
func WithAWSController(aws *aws.Controller) GHOption {
	return func(a *Controller) {
		a.awsController = aws
	}
}

// WithSSMKey sets the SSM key used for fetching credentials.
func WithSSMKey(key string) GHOption {
	return func(a *Controller) {
		a.ssmKey = key
	}
}

// WithAPIURL sets the REST API root, e.g. https://github.example.com/api/v3/.
func WithAPIURL(apiURL string) GHOption {
	return func(a *Controller) {
		if apiURL != "" {
			a.apiURL = apiURL
		}
	}
}

// WithPagination sets the page size and the approximate item limit of repository listings.
func WithPagination(perPage, limit int) GHOption {
	return func(a *Controller) {
		if perPage > 0 {
			a.perPage = perPage
		}
		a.limit = limit
	}
}

// WithTimeout bounds each page request.
func WithTimeout(timeout time.Duration) GHOption {
	return func(a *Controller) {
		a.timeout = timeout
	}
}

// WithTransport sets the base HTTP transport of the spawned clients.
func WithTransport(transport http.RoundTripper) GHOption {
	return func(a *Controller) {
		a.transport = transport
	}
}

// WithContext sets the context used for API requests.
func WithContext(ctx context.Context) GHOption {
	return func(a *Controller) {
		a.ctx = ctx
	}
}

// WithLogger sets a custom logger for the Controller instance to use for logging operations.
func WithLogger(logger *slog.Logger) GHOption {
	return func(a *Controller) {
		a.logger = logger
	}
}
