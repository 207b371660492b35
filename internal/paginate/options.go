package paginate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// DefaultPerPage is the page size requested when none is configured.
const DefaultPerPage = 100

var validate = validator.New(validator.WithRequiredStructEnabled())

// Option configures an Iterator.
type Option func(*options)

type options struct {
	URL     string        `validate:"required,http_url"`
	PerPage int           `validate:"min=1"`
	Limit   int           `validate:"min=0"`
	Timeout time.Duration `validate:"min=0s"`

	header     http.Header
	token      string
	client     *github.Client
	httpClient *http.Client
	logger     *slog.Logger
}

// WithClient reuses a go-github client (and its connection pool) for all page requests.
func WithClient(client *github.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithHTTPClient builds the go-github client on top of the given HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithPerPage sets the per_page query parameter of the first request, overriding any existing value.
func WithPerPage(n int) Option {
	return func(o *options) {
		o.PerPage = n
	}
}

// WithLimit stops requesting further pages once at least n items have been fetched.
// The page that reaches the limit is still returned in full. Zero means no limit.
func WithLimit(n int) Option {
	return func(o *options) {
		o.Limit = n
	}
}

// WithTimeout bounds each page request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.Timeout = d
	}
}

// WithHeader adds a header to every page request.
func WithHeader(key, value string) Option {
	return func(o *options) {
		if o.header == nil {
			o.header = make(http.Header)
		}
		o.header.Add(key, value)
	}
}

// WithToken authenticates page requests with a static OAuth2 bearer token.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithLogger sets the logger used to trace page requests.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func (o *options) githubClient(ctx context.Context) *github.Client {
	if o.client != nil {
		if o.token != "" {
			return o.client.WithAuthToken(o.token)
		}
		return o.client
	}
	hc := o.httpClient
	if o.token != "" {
		if hc != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
		}
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}))
	}
	return github.NewClient(hc)
}
