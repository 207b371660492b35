// Package github provides a Controller for GitHub credentials management and memoized repository listings.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v84/github"
	"github.com/isometry/gh-issue-bridge/internal/controllers/aws"
	"github.com/isometry/gh-issue-bridge/internal/helpers"
	"github.com/isometry/gh-issue-bridge/internal/memoize"
	"github.com/isometry/gh-issue-bridge/internal/paginate"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Listing names a memoized repository collection.
type Listing string

const (
	// ListingPullRequests is the collection of open pull requests.
	ListingPullRequests Listing = "pulls"
	// ListingIssues is the collection of open issues, pull requests excluded.
	ListingIssues Listing = "issues"
)

// GHOption is a functional option used to configure or modify the properties of a Controller instance.
type GHOption func(*Controller)

// Controller encapsulates GitHub credentials management and the memoized listings of repository items.
type Controller struct {
	mu          sync.RWMutex
	credentials Credentials

	authMode      string
	ssmKey        string
	apiURL        string
	perPage       int
	limit         int
	timeout       time.Duration
	transport     http.RoundTripper
	ctx           context.Context
	logger        *slog.Logger
	awsController *aws.Controller

	clients *memoize.Cache[*http.Client]
	pulls   *memoize.Func[[]*github.PullRequest]
	issues  *memoize.Func[[]*github.Issue]
}

// Credentials is a helper struct to hold the GitHub credentials.
type Credentials struct {
	AppID      int64  `json:"app_id,omitempty"`
	PrivateKey string `json:"private_key,omitempty"`
	Token      string `json:"token,omitempty"`
}

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...GHOption) (*Controller, error) {
	_inst := &Controller{
		apiURL:  "https://api.github.com/",
		perPage: paginate.DefaultPerPage,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.transport == nil {
		_inst.transport = http.DefaultTransport
	}
	if !strings.HasSuffix(_inst.apiURL, "/") {
		_inst.apiURL += "/"
	}
	_inst.logger = _inst.logger.With("authMode", _inst.authMode)

	_inst.clients = memoize.New(
		memoize.WithName[*http.Client]("clients"),
		memoize.WithLogger[*http.Client](_inst.logger),
		memoize.Except[*http.Client](nil))
	_inst.pulls = memoize.Wrap(
		func(args memoize.Args) ([]*github.PullRequest, error) {
			return listOpen[*github.PullRequest](_inst, ListingPullRequests, args)
		},
		memoize.WithName[[]*github.PullRequest](string(ListingPullRequests)),
		memoize.WithLogger[[]*github.PullRequest](_inst.logger),
		memoize.WithCacheable(nonEmpty[*github.PullRequest]))
	_inst.issues = memoize.Wrap(
		func(args memoize.Args) ([]*github.Issue, error) {
			items, err := listOpen[*github.Issue](_inst, ListingIssues, args)
			if err != nil {
				return nil, err
			}
			issues := make([]*github.Issue, 0, len(items))
			for _, item := range items {
				if !item.IsPullRequest() {
					issues = append(issues, item)
				}
			}
			return issues, nil
		},
		memoize.WithName[[]*github.Issue](string(ListingIssues)),
		memoize.WithLogger[[]*github.Issue](_inst.logger),
		memoize.WithCacheable(nonEmpty[*github.Issue]))

	return _inst, nil
}

// Credentials returns a copy of the resolved GitHub credentials.
func (g *Controller) Credentials() Credentials {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.credentials
}

// UsesToken reports whether requests authenticate with a token rather than as an installation.
func (g *Controller) UsesToken() bool {
	return g.Credentials().Token != ""
}

func (c Credentials) complete() bool {
	return c.Token != "" || (c.AppID != 0 && c.PrivateKey != "")
}

// RetrieveCredentials resolves the GitHub credentials for the configured authentication mode.
// It is safe for concurrent use; in ssm mode the parameter is fetched once.
func (g *Controller) RetrieveCredentials() error {
	switch strings.TrimSpace(strings.ToLower(g.authMode)) {
	case "token":
		if g.Credentials().Token == "" {
			return errors.New("missing [GITHUB_TOKEN]")
		}
	case "ssm":
		if g.Credentials().complete() {
			g.logger.Debug("using cached GitHub credentials...")
			return nil
		}
		return g.retrieveSSMCredentials()
	case "app":
		if creds := g.Credentials(); creds.AppID == 0 || creds.PrivateKey == "" {
			return errors.New("missing GitHub App credentials")
		}
	default:
		return fmt.Errorf("unsupported auth mode: %s", g.authMode)
	}
	return nil
}

func (g *Controller) retrieveSSMCredentials() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.credentials.complete() {
		return nil
	}
	if g.awsController == nil {
		return errors.New("ssm auth mode requires an AWS controller")
	}
	g.logger.Debug("retrieving credentials from SSM...")
	secret, err := g.awsController.GetSecret(g.ssmKey, true)
	if err != nil {
		return errors.Wrap(err, "failed to fetch credentials from SSM")
	}
	var creds Credentials
	if err = json.Unmarshal([]byte(helpers.String(secret)), &creds); err != nil {
		return errors.Wrap(err, "failed to unmarshal credentials")
	}
	if !creds.complete() {
		return errors.New("SSM parameter holds no usable GitHub credentials")
	}
	g.credentials = creds
	return nil
}

// HTTPClient returns an authenticated, rate-limit aware HTTP client. Clients are cached per installation.
func (g *Controller) HTTPClient(installationID int64) (*http.Client, error) {
	creds := g.Credentials()
	useToken := creds.Token != ""
	if useToken {
		installationID = 0
	}
	key, err := memoize.NewKey(installationID)
	if err != nil {
		return nil, err
	}
	return g.clients.GetOrCompute(key, func() (*http.Client, error) {
		logger := g.logger.With(slog.Int64("installationID", installationID))
		logger.Debug("cache miss. spawning client...")
		roundTripper := &loggingRoundTripper{logger: g.logger, next: g.transport}

		var transport http.RoundTripper
		if useToken {
			transport = &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}),
				Base:   roundTripper,
			}
		} else {
			if installationID == 0 {
				return nil, errors.New("no installation ID found")
			}
			itr, err := ghinstallation.New(roundTripper, creds.AppID, installationID, []byte(creds.PrivateKey))
			if err != nil {
				return nil, errors.Wrap(err, "failed to create installation transport")
			}
			itr.BaseURL = strings.TrimSuffix(g.apiURL, "/")
			transport = itr
		}
		return github_ratelimit.NewClient(transport), nil
	})
}

// OpenPullRequests lists the open pull requests of owner/repo. Non-empty results are memoized.
func (g *Controller) OpenPullRequests(installationID int64, owner, repo string) ([]*github.PullRequest, error) {
	return g.pulls.Call(repositoryArgs(installationID, owner, repo))
}

// OpenIssues lists the open issues of owner/repo, pull requests excluded. Non-empty results are memoized.
func (g *Controller) OpenIssues(installationID int64, owner, repo string) ([]*github.Issue, error) {
	return g.issues.Call(repositoryArgs(installationID, owner, repo))
}

// Invalidate drops the memoized listing of owner/repo and reports whether one was cached.
func (g *Controller) Invalidate(listing Listing, installationID int64, owner, repo string) (bool, error) {
	args := repositoryArgs(installationID, owner, repo)
	switch listing {
	case ListingPullRequests:
		return g.pulls.Uncache(args)
	case ListingIssues:
		return g.issues.Uncache(args)
	default:
		return false, fmt.Errorf("unknown listing: %s", listing)
	}
}

// CacheStats returns the number of entries of each memoization cache.
func (g *Controller) CacheStats() map[string]int {
	return map[string]int{
		g.clients.Name():        g.clients.Len(),
		g.pulls.Cache().Name():  g.pulls.Cache().Len(),
		g.issues.Cache().Name(): g.issues.Cache().Len(),
	}
}

func repositoryArgs(installationID int64, owner, repo string) memoize.Args {
	return memoize.P(strings.ToLower(owner), strings.ToLower(repo)).With("installation", installationID)
}

func listOpen[T any](g *Controller, listing Listing, args memoize.Args) ([]T, error) {
	owner, repo := args.Positional[0].(string), args.Positional[1].(string)
	installationID := args.Keyword["installation"].(int64)

	client, err := g.HTTPClient(installationID)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%srepos/%s/%s/%s?state=open", g.apiURL, url.PathEscape(owner), url.PathEscape(repo), listing)
	it, err := paginate.New[T](g.ctx, u,
		paginate.WithHTTPClient(client),
		paginate.WithPerPage(g.perPage),
		paginate.WithLimit(g.limit),
		paginate.WithTimeout(g.timeout),
		paginate.WithLogger(g.logger))
	if err != nil {
		return nil, err
	}
	g.logger.Debug("listing repository items...", slog.String("listing", string(listing)), slog.String("repository", owner+"/"+repo))
	return paginate.Collect(it)
}

func nonEmpty[T any](items []T) bool {
	return len(items) > 0
}

// ParseAppID parses a GitHub App ID as found in configuration.
func ParseAppID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid GitHub App ID %q", s)
	}
	return id, nil
}

type loggingRoundTripper struct {
	logger *slog.Logger
	next   http.RoundTripper
}

// RoundTrip logs the request and response.
func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var buf bytes.Buffer
	if req.Body != nil {
		_, _ = io.ReadAll(io.TeeReader(req.Body, &buf))
		req.Body = io.NopCloser(&buf)
	}
	l.logger.Log(req.Context(), slog.Level(-8), "sending request", slog.String("method", req.Method), slog.String("url", req.URL.String()), slog.Int("bodyBytes", buf.Len()))
	resp, err := l.next.RoundTrip(req)
	if err != nil {
		l.logger.Log(req.Context(), slog.Level(-8), "failed to send request", slog.Any("error", err))
		return nil, err
	}
	l.logger.Log(req.Context(), slog.Level(-8), "received response", slog.String("status", resp.Status))
	return resp, nil
}
