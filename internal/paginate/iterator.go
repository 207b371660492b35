// Package paginate walks REST collections paginated through the "Link" response header.
//
// An Iterator fetches lazily: a page is requested only when the consumer asks for an item
// beyond the ones already buffered. Iterators are single-pass; create a new one to start over.
package paginate

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-github/v84/github"
	"github.com/isometry/gh-issue-bridge/internal/helpers"
	"github.com/isometry/gh-issue-bridge/internal/metrics"
	"github.com/pkg/errors"
	"github.com/tomnomnom/linkheader"
)

// Iterator yields the items of a paginated collection of JSON arrays.
type Iterator[T any] struct {
	ctx    context.Context
	client *github.Client
	opts   options
	logger *slog.Logger

	next     string // "" once exhausted
	page     []T
	current  T
	fetched  int
	requests int
	err      error
}

// New prepares an Iterator over the collection at rawURL. No request is issued until Next.
func New[T any](ctx context.Context, rawURL string, opts ...Option) (*Iterator[T], error) {
	o := options{URL: rawURL, PerPage: DefaultPerPage}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate.Struct(o); err != nil {
		return nil, errors.Wrap(err, "invalid pagination options")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if o.logger == nil {
		o.logger = helpers.NewNoopLogger()
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid url %s", rawURL)
	}
	q := u.Query()
	q.Set("per_page", strconv.Itoa(o.PerPage))
	u.RawQuery = q.Encode()

	return &Iterator[T]{
		ctx:    ctx,
		client: o.githubClient(ctx),
		opts:   o,
		logger: o.logger.WithGroup("paginate"),
		next:   u.String(),
	}, nil
}

// Next advances to the next item, fetching a new page when the buffered one is drained.
// It returns false when the collection is exhausted or a request failed; see Err.
func (it *Iterator[T]) Next() bool {
	for len(it.page) == 0 {
		if it.err != nil || it.next == "" {
			return false
		}
		it.fetch()
	}
	var zero T
	it.current = it.page[0]
	it.page[0] = zero
	it.page = it.page[1:]
	return true
}

// Value returns the item Next advanced to.
func (it *Iterator[T]) Value() T {
	return it.current
}

// Err returns the error that ended the iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Requests returns the number of page requests issued so far.
func (it *Iterator[T]) Requests() int {
	return it.requests
}

// All adapts the iterator to a range-over-func sequence. A failure is yielded last with a zero item.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next() {
			if !yield(it.Value(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

func (it *Iterator[T]) fetch() {
	pageURL := it.next
	it.next = ""
	it.requests++
	logger := it.logger.With(slog.String("url", pageURL), slog.Int("request", it.requests))
	logger.Debug("fetching page...")

	ctx := it.ctx
	if it.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.opts.Timeout)
		defer cancel()
	}

	req, err := it.client.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		it.err = errors.Wrapf(err, "failed to build request for %s", pageURL)
		return
	}
	for k, values := range it.opts.header {
		req.Header.Del(k)
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	var page []T
	resp, err := it.client.Do(ctx, req, &page)
	if err != nil {
		var accepted *github.AcceptedError
		if resp != nil && errors.As(err, &accepted) {
			// 202 is a success status: go-github reports it as an error and leaves the body in Raw.
			err = decodeAccepted(accepted.Raw, &page)
		}
		if err != nil {
			it.err = newRequestError(pageURL, err)
			logger.Warn("failed to fetch page", slog.Any("error", it.err))
			return
		}
	}
	metrics.PagesFetched.Inc()

	it.page = page
	it.fetched += len(page)
	logger.Debug("fetched page", slog.Int("items", len(page)), slog.Int("fetched", it.fetched))

	if it.opts.Limit > 0 && it.fetched >= it.opts.Limit {
		logger.Debug("limit reached. not following next link", slog.Int("limit", it.opts.Limit))
		return
	}
	it.next = nextLink(pageURL, resp.Header.Get("Link"))
}

func decodeAccepted[T any](raw []byte, page *[]T) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(raw, page), "failed to decode accepted page")
}

// nextLink returns the absolute URL of the rel="next" link, or "" if there is none.
func nextLink(current, header string) string {
	if header == "" {
		return ""
	}
	links := linkheader.Parse(header).FilterByRel("next")
	if len(links) == 0 || links[0].URL == "" {
		return ""
	}
	base, err := url.Parse(current)
	if err != nil {
		return links[0].URL
	}
	next, err := base.Parse(links[0].URL)
	if err != nil {
		return links[0].URL
	}
	return next.String()
}

// Collect drains it into a slice. Items fetched before a failure are returned with the error.
func Collect[T any](it *Iterator[T]) ([]T, error) {
	var items []T
	for it.Next() {
		items = append(items, it.Value())
	}
	return items, it.Err()
}
