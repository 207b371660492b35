// Package webhook provides a read-only view over the headers of an inbound GitHub webhook delivery.
package webhook

import (
	"net/http"
	"strings"

	"github.com/google/go-github/v84/github"
)

// RequestHeader is an immutable view over the headers of a webhook request.
// Header names are matched case-insensitively.
type RequestHeader struct {
	headers map[string]string
}

// NewRequestHeader builds a RequestHeader from a raw header mapping.
func NewRequestHeader(headers map[string]string) RequestHeader {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[strings.ToLower(k)] = v
	}
	return RequestHeader{headers: h}
}

// FromHTTP builds a RequestHeader from net/http headers, keeping the first value of each header.
func FromHTTP(header http.Header) RequestHeader {
	h := make(map[string]string, len(header))
	for k, v := range header {
		if len(v) == 0 {
			continue
		}
		h[strings.ToLower(k)] = v[0]
	}
	return RequestHeader{headers: h}
}

// Lookup returns the value of the named header and whether it was present.
func (r RequestHeader) Lookup(name string) (string, bool) {
	v, ok := r.headers[strings.ToLower(name)]
	return v, ok
}

// Get returns the value of the named header, or an empty string if absent.
func (r RequestHeader) Get(name string) string {
	v, _ := r.Lookup(name)
	return v
}

// EventType returns the value of the X-GitHub-Event header.
func (r RequestHeader) EventType() string {
	return r.Get(github.EventTypeHeader)
}

// Signature returns the value of the X-Hub-Signature header.
func (r RequestHeader) Signature() string {
	return r.Get(github.SHA1SignatureHeader)
}

// Signature256 returns the value of the X-Hub-Signature-256 header.
func (r RequestHeader) Signature256() string {
	return r.Get(github.SHA256SignatureHeader)
}

// DeliveryID returns the value of the X-GitHub-Delivery header.
func (r RequestHeader) DeliveryID() string {
	return r.Get(github.DeliveryIDHeader)
}

// Map returns a copy of the normalised (lower-cased) header mapping.
func (r RequestHeader) Map() map[string]string {
	m := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		m[k] = v
	}
	return m
}
