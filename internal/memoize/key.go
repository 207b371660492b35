package memoize

import (
	"maps"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// ErrUnhashable is returned when call arguments cannot be encoded into a cache key.
var ErrUnhashable = errors.New("unhashable argument")

// keyMode encodes keys with CBOR Core Deterministic Encoding: map keys are sorted,
// so keyword arguments produce the same bytes whatever order they were supplied in.
var keyMode cbor.EncMode

func init() {
	var err error
	keyMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("memoize: CBOR key encoder initialization failed: " + err.Error())
	}
}

// Key identifies a memoized call.
type Key string

// Args are the arguments of a memoized call: ordered positional values and named keyword values.
//
// Arguments are compared by encoded content, not by identity:
//   - pointers are dereferenced, so distinct pointers to equal values share a key;
//   - a struct and a map with the same field names and values share a key;
//   - numbers keep their kind, so 1 and 1.0 are different keys while int and int64 are not.
//
// Functions and channels cannot be encoded and yield ErrUnhashable.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// P returns Args holding the given positional values.
func P(positional ...any) Args {
	return Args{Positional: positional}
}

// With returns a copy of a with the keyword argument name set to value.
func (a Args) With(name string, value any) Args {
	kw := make(map[string]any, len(a.Keyword)+1)
	maps.Copy(kw, a.Keyword)
	kw[name] = value
	return Args{Positional: a.Positional, Keyword: kw}
}

// Key derives the cache key of a. Positional order is significant, keyword order is not.
func (a Args) Key() (Key, error) {
	positional := a.Positional
	if positional == nil {
		positional = []any{}
	}
	keyword := a.Keyword
	if keyword == nil {
		keyword = map[string]any{}
	}
	b, err := keyMode.Marshal([2]any{positional, keyword})
	if err != nil {
		return "", errors.Wrap(ErrUnhashable, err.Error())
	}
	return Key(b), nil
}

// NewKey derives the cache key of a call with positional arguments only.
func NewKey(positional ...any) (Key, error) {
	return P(positional...).Key()
}
