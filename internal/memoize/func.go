package memoize

// Func is a memoized function: repeated calls with identical Args return the stored result.
type Func[V any] struct {
	cache *Cache[V]
	fn    func(Args) (V, error)
}

// Wrap memoizes fn. Options configure the underlying Cache.
func Wrap[V any](fn func(Args) (V, error), opts ...Option[V]) *Func[V] {
	return &Func[V]{
		cache: New(opts...),
		fn:    fn,
	}
}

// Call returns the memoized result of fn(args), computing it on a miss.
func (f *Func[V]) Call(args Args) (V, error) {
	key, err := args.Key()
	if err != nil {
		var zero V
		return zero, err
	}
	return f.cache.GetOrCompute(key, func() (V, error) {
		return f.fn(args)
	})
}

// Uncache removes the stored result for args without calling fn.
// It reports whether an entry was removed.
func (f *Func[V]) Uncache(args Args) (bool, error) {
	key, err := args.Key()
	if err != nil {
		return false, err
	}
	return f.cache.Invalidate(key), nil
}

// Cache returns the cache backing f.
func (f *Func[V]) Cache() *Cache[V] {
	return f.cache
}
