package bplus

import (
	"io"
	"log/slog"
)

// DefaultCacheEntries is the value cache size used when WithValueCache is
// not given. Zero disables the cache.
const DefaultCacheEntries = 1024

type options struct {
	logger       *slog.Logger
	cacheEntries int64
}

// Option configures a tree at construction time.
type Option func(*options)

// WithLogger sets the structured logger used for split, save and load events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithValueCache sets how many values Search keeps in its read cache.
// n <= 0 disables caching.
func WithValueCache(n int) Option {
	return func(o *options) {
		o.cacheEntries = int64(n)
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		cacheEntries: DefaultCacheEntries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
