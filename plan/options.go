package plan

import (
	"github.com/hupe1980/groupcv"
	"github.com/hupe1980/groupcv/codec"
	"golang.org/x/time/rate"
)

// DefaultConcurrency is the number of fold blobs transferred in parallel.
const DefaultConcurrency = 8

type options struct {
	codec       codec.Codec
	compression Compression
	concurrency int
	limiter     *rate.Limiter
	catalog     Catalog
	logger      *groupcv.Logger
}

func defaultOptions() options {
	return options{
		codec:       codec.Default,
		compression: CompressionNone,
		concurrency: DefaultConcurrency,
		logger:      groupcv.NoopLogger(),
	}
}

// Option configures a Writer or a Reader.
type Option func(*options)

// WithCodec sets the codec fold blobs are encoded with. Readers take the
// codec from the manifest and ignore this option.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression sets the fold blob compression. Readers take the
// compression from the manifest and ignore this option.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithConcurrency bounds the number of concurrent blob transfers.
// Values below 1 select DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultConcurrency
		}
		o.concurrency = n
	}
}

// WithRateLimit throttles blob transfers to limit requests per second with
// the given burst. Useful against request-rate limits of object stores.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *options) {
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithCatalog registers saved plans in c.
func WithCatalog(c Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *groupcv.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = groupcv.NoopLogger()
		}
		o.logger = l
	}
}
