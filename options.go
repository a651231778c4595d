package groupcv

import "fmt"

// ShuffleMode selects how shuffle sources are seeded.
type ShuffleMode int

const (
	// ShuffleSharedSeed permutes every index slice with a fresh source seeded
	// with the same seed. Train and test of a fold, and every fold, start from
	// the same random stream.
	ShuffleSharedSeed ShuffleMode = iota

	// ShuffleIndependent seeds one source per Split call and draws from it
	// sequentially: train then test of the first fold, then the next fold.
	ShuffleIndependent
)

// String returns the mode name used in configs and plans.
func (m ShuffleMode) String() string {
	switch m {
	case ShuffleSharedSeed:
		return "shared"
	case ShuffleIndependent:
		return "independent"
	default:
		return fmt.Sprintf("ShuffleMode(%d)", int(m))
	}
}

// ParseShuffleMode parses the names returned by ShuffleMode.String.
func ParseShuffleMode(s string) (ShuffleMode, error) {
	switch s {
	case "shared", "":
		return ShuffleSharedSeed, nil
	case "independent":
		return ShuffleIndependent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidShuffleMode, s)
	}
}

// DefaultColumn is the column group labels are read from when none is configured.
const DefaultColumn = "site"

type options struct {
	column           string
	robust           bool
	shuffle          bool
	seed             *int64
	shuffleMode      ShuffleMode
	logger           *Logger
	metricsCollector MetricsCollector
}

func defaultOptions() options {
	return options{
		column:           DefaultColumn,
		robust:           true,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures a Splitter.
type Option func(*options)

// WithColumn sets the dataset column group labels are read from when no
// explicit groups are passed. Default "site".
func WithColumn(name string) Option {
	return func(o *options) {
		o.column = name
	}
}

// WithRobust enables or disables rejection of folds whose test targets hold a
// single distinct value. Enabled by default; it only applies when a target is
// supplied.
func WithRobust(robust bool) Option {
	return func(o *options) {
		o.robust = robust
	}
}

// WithShuffle enables or disables permuting the train and test indices of
// every fold. Disabled by default.
func WithShuffle(shuffle bool) Option {
	return func(o *options) {
		o.shuffle = shuffle
	}
}

// WithSeed fixes the shuffle seed. Without a seed every call draws a fresh
// random seed, so shuffled output is not reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithShuffleMode selects how shuffle sources are seeded.
// Default ShuffleSharedSeed.
func WithShuffleMode(mode ShuffleMode) Option {
	return func(o *options) {
		o.shuffleMode = mode
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		o.metricsCollector = c
	}
}
