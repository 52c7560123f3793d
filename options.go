package analogy

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Default ranking parameters. SearchSpace bounds candidate scoring to the
// most frequent part of the vocabulary; full-vocabulary scans buy little
// accuracy at much higher cost.
const (
	DefaultTopN        = 10
	DefaultSearchSpace = 30000
)

type options struct {
	topN        int
	searchSpace int
	restrict    *roaring.Bitmap
	workers     int
	logger      *Logger
}

func defaultOptions() options {
	return options{
		topN:        DefaultTopN,
		searchSpace: DefaultSearchSpace,
		workers:     1,
	}
}

// Option configures Resolver and Runner behavior.
//
// Invalid values are not corrected here; Resolve validates its parameters
// and fails the query with ErrInvalidParameter.
type Option func(*options)

// WithTopN configures the display breadth: how many top-ranked candidates
// a Ranking exposes.
func WithTopN(n int) Option {
	return func(o *options) {
		o.topN = n
	}
}

// WithSearchSpace configures the ranking breadth: how many of the most
// frequent vocabulary tokens are scored as candidates.
func WithSearchSpace(n int) Option {
	return func(o *options) {
		o.searchSpace = n
	}
}

// WithRestrict limits candidacy to the vocabulary rows (frequency-rank
// positions) contained in the bitmap, intersected with the search-space
// prefix. Nil means no restriction.
func WithRestrict(rb *roaring.Bitmap) Option {
	return func(o *options) {
		o.restrict = rb
	}
}

// WithWorkers configures how many queries a Runner resolves concurrently.
// Values below 2 keep the run sequential. Output order is always the
// input order.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger configures structured logging. If never set, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
