// Package batch fetches results for many keys against a rate-limited service. Keys are processed in consecutive
// chunks with bounded concurrency and a fixed pause between chunks; each key is retried a fixed number of times
// with a fixed delay. A batch as a whole never fails: a key whose every attempt failed maps to an empty result.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Defaults match what the Height API tolerates.
const (
	DefaultConcurrency = 5
	DefaultChunkDelay  = 1000 * time.Millisecond
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 2000 * time.Millisecond
)

// ErrPanic wraps a panic recovered from a fetch function, which then counts as a failed attempt.
var ErrPanic = errors.New("fetch panicked")

// FetchFunc fetches the results for a single key.
type FetchFunc[K comparable, R any] func(ctx context.Context, key K) ([]R, error)

// Outcome is the fate of one key: its results (empty, not nil, on failure), how many attempts were made, and the
// last error if all of them failed.
type Outcome[R any] struct {
	Results  []R
	Attempts int
	Err      error
}

type settings struct {
	concurrency int
	chunkDelay  time.Duration
	maxRetries  int
	retryDelay  time.Duration
	sleep       func(context.Context, time.Duration) error
	log         *log.Entry
}

// Option configures a Fetcher.
type Option func(*settings)

// WithConcurrency sets both the chunk size and the number of concurrent fetches within a chunk. Non-positive
// values are ignored.
func WithConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithChunkDelay sets the pause between consecutive chunks.
func WithChunkDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.chunkDelay = d
		}
	}
}

// WithMaxRetries sets how many times a failed fetch is retried; a key is attempted at most n+1 times.
func WithMaxRetries(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelay sets the fixed pause before each retry.
func WithRetryDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// WithSleep replaces the function used to pause between chunks and retries. Meant to be used in tests.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(s *settings) {
		s.sleep = sleep
	}
}

// WithLogger sets the log entry progress and failures are reported to.
func WithLogger(entry *log.Entry) Option {
	return func(s *settings) {
		s.log = entry
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Fetcher runs a FetchFunc over batches of keys.
type Fetcher[K comparable, R any] struct {
	fetch FetchFunc[K, R]
	settings
}

// New creates a Fetcher with the defaults, as modified by opts.
func New[K comparable, R any](fetch FetchFunc[K, R], opts ...Option) *Fetcher[K, R] {
	f := &Fetcher[K, R]{
		fetch: fetch,
		settings: settings{
			concurrency: DefaultConcurrency,
			chunkDelay:  DefaultChunkDelay,
			maxRetries:  DefaultMaxRetries,
			retryDelay:  DefaultRetryDelay,
			sleep:       sleepContext,
			log:         log.NewEntry(log.StandardLogger()),
		},
	}
	for _, opt := range opts {
		opt(&f.settings)
	}
	return f
}

// FetchAll fetches every key and returns exactly one entry per distinct key. A key whose every attempt failed
// maps to an empty slice, which can't be told apart from a key with no results; use FetchAllOutcomes for that.
// Iterate over keys, not over the returned map, to present results in order.
func (f *Fetcher[K, R]) FetchAll(ctx context.Context, keys []K) map[K][]R {
	outcomes := f.FetchAllOutcomes(ctx, keys)
	results := make(map[K][]R, len(outcomes))
	for key, o := range outcomes {
		results[key] = o.Results
	}
	return results
}

// FetchAllOutcomes is FetchAll with the attempt count and last error of each key.
func (f *Fetcher[K, R]) FetchAllOutcomes(ctx context.Context, keys []K) map[K]Outcome[R] {
	outcomes := make(map[K]Outcome[R], len(keys))
	size := f.concurrency
	chunks := (len(keys) + size - 1) / size
	f.log.WithFields(log.Fields{
		"op":          "batch",
		"keys":        len(keys),
		"concurrency": size,
	}).Info("Fetching")
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]
		logEntry := f.log.WithFields(log.Fields{
			"op":     "batch",
			"chunk":  start/size + 1,
			"chunks": chunks,
			"keys":   len(chunk),
		})
		logEntry.Info("Processing chunk")

		// Each goroutine only writes its own slot.
		settled := make([]Outcome[R], len(chunk))
		var g errgroup.Group
		g.SetLimit(size)
		for i, key := range chunk {
			i, key := i, key
			g.Go(func() error {
				settled[i] = f.fetchKey(ctx, key)
				return nil
			})
		}
		_ = g.Wait()
		for i, key := range chunk {
			outcomes[key] = settled[i]
		}

		if end < len(keys) {
			logEntry.WithField("delay", f.chunkDelay).Info("Rate limiting before next chunk")
			if err := f.sleep(ctx, f.chunkDelay); err != nil {
				// The remaining keys will fail fast on the same context and get empty results.
				logEntry.WithField("cause", err).Warning("Chunk delay interrupted")
			}
		}
	}
	succeeded := 0
	for _, o := range outcomes {
		if len(o.Results) > 0 {
			succeeded++
		}
	}
	f.log.WithFields(log.Fields{
		"op":           "batch",
		"keys":         len(outcomes),
		"with_results": succeeded,
	}).Info("Fetched")
	return outcomes
}

// FetchOne fetches a single key with the same retry policy, but returns the last error instead of an empty result
// when all attempts fail.
func (f *Fetcher[K, R]) FetchOne(ctx context.Context, key K) ([]R, error) {
	results, _, err := f.fetchOne(ctx, key, 0)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []R{}
	}
	return results, nil
}

func (f *Fetcher[K, R]) fetchKey(ctx context.Context, key K) Outcome[R] {
	var o Outcome[R]
	o.Results, o.Attempts, o.Err = f.fetchOne(ctx, key, 0)
	if o.Err != nil {
		f.log.WithFields(log.Fields{
			"op":       "batch",
			"key":      key,
			"attempts": o.Attempts,
			"cause":    o.Err,
		}).Warning("Giving up, using empty result")
		o.Results = nil
	}
	if o.Results == nil {
		o.Results = []R{}
	}
	return o
}

// fetchOne returns the results, the number of attempts made, and the last error.
func (f *Fetcher[K, R]) fetchOne(ctx context.Context, key K, attempt int) ([]R, int, error) {
	results, err := f.call(ctx, key)
	if err == nil {
		return results, attempt + 1, nil
	}
	if attempt < f.maxRetries {
		f.log.WithFields(log.Fields{
			"op":      "batch",
			"key":     key,
			"attempt": attempt + 1,
			"retries": f.maxRetries,
			"cause":   err,
		}).Info("Retrying")
		if serr := f.sleep(ctx, f.retryDelay); serr != nil {
			return nil, attempt + 1, err
		}
		return f.fetchOne(ctx, key, attempt+1)
	}
	return nil, attempt + 1, err
}

func (f *Fetcher[K, R]) call(ctx context.Context, key K) (results []R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return f.fetch(ctx, key)
}
