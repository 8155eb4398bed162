package batch_test

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nicolagi/height/batch"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

// recorder keeps a totally ordered trace of fetches and sleeps.
type recorder struct {
	sync.Mutex
	events []string
	calls  map[string]int
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[string]int)}
}

func (r *recorder) record(event string) {
	r.Lock()
	defer r.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) fetched(key string) int {
	r.Lock()
	defer r.Unlock()
	r.calls[key]++
	r.events = append(r.events, "fetch:"+key)
	return r.calls[key]
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.record("sleep:" + d.String())
	return nil
}

func (r *recorder) count(event string) int {
	r.Lock()
	defer r.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func quietLogger() *log.Entry {
	l := log.New()
	l.SetOutput(ioutil.Discard)
	return log.NewEntry(l)
}

func newFetcher(r *recorder, fetch batch.FetchFunc[string, int], opts ...batch.Option) *batch.Fetcher[string, int] {
	opts = append([]batch.Option{batch.WithSleep(r.sleep), batch.WithLogger(quietLogger())}, opts...)
	return batch.New(fetch, opts...)
}

func keys(n int) []string {
	var result []string
	for i := 0; i < n; i++ {
		result = append(result, fmt.Sprintf("k%02d", i))
	}
	return result
}

func TestFetchAllChunks(t *testing.T) {
	r := newRecorder()
	f := newFetcher(r, func(ctx context.Context, key string) ([]int, error) {
		r.fetched(key)
		return []int{len(key)}, nil
	})

	results := f.FetchAll(context.Background(), keys(12))
	require.Len(t, results, 12)

	var sizes []int
	n := 0
	for _, e := range r.events {
		switch {
		case strings.HasPrefix(e, "fetch:"):
			n++
		case e == "sleep:"+batch.DefaultChunkDelay.String():
			sizes = append(sizes, n)
			n = 0
		default:
			t.Fatalf("unexpected event %q", e)
		}
	}
	sizes = append(sizes, n)
	assert.Equal(t, []int{5, 5, 2}, sizes)
	assert.Equal(t, 2, r.count("sleep:"+batch.DefaultChunkDelay.String()))
}

func TestFetchAllKeySet(t *testing.T) {
	testCases := []struct {
		name string
		keys []string
		want []string
	}{
		{name: "empty", keys: nil, want: nil},
		{name: "single", keys: []string{"a"}, want: []string{"a"}},
		{name: "duplicates", keys: []string{"a", "b", "a", "c", "b", "a", "d"}, want: []string{"a", "b", "c", "d"}},
		{name: "many", keys: keys(23), want: keys(23)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRecorder()
			f := newFetcher(r, func(ctx context.Context, key string) ([]int, error) {
				r.fetched(key)
				return []int{1}, nil
			})
			results := f.FetchAll(context.Background(), tc.keys)
			require.Len(t, results, len(tc.want))
			for _, k := range tc.want {
				assert.Equal(t, []int{1}, results[k], k)
			}
		})
	}
}

func TestFetchAllNeverFails(t *testing.T) {
	r := newRecorder()
	f := newFetcher(r, func(ctx context.Context, key string) ([]int, error) {
		r.fetched(key)
		return nil, errFlaky
	})

	in := keys(7)
	outcomes := f.FetchAllOutcomes(context.Background(), in)
	require.Len(t, outcomes, len(in))
	for _, k := range in {
		o := outcomes[k]
		assert.NotNil(t, o.Results, k)
		assert.Empty(t, o.Results, k)
		assert.Equal(t, batch.DefaultMaxRetries+1, o.Attempts, k)
		assert.True(t, errors.Is(o.Err, errFlaky), k)
		assert.Equal(t, batch.DefaultMaxRetries+1, r.calls[k], k)
	}
	// Every key waits before each of its retries.
	assert.Equal(t, len(in)*batch.DefaultMaxRetries, r.count("sleep:"+batch.DefaultRetryDelay.String()))

	results := f.FetchAll(context.Background(), in)
	require.Len(t, results, len(in))
	for _, k := range in {
		assert.Equal(t, []int{}, results[k])
	}
}

func TestFetchAllRetriesThenSucceeds(t *testing.T) {
	r := newRecorder()
	f := newFetcher(r, func(ctx context.Context, key string) ([]int, error) {
		if r.fetched(key) < 3 {
			return nil, errFlaky
		}
		return []int{7, 8}, nil
	})
	outcomes := f.FetchAllOutcomes(context.Background(), []string{"x"})
	assert.Equal(t, []int{7, 8}, outcomes["x"].Results)
	assert.Equal(t, 3, outcomes["x"].Attempts)
	assert.Nil(t, outcomes["x"].Err)
	assert.Equal(t, 2, r.count("sleep:"+batch.DefaultRetryDelay.String()))
}

func TestFetchAllCustomRetries(t *testing.T) {
	r := newRecorder()
	f := newFetcher(r, func(ctx context.Context, key string) ([]int, error) {
		r.fetched(key)
		return nil, errFlaky
	}, batch.WithMaxRetries(1), batch.WithRetryDelay(time.Second))
	outcomes := f.FetchAllOutcomes(context.Background(), []string{"x"})
	assert.Equal(t, 2, outcomes["x"].Attempts)
	assert.Equal(t, 1, r.count("sleep:1s"))
}

func TestFetchAllBoundsConcurrency(t *testing.T) {
	var inflight, peak int32
	f := batch.New(func(ctx context.Context, key string) ([]int, error) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		return nil, nil
	}, batch.WithConcurrency(3), batch.WithChunkDelay(0), batch.WithLogger(quietLogger()))

	results := f.FetchAll(context.Background(), keys(10))
	assert.Len(t, results, 10)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	for _, v := range results {
		assert.NotNil(t, v)
	}
}

func TestFetchAllRecoversPanics(t *testing.T) {
	r := newRecorder()
	f := newFetcher(r, func(ctx context.Context, key string) ([]int, error) {
		r.fetched(key)
		if key == "bad" {
			panic("boom")
		}
		return []int{1}, nil
	}, batch.WithMaxRetries(0))
	outcomes := f.FetchAllOutcomes(context.Background(), []string{"good", "bad"})
	assert.Equal(t, []int{1}, outcomes["good"].Results)
	assert.Equal(t, []int{}, outcomes["bad"].Results)
	assert.True(t, errors.Is(outcomes["bad"].Err, batch.ErrPanic))
}

func TestFetchAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := batch.New(func(ctx context.Context, key string) ([]int, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []int{1}, nil
	}, batch.WithLogger(quietLogger()))
	results := f.FetchAll(ctx, keys(8))
	require.Len(t, results, 8)
	for _, v := range results {
		assert.Equal(t, []int{}, v)
	}
}

func TestFetchOne(t *testing.T) {
	r := newRecorder()
	f := newFetcher(r, func(ctx context.Context, key string) ([]int, error) {
		r.fetched(key)
		if key == "bad" {
			return nil, errFlaky
		}
		return nil, nil
	})

	results, err := f.FetchOne(context.Background(), "good")
	require.Nil(t, err)
	assert.Equal(t, []int{}, results)

	_, err = f.FetchOne(context.Background(), "bad")
	assert.True(t, errors.Is(err, errFlaky))
	assert.Equal(t, batch.DefaultMaxRetries+1, r.calls["bad"])
}
