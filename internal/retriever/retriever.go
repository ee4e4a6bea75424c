package retriever

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/store"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// ErrUnavailable reports that storage stayed unreachable through the whole
// retry budget.
var ErrUnavailable = errors.New("retriever: storage unavailable")

// MessagePager is the storage port the retriever pulls pages from.
type MessagePager interface {
	Page(ctx context.Context, f topic.Filter, limit int) ([]*topic.Message, error)
}

// RetryPolicy bounds retries of transient page errors. Backoff is exponential
// with full jitter.
type RetryPolicy struct {
	MaxAttempts uint32
	Base        time.Duration
	Cap         time.Duration
}

// DefaultRetryPolicy returns the retry budget used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Base: 100 * time.Millisecond, Cap: 2 * time.Second}
}

// Options configures a Retriever.
type Options struct {
	// MaxPageSize caps messages fetched per storage page.
	MaxPageSize int
	// ThrottlePace is the delay inserted between pages of a throttled retrieve.
	ThrottlePace time.Duration
	Retry        RetryPolicy
}

func (o *Options) withDefaults() {
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 1000
	}
	if o.ThrottlePace <= 0 {
		o.ThrottlePace = 25 * time.Millisecond
	}
	if o.Retry.MaxAttempts == 0 {
		o.Retry = DefaultRetryPolicy()
	}
}

// Retriever pulls historical topic messages page by page.
type Retriever struct {
	pager  MessagePager
	opts   Options
	logger zerolog.Logger
}

// New constructs a Retriever over the given pager.
func New(pager MessagePager, opts Options, logger zerolog.Logger) *Retriever {
	opts.withDefaults()
	return &Retriever{
		pager:  pager,
		opts:   opts,
		logger: logger.With().Str("component", "retriever").Logger(),
	}
}

// Retrieve streams every stored message matching f to each, in consensus
// order. The cursor advances past each delivered message, so redelivery after
// a retried page error is impossible. A short page ends the retrieve.
//
// throttled paces page fetches for long-running drains; backfills pass false.
// An error from each stops the retrieve and is returned as-is.
func (r *Retriever) Retrieve(ctx context.Context, f topic.Filter, throttled bool, each func(*topic.Message) error) error {
	cursor := f.StartTime
	remaining := f.Limit
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pageLimit := r.opts.MaxPageSize
		if f.HasLimit() && remaining < int64(pageLimit) {
			pageLimit = int(remaining)
		}
		if pageLimit == 0 {
			return nil
		}

		pf := f
		pf.StartTime = cursor
		page, err := r.pageWithRetry(ctx, pf, pageLimit)
		if err != nil {
			return err
		}

		for _, m := range page {
			if err := each(m); err != nil {
				return err
			}
			cursor = m.ConsensusTimestamp + 1
			if f.HasLimit() {
				remaining--
			}
		}

		if len(page) < pageLimit {
			return nil
		}
		if f.HasLimit() && remaining == 0 {
			return nil
		}

		if throttled {
			if err := sleep(ctx, r.opts.ThrottlePace); err != nil {
				return err
			}
		}
	}
}

func (r *Retriever) pageWithRetry(ctx context.Context, f topic.Filter, limit int) ([]*topic.Message, error) {
	var lastErr error
	for attempt := uint32(1); attempt <= r.opts.Retry.MaxAttempts; attempt++ {
		page, err := r.pager.Page(ctx, f, limit)
		if err == nil {
			return page, nil
		}
		if isFatal(err) {
			return nil, err
		}
		lastErr = err
		r.logger.Warn().Err(err).
			Uint32("attempt", attempt).
			Int64("topic_id", int64(f.TopicID)).
			Msg("transient page error")
		if attempt == r.opts.Retry.MaxAttempts {
			break
		}
		if err := sleep(ctx, backoff(r.opts.Retry, attempt)); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

// isFatal reports errors that retrying cannot help.
func isFatal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, store.ErrCorruptRecord)
}

func backoff(pol RetryPolicy, attempt uint32) time.Duration {
	d := pol.Base << (attempt - 1)
	if pol.Cap > 0 && d > pol.Cap {
		d = pol.Cap
	}
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d)))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
