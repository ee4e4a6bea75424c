package listener

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

var (
	// ErrSlowSubscriber reports a subscription closed because its queue
	// overflowed while the publisher was ahead of the consumer.
	ErrSlowSubscriber = errors.New("listener: slow subscriber")
	// ErrClosed reports the bus has shut down.
	ErrClosed = errors.New("listener: bus closed")
)

// Options configures the bus.
type Options struct {
	// BufferSize is the per-subscription queue capacity.
	BufferSize int
}

// Bus is the process-wide live pathway: one publisher, many subscriptions.
// Publish never blocks on a subscriber; a full queue terminates that
// subscription with ErrSlowSubscriber.
type Bus struct {
	mu     sync.Mutex
	subs   map[string]*Subscription
	closed bool
	bufLen int
	logger zerolog.Logger
}

// NewBus creates a bus with the given per-subscription buffer size.
func NewBus(opts Options, logger zerolog.Logger) *Bus {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1024
	}
	return &Bus{
		subs:   make(map[string]*Subscription),
		bufLen: opts.BufferSize,
		logger: logger.With().Str("component", "listener").Logger(),
	}
}

// Subscription is one live consumer's view of the bus. Receive from C until
// it closes, then consult Err.
type Subscription struct {
	id     string
	filter topic.Filter
	ch     chan *topic.Message

	bus *Bus

	errMu sync.Mutex
	err   error
}

// C returns the delivery channel. It closes when the subscription terminates.
func (s *Subscription) C() <-chan *topic.Message { return s.ch }

// Err returns why the subscription terminated, or nil after a plain
// Unsubscribe. Only meaningful once C is closed.
func (s *Subscription) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Unsubscribe detaches the subscription from the bus. Safe to call more than
// once and concurrently with Publish.
func (s *Subscription) Unsubscribe() {
	s.bus.remove(s, nil)
}

// Listen registers a subscription for f. The filter's SubscriberID keys the
// registration and must be unique among live subscriptions.
func (b *Bus) Listen(f topic.Filter) (*Subscription, error) {
	if f.SubscriberID == "" {
		return nil, errors.New("listener: subscriber id is required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	if _, ok := b.subs[f.SubscriberID]; ok {
		return nil, fmt.Errorf("listener: duplicate subscriber id %q", f.SubscriberID)
	}
	s := &Subscription{
		id:     f.SubscriberID,
		filter: f,
		ch:     make(chan *topic.Message, b.bufLen),
		bus:    b,
	}
	b.subs[f.SubscriberID] = s
	b.logger.Debug().Str("subscriber_id", s.id).Int64("topic_id", int64(f.TopicID)).Msg("subscription registered")
	return s, nil
}

// Publish fans m out to every matching subscription. Sends never block; a
// subscription whose queue is full is terminated with ErrSlowSubscriber.
func (b *Bus) Publish(m *topic.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, s := range b.subs {
		if s.filter.TopicID != m.TopicID || m.ConsensusTimestamp < s.filter.StartTime {
			continue
		}
		select {
		case s.ch <- m:
		default:
			b.logger.Warn().Str("subscriber_id", s.id).
				Int64("topic_id", int64(m.TopicID)).
				Msg("subscription queue overflow")
			b.removeLocked(s, ErrSlowSubscriber)
		}
	}
}

// ActiveSubscriptions returns the number of live subscriptions.
func (b *Bus) ActiveSubscriptions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close terminates every subscription with ErrClosed and rejects new listens.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, s := range b.subs {
		b.removeLocked(s, ErrClosed)
	}
}

func (b *Bus) remove(s *Subscription, cause error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(s, cause)
}

// removeLocked requires b.mu. Channel close happens under the bus lock so it
// cannot race Publish.
func (b *Bus) removeLocked(s *Subscription, cause error) {
	if _, ok := b.subs[s.id]; !ok {
		return
	}
	delete(b.subs, s.id)
	s.errMu.Lock()
	s.err = cause
	s.errMu.Unlock()
	close(s.ch)
}
