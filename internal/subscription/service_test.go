package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/listener"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/retriever"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/store"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

const testTopic topic.EntityID = 7

func tmsg(ts int64, seq uint64) *topic.Message {
	return &topic.Message{TopicID: testTopic, ConsensusTimestamp: ts, SequenceNumber: seq}
}

type fakeEntities struct {
	entities map[topic.EntityID]topic.Entity
	calls    int
}

func (f *fakeEntities) Find(ctx context.Context, id topic.EntityID) (topic.Entity, error) {
	f.calls++
	e, ok := f.entities[id]
	if !ok {
		return topic.Entity{}, store.ErrEntityNotFound
	}
	return e, nil
}

func topicEntities() *fakeEntities {
	return &fakeEntities{entities: map[topic.EntityID]topic.Entity{
		testTopic: {ID: testTopic, Type: topic.EntityTypeTopic},
	}}
}

type retrieveCall struct {
	f         topic.Filter
	throttled bool
}

type retrieveResponse struct {
	msgs []*topic.Message
	err  error
}

// fakeRetriever replays scripted responses, one per Retrieve call.
type fakeRetriever struct {
	responses []retrieveResponse
	calls     []retrieveCall
}

func (r *fakeRetriever) Retrieve(ctx context.Context, f topic.Filter, throttled bool, each func(*topic.Message) error) error {
	r.calls = append(r.calls, retrieveCall{f: f, throttled: throttled})
	if len(r.responses) == 0 {
		return nil
	}
	resp := r.responses[0]
	r.responses = r.responses[1:]
	if resp.err != nil {
		return resp.err
	}
	for _, m := range resp.msgs {
		if err := each(m); err != nil {
			return err
		}
	}
	return nil
}

type fakeLive struct {
	ch       chan *topic.Message
	err      error
	unsubbed bool
}

func (l *fakeLive) C() <-chan *topic.Message { return l.ch }
func (l *fakeLive) Err() error               { return l.err }
func (l *fakeLive) Unsubscribe()             { l.unsubbed = true }

type fakeListener struct {
	live   *fakeLive
	err    error
	filter topic.Filter
}

func (l *fakeListener) Listen(f topic.Filter) (LiveSubscription, error) {
	l.filter = f
	if l.err != nil {
		return nil, l.err
	}
	return l.live, nil
}

// newLive returns a live subscription preloaded with msgs. closed controls
// whether the channel is closed after the preload, which ends the live loop
// with the subscription's Err once the queue drains.
func newLive(closed bool, msgs ...*topic.Message) *fakeLive {
	l := &fakeLive{ch: make(chan *topic.Message, len(msgs)+16)}
	for _, m := range msgs {
		l.ch <- m
	}
	if closed {
		close(l.ch)
	}
	return l
}

type captureSink struct {
	msgs    []*topic.Message
	failAt  int
	sendErr error
}

func (s *captureSink) Send(m *topic.Message) error {
	if s.sendErr != nil && len(s.msgs)+1 == s.failAt {
		return s.sendErr
	}
	s.msgs = append(s.msgs, m)
	return nil
}

func (s *captureSink) sequences() []uint64 {
	out := make([]uint64, 0, len(s.msgs))
	for _, m := range s.msgs {
		out = append(out, m.SequenceNumber)
	}
	return out
}

type captureMetrics struct {
	started   int
	outcome   string
	delivered int
}

func (m *captureMetrics) SubscriptionStarted()                        { m.started++ }
func (m *captureMetrics) SubscriptionEnded(o string, _ time.Duration) { m.outcome = o }
func (m *captureMetrics) MessageDelivered(time.Duration)              { m.delivered++ }

func newService(e EntityLookup, r Retriever, l Listener, m Metrics) *Service {
	return New(e, r, l, m, Options{CheckTopicExists: true}, zerolog.Nop())
}

func wantSequences(t *testing.T, sink *captureSink, want ...uint64) {
	t.Helper()
	got := sink.sequences()
	if len(got) != len(want) {
		t.Fatalf("delivered %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivered %v, want %v", got, want)
		}
	}
}

func TestSubscribeHistoricalThenLive(t *testing.T) {
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1), tmsg(110, 2)}},
	}}
	live := newLive(true, tmsg(120, 3), tmsg(130, 4))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, sink)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 1, 2, 3, 4)
	if !live.unsubbed {
		t.Fatal("live subscription must be released")
	}
	if len(r.calls) != 1 || !r.calls[0].throttled {
		t.Fatalf("historical drain must be the single throttled retrieve, got %+v", r.calls)
	}
}

func TestSubscribeDropsSeamDuplicates(t *testing.T) {
	// The live registration opens before the drain, so early live arrivals
	// can duplicate what the drain already delivered.
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1), tmsg(110, 2)}},
	}}
	live := newLive(true, tmsg(100, 1), tmsg(110, 2), tmsg(120, 3))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	if err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, sink); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 1, 2, 3)
}

func TestSubscribeBackfillsSequenceGap(t *testing.T) {
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1)}},
		{msgs: []*topic.Message{tmsg(110, 2), tmsg(120, 3)}},
	}}
	live := newLive(true, tmsg(130, 4))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	if err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, sink); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 1, 2, 3, 4)

	if len(r.calls) != 2 {
		t.Fatalf("want 2 retrieves, got %d", len(r.calls))
	}
	bf := r.calls[1]
	if bf.throttled {
		t.Fatal("backfill must not be throttled")
	}
	if bf.f.StartTime != 101 || bf.f.EndTime != 130 || bf.f.Limit != 2 {
		t.Fatalf("unexpected backfill window %+v", bf.f)
	}
}

func TestSubscribePartialBackfillFails(t *testing.T) {
	// Storage closes only part of the gap: the contiguous prefix is
	// delivered, then the subscription fails.
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1)}},
		{msgs: []*topic.Message{tmsg(110, 2), tmsg(120, 3)}},
	}}
	live := newLive(true, tmsg(140, 5))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, sink)
	if !errors.Is(err, ErrMissingMessages) {
		t.Fatalf("want ErrMissingMessages, got %v", err)
	}
	wantSequences(t, sink, 1, 2, 3)
}

func TestSubscribeNonContiguousBackfillFails(t *testing.T) {
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1)}},
		{msgs: []*topic.Message{tmsg(120, 3)}},
	}}
	live := newLive(true, tmsg(130, 4))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, sink)
	if !errors.Is(err, ErrMissingMessages) {
		t.Fatalf("want ErrMissingMessages, got %v", err)
	}
	wantSequences(t, sink, 1)
}

func TestSubscribeFirstLiveMessageNeedsNoBackfill(t *testing.T) {
	// Nothing was emitted yet, so a high starting sequence is not a gap.
	r := &fakeRetriever{}
	live := newLive(true, tmsg(130, 5), tmsg(140, 6))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	if err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, sink); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 5, 6)
	if len(r.calls) != 1 {
		t.Fatalf("no backfill expected, got %d retrieves", len(r.calls))
	}
}

func TestSubscribeLimitCompletes(t *testing.T) {
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1)}},
	}}
	live := newLive(false, tmsg(110, 2), tmsg(120, 3))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic, Limit: 2}, sink)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 1, 2)
}

func TestSubscribeLimitReachedDuringDrain(t *testing.T) {
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1), tmsg(110, 2), tmsg(120, 3)}},
	}}
	live := newLive(false)
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic, Limit: 2}, sink)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 1, 2)
}

func TestSubscribeEndTimeExclusive(t *testing.T) {
	end := time.Now().Add(10 * time.Second).UnixNano()
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1)}},
	}}
	// The second live arrival sits exactly at the end time and must not be
	// delivered.
	live := newLive(false, tmsg(110, 2), tmsg(end, 3))
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic, EndTime: end}, sink)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 1, 2)
}

func TestSubscribePastEndTimeCompletesAfterDrain(t *testing.T) {
	end := time.Now().Add(-time.Second).UnixNano()
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1), tmsg(110, 2)}},
	}}
	live := newLive(false)
	sink := &captureSink{}
	svc := newService(topicEntities(), r, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic, EndTime: end}, sink)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	wantSequences(t, sink, 1, 2)
}

func TestSubscribeValidationError(t *testing.T) {
	m := &captureMetrics{}
	svc := newService(topicEntities(), &fakeRetriever{}, &fakeListener{live: newLive(true)}, m)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: 0}, &captureSink{})
	var ve *topic.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *topic.ValidationError, got %v", err)
	}
	if m.started != 1 || m.outcome != OutcomeInvalidArgument {
		t.Fatalf("metrics started=%d outcome=%q", m.started, m.outcome)
	}
}

func TestSubscribeTopicNotFound(t *testing.T) {
	cases := map[string]*fakeEntities{
		"unknown entity": {entities: map[topic.EntityID]topic.Entity{}},
		"deleted topic": {entities: map[topic.EntityID]topic.Entity{
			testTopic: {ID: testTopic, Type: topic.EntityTypeTopic, Deleted: true},
		}},
	}
	for name, ents := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newService(ents, &fakeRetriever{}, &fakeListener{live: newLive(true)}, nil)
			err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, &captureSink{})
			if !errors.Is(err, ErrTopicNotFound) {
				t.Fatalf("want ErrTopicNotFound, got %v", err)
			}
		})
	}
}

func TestSubscribeTopicWrongType(t *testing.T) {
	ents := &fakeEntities{entities: map[topic.EntityID]topic.Entity{
		testTopic: {ID: testTopic, Type: topic.EntityTypeAccount},
	}}
	m := &captureMetrics{}
	svc := newService(ents, &fakeRetriever{}, &fakeListener{live: newLive(true)}, m)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, &captureSink{})
	if !errors.Is(err, ErrTopicWrongType) {
		t.Fatalf("want ErrTopicWrongType, got %v", err)
	}
	if m.outcome != OutcomeInvalidArgument {
		t.Fatalf("outcome %q, want %q", m.outcome, OutcomeInvalidArgument)
	}
}

func TestSubscribeSkipsTopicCheckWhenDisabled(t *testing.T) {
	ents := &fakeEntities{entities: map[topic.EntityID]topic.Entity{}}
	svc := New(ents, &fakeRetriever{}, &fakeListener{live: newLive(true)}, nil,
		Options{CheckTopicExists: false}, zerolog.Nop())

	if err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, &captureSink{}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if ents.calls != 0 {
		t.Fatalf("entity lookup must be skipped, got %d calls", ents.calls)
	}
}

func TestSubscribeAssignsSubscriberID(t *testing.T) {
	l := &fakeListener{live: newLive(true)}
	svc := newService(topicEntities(), &fakeRetriever{}, l, nil)

	if err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, &captureSink{}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if l.filter.SubscriberID == "" {
		t.Fatal("expected an assigned subscriber id")
	}
}

func TestSubscribeRetrieverUnavailable(t *testing.T) {
	m := &captureMetrics{}
	r := &fakeRetriever{responses: []retrieveResponse{
		{err: retriever.ErrUnavailable},
	}}
	svc := newService(topicEntities(), r, &fakeListener{live: newLive(true)}, m)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, &captureSink{})
	if !errors.Is(err, retriever.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if m.outcome != OutcomeUnavailable {
		t.Fatalf("outcome %q, want %q", m.outcome, OutcomeUnavailable)
	}
}

func TestSubscribeSlowSubscriber(t *testing.T) {
	live := newLive(true, tmsg(100, 1))
	live.err = listener.ErrSlowSubscriber
	svc := newService(topicEntities(), &fakeRetriever{}, &fakeListener{live: live}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, &captureSink{})
	if !errors.Is(err, listener.ErrSlowSubscriber) {
		t.Fatalf("want ErrSlowSubscriber, got %v", err)
	}
}

func TestSubscribeContextCancelled(t *testing.T) {
	m := &captureMetrics{}
	svc := newService(topicEntities(), &fakeRetriever{}, &fakeListener{live: newLive(false)}, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.Subscribe(ctx, topic.Filter{TopicID: testTopic}, &captureSink{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if m.outcome != OutcomeCancelled {
		t.Fatalf("outcome %q, want %q", m.outcome, OutcomeCancelled)
	}
}

func TestSubscribeSinkError(t *testing.T) {
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1), tmsg(110, 2)}},
	}}
	sink := &captureSink{failAt: 2, sendErr: errors.New("stream broken")}
	svc := newService(topicEntities(), r, &fakeListener{live: newLive(true)}, nil)

	err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic}, sink)
	if err == nil || !errors.Is(err, sink.sendErr) {
		t.Fatalf("want sink error, got %v", err)
	}
	wantSequences(t, sink, 1)
}

func TestSubscribeMetricsSuccess(t *testing.T) {
	m := &captureMetrics{}
	r := &fakeRetriever{responses: []retrieveResponse{
		{msgs: []*topic.Message{tmsg(100, 1), tmsg(110, 2)}},
	}}
	svc := newService(topicEntities(), r, &fakeListener{live: newLive(true)}, m)

	if err := svc.Subscribe(context.Background(), topic.Filter{TopicID: testTopic, Limit: 2}, &captureSink{}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if m.started != 1 || m.outcome != OutcomeOK || m.delivered != 2 {
		t.Fatalf("metrics started=%d outcome=%q delivered=%d", m.started, m.outcome, m.delivered)
	}
}

func TestOutcomeOf(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{&topic.ValidationError{Violations: []string{"x"}}, OutcomeInvalidArgument},
		{ErrTopicNotFound, OutcomeNotFound},
		{ErrTopicWrongType, OutcomeInvalidArgument},
		{ErrMissingMessages, OutcomeInternal},
		{retriever.ErrUnavailable, OutcomeUnavailable},
		{listener.ErrClosed, OutcomeUnavailable},
		{listener.ErrSlowSubscriber, OutcomeResourceExhausted},
		{context.Canceled, OutcomeCancelled},
		{context.DeadlineExceeded, OutcomeCancelled},
		{errors.New("boom"), OutcomeInternal},
	}
	for _, tc := range cases {
		if got := OutcomeOf(tc.err); got != tc.want {
			t.Fatalf("OutcomeOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
