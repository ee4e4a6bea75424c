package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// errComplete ends a subscription that reached its limit or end time. Never
// returned to callers.
var errComplete = errors.New("subscription: complete")

// stream tracks one subscription's emission state across the historical
// drain, the seam, and the live loop.
type stream struct {
	f       topic.Filter
	sink    Sink
	metrics Metrics

	last  *topic.Message
	count int64
}

// emit delivers m unless it terminates the stream first: a consensus
// timestamp at or past the exclusive end time completes before sending, a
// reached limit completes after.
func (st *stream) emit(m *topic.Message) error {
	if st.f.HasEndTime() && m.ConsensusTimestamp >= st.f.EndTime {
		return errComplete
	}
	if err := st.sink.Send(m); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	st.last = m
	st.count++
	st.metrics.MessageDelivered(time.Since(time.Unix(0, m.ConsensusTimestamp)))
	if st.f.HasLimit() && st.count >= st.f.Limit {
		return errComplete
	}
	return nil
}

// historical handles messages from the stored drain. The live pathway was
// opened first, so anything already emitted from it is dropped here.
func (st *stream) historical(m *topic.Message) error {
	if st.last != nil && m.SequenceNumber <= st.last.SequenceNumber {
		return nil
	}
	return st.emit(m)
}

// live handles one live arrival: duplicates drop silently, a sequence jump
// triggers backfill of the stored pathway before m itself is emitted.
func (st *stream) live(ctx context.Context, r Retriever, m *topic.Message) error {
	if st.last == nil {
		return st.emit(m)
	}
	if m.SequenceNumber <= st.last.SequenceNumber {
		return nil
	}
	if delta := m.SequenceNumber - st.last.SequenceNumber; delta > 1 {
		if err := st.backfill(ctx, r, m, delta-1); err != nil {
			return err
		}
	}
	return st.emit(m)
}

// backfill retrieves the missing messages between last and next from storage
// and emits them, verifying contiguity as they arrive. A gap storage cannot
// close is ErrMissingMessages.
func (st *stream) backfill(ctx context.Context, r Retriever, next *topic.Message, missing uint64) error {
	bf := topic.Filter{
		TopicID:      st.f.TopicID,
		StartTime:    st.last.ConsensusTimestamp + 1,
		EndTime:      next.ConsensusTimestamp,
		Limit:        int64(missing),
		SubscriberID: st.f.SubscriberID,
	}
	expected := st.last.SequenceNumber + 1
	err := r.Retrieve(ctx, bf, false, func(m *topic.Message) error {
		if m.SequenceNumber != expected {
			return ErrMissingMessages
		}
		expected++
		return st.emit(m)
	})
	if err != nil {
		return err
	}
	if expected != next.SequenceNumber {
		return ErrMissingMessages
	}
	return nil
}
