package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"

	pebblestore "github.com/ivorypay-org/ivorypay-hedera-node/internal/storage/pebble"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// MessageStore persists topic messages keyed by (topic, consensus timestamp).
type MessageStore struct {
	db     *pebblestore.DB
	logger zerolog.Logger
}

// NewMessageStore creates a message store over the given database.
func NewMessageStore(db *pebblestore.DB, logger zerolog.Logger) *MessageStore {
	return &MessageStore{
		db:     db,
		logger: logger.With().Str("component", "message_store").Logger(),
	}
}

// Append durably writes the given messages in one batch.
func (s *MessageStore) Append(ctx context.Context, msgs ...*topic.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	b := s.db.NewBatch()
	defer b.Close()
	for _, m := range msgs {
		if m.TopicID <= 0 {
			return fmt.Errorf("store: message for invalid topic %d", m.TopicID)
		}
		if err := b.Set(KeyMessage(m.TopicID, m.ConsensusTimestamp), encodeMessageRecord(m), nil); err != nil {
			return fmt.Errorf("store: batch set: %w", err)
		}
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("store: commit messages: %w", err)
	}
	s.logger.Debug().Int("count", len(msgs)).
		Int64("topic_id", int64(msgs[0].TopicID)).
		Msg("appended topic messages")
	return nil
}

// Page returns up to limit messages of f.TopicID with consensus timestamp in
// [f.StartTime, f.EndTime), in consensus order. limit must be positive. The
// filter's Limit field is not applied here; callers own limit accounting.
func (s *MessageStore) Page(ctx context.Context, f topic.Filter, limit int) ([]*topic.Message, error) {
	if limit <= 0 {
		return nil, errors.New("store: page limit must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lower := KeyMessage(f.TopicID, f.StartTime)
	var upper []byte
	if f.HasEndTime() {
		upper = KeyMessage(f.TopicID, f.EndTime)
	} else {
		upper = prefixUpperBound(KeyMessageTopicPrefix(f.TopicID))
	}

	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, fmt.Errorf("store: new iterator: %w", err)
	}
	defer it.Close()

	out := make([]*topic.Message, 0, limit)
	for ok := it.First(); ok && len(out) < limit; ok = it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ts, err := timestampFromKey(it.Key())
		if err != nil {
			return nil, err
		}
		m, err := decodeMessageRecord(f.TopicID, ts, it.Value())
		if err != nil {
			s.logger.Error().Err(err).
				Int64("topic_id", int64(f.TopicID)).
				Int64("consensus_timestamp", ts).
				Msg("undecodable message record")
			return nil, err
		}
		out = append(out, m)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("store: iterate messages: %w", err)
	}
	return out, nil
}

// LastConsensusTimestamp returns the newest stored consensus timestamp for a
// topic, or ok=false when the topic has no messages.
func (s *MessageStore) LastConsensusTimestamp(topicID topic.EntityID) (int64, bool, error) {
	prefix := KeyMessageTopicPrefix(topicID)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixUpperBound(prefix)})
	if err != nil {
		return 0, false, fmt.Errorf("store: new iterator: %w", err)
	}
	defer it.Close()
	if !it.Last() {
		return 0, false, it.Error()
	}
	ts, err := timestampFromKey(it.Key())
	if err != nil {
		return 0, false, err
	}
	return ts, true, it.Error()
}

func timestampFromKey(key []byte) (int64, error) {
	if len(key) < 8 {
		return 0, ErrCorruptRecord
	}
	return int64(binary.BigEndian.Uint64(key[len(key)-8:])), nil
}
