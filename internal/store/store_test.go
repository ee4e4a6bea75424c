package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	pebblestore "github.com/ivorypay-org/ivorypay-hedera-node/internal/storage/pebble"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

func newTestDB(t *testing.T) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func msg(topicID topic.EntityID, ts int64, seq uint64) *topic.Message {
	return &topic.Message{
		TopicID:            topicID,
		ConsensusTimestamp: ts,
		SequenceNumber:     seq,
		Message:            []byte("payload"),
		RunningHash:        bytes.Repeat([]byte{0xab}, 48),
		RunningHashVersion: 3,
	}
}

func TestAppendAndPage(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db, zerolog.Nop())
	ctx := context.Background()

	want := []*topic.Message{msg(7, 100, 1), msg(7, 200, 2), msg(7, 300, 3)}
	if err := s.Append(ctx, want...); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Another topic must not leak into the page.
	if err := s.Append(ctx, msg(8, 150, 1)); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.Page(ctx, topic.Filter{TopicID: 7}, 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("want %d messages, got %d", len(want), len(got))
	}
	for i, m := range got {
		if m.ConsensusTimestamp != want[i].ConsensusTimestamp ||
			m.SequenceNumber != want[i].SequenceNumber ||
			m.TopicID != want[i].TopicID ||
			!bytes.Equal(m.Message, want[i].Message) ||
			!bytes.Equal(m.RunningHash, want[i].RunningHash) ||
			m.RunningHashVersion != want[i].RunningHashVersion {
			t.Fatalf("message %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestPageWindowEndExclusive(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db, zerolog.Nop())
	ctx := context.Background()

	if err := s.Append(ctx, msg(7, 100, 1), msg(7, 200, 2), msg(7, 300, 3)); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.Page(ctx, topic.Filter{TopicID: 7, StartTime: 100, EndTime: 300}, 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 messages in [100,300), got %d", len(got))
	}
	if got[0].ConsensusTimestamp != 100 || got[1].ConsensusTimestamp != 200 {
		t.Fatalf("unexpected timestamps %d %d", got[0].ConsensusTimestamp, got[1].ConsensusTimestamp)
	}
}

func TestPageLimit(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db, zerolog.Nop())
	ctx := context.Background()

	if err := s.Append(ctx, msg(7, 100, 1), msg(7, 200, 2), msg(7, 300, 3)); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.Page(ctx, topic.Filter{TopicID: 7}, 2)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}

	if _, err := s.Page(ctx, topic.Filter{TopicID: 7}, 0); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
}

func TestAppendRejectsInvalidTopic(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db, zerolog.Nop())
	if err := s.Append(context.Background(), msg(0, 100, 1)); err == nil {
		t.Fatal("expected error for topic id 0")
	}
}

func TestLastConsensusTimestamp(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db, zerolog.Nop())
	ctx := context.Background()

	if _, ok, err := s.LastConsensusTimestamp(7); err != nil || ok {
		t.Fatalf("empty topic: ok=%v err=%v", ok, err)
	}

	if err := s.Append(ctx, msg(7, 100, 1), msg(7, 300, 2)); err != nil {
		t.Fatalf("append: %v", err)
	}
	ts, ok, err := s.LastConsensusTimestamp(7)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if ts != 300 {
		t.Fatalf("want 300, got %d", ts)
	}
}

func TestPageCorruptRecord(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db, zerolog.Nop())
	ctx := context.Background()

	if err := s.Append(ctx, msg(7, 100, 1)); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Flip the stored value under the same key.
	if err := db.Set(KeyMessage(7, 100), []byte("garbage")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.Page(ctx, topic.Filter{TopicID: 7}, 10); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("want ErrCorruptRecord, got %v", err)
	}
}

func TestEntityPutAndFind(t *testing.T) {
	db := newTestDB(t)
	s := NewEntityStore(db, zerolog.Nop())
	ctx := context.Background()

	want := topic.Entity{ID: 42, Type: topic.EntityTypeTopic, Deleted: false}
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Find(ctx, 42)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	// Upsert flips the deleted flag in place.
	want.Deleted = true
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err = s.Find(ctx, 42)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.Deleted {
		t.Fatal("expected deleted entity after upsert")
	}
}

func TestEntityNotFound(t *testing.T) {
	db := newTestDB(t)
	s := NewEntityStore(db, zerolog.Nop())
	if _, err := s.Find(context.Background(), 99); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("want ErrEntityNotFound, got %v", err)
	}
}

func TestEntityPutRejectsInvalidID(t *testing.T) {
	db := newTestDB(t)
	s := NewEntityStore(db, zerolog.Nop())
	if err := s.Put(context.Background(), topic.Entity{ID: 0}); err == nil {
		t.Fatal("expected error for entity id 0")
	}
}

func TestPageCancelledContext(t *testing.T) {
	db := newTestDB(t)
	s := NewMessageStore(db, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Page(ctx, topic.Filter{TopicID: 7}, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestMessageRecordRoundTrip(t *testing.T) {
	in := msg(7, 12345, 9)
	out, err := decodeMessageRecord(7, 12345, encodeMessageRecord(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SequenceNumber != 9 || out.RunningHashVersion != 3 ||
		!bytes.Equal(out.Message, in.Message) || !bytes.Equal(out.RunningHash, in.RunningHash) {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestMessageRecordChecksum(t *testing.T) {
	raw := encodeMessageRecord(msg(7, 100, 1))
	raw[0] ^= 0xff
	if _, err := decodeMessageRecord(7, 100, raw); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("want ErrCorruptRecord, got %v", err)
	}
}

func TestKeyOrderingByTimestamp(t *testing.T) {
	a := KeyMessage(7, 100)
	b := KeyMessage(7, 200)
	if bytes.Compare(a, b) >= 0 {
		t.Fatal("keys must sort by consensus timestamp")
	}
	if !bytes.HasPrefix(a, KeyMessageTopicPrefix(7)) {
		t.Fatal("message key must carry the topic prefix")
	}
	upper := prefixUpperBound(KeyMessageTopicPrefix(7))
	if bytes.Compare(b, upper) >= 0 {
		t.Fatal("topic upper bound must sort after every message key")
	}
}
