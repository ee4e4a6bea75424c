package store

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// Message record encoding:
//   seq_be8 | varint rhVersion | uvarint len(runningHash) | runningHash | message | crc32c(all prior)
// Topic id and consensus timestamp live in the key and are not repeated here.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// ErrCorruptRecord reports a record that failed checksum or structural decoding.
var ErrCorruptRecord = errors.New("store: corrupt message record")

func encodeMessageRecord(m *topic.Message) []byte {
	out := make([]byte, 0, 8+10+10+len(m.RunningHash)+len(m.Message)+4)
	var b8 [8]byte
	binary.BigEndian.PutUint64(b8[:], m.SequenceNumber)
	out = append(out, b8[:]...)

	var tmp [10]byte
	n := binary.PutVarint(tmp[:], int64(m.RunningHashVersion))
	out = append(out, tmp[:n]...)
	n = binary.PutUvarint(tmp[:], uint64(len(m.RunningHash)))
	out = append(out, tmp[:n]...)
	out = append(out, m.RunningHash...)
	out = append(out, m.Message...)

	crc := crc32.Checksum(out, castagnoli)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

func decodeMessageRecord(topicID topic.EntityID, consensusTimestamp int64, b []byte) (*topic.Message, error) {
	if len(b) < 8+1+1+4 {
		return nil, ErrCorruptRecord
	}
	body := b[:len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	if crc32.Checksum(body, castagnoli) != expect {
		return nil, ErrCorruptRecord
	}

	seq := binary.BigEndian.Uint64(body[:8])
	rest := body[8:]
	rhVersion, n := binary.Varint(rest)
	if n <= 0 {
		return nil, ErrCorruptRecord
	}
	rest = rest[n:]
	rhLen, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, ErrCorruptRecord
	}
	rest = rest[n:]
	if uint64(len(rest)) < rhLen {
		return nil, ErrCorruptRecord
	}
	runningHash := append([]byte(nil), rest[:rhLen]...)
	message := append([]byte(nil), rest[rhLen:]...)

	return &topic.Message{
		TopicID:            topicID,
		ConsensusTimestamp: consensusTimestamp,
		SequenceNumber:     seq,
		Message:            message,
		RunningHash:        runningHash,
		RunningHashVersion: int32(rhVersion),
	}, nil
}

// Entity record encoding: varint type | flags byte (bit0 deleted)

func encodeEntityRecord(e topic.Entity) []byte {
	out := make([]byte, 0, 11)
	var tmp [10]byte
	n := binary.PutVarint(tmp[:], int64(e.Type))
	out = append(out, tmp[:n]...)
	var flags byte
	if e.Deleted {
		flags |= 1
	}
	return append(out, flags)
}

func decodeEntityRecord(id topic.EntityID, b []byte) (topic.Entity, error) {
	typ, n := binary.Varint(b)
	if n <= 0 || len(b) != n+1 {
		return topic.Entity{}, ErrCorruptRecord
	}
	return topic.Entity{
		ID:      id,
		Type:    topic.EntityType(typ),
		Deleted: b[n]&1 != 0,
	}, nil
}
