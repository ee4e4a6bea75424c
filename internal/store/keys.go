package store

import (
	"encoding/binary"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - msg/{topic_be8}/{ts_be8}
// - ent/{id_be8}

var (
	sep       = byte('/')
	msgPrefix = []byte("msg/")
	entPrefix = []byte("ent/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyMessage builds the message key for a topic and consensus timestamp.
func KeyMessage(topicID topic.EntityID, consensusTimestamp int64) []byte {
	k := make([]byte, 0, len(msgPrefix)+17)
	k = append(k, msgPrefix...)
	k = appendBE8(k, uint64(topicID))
	k = append(k, sep)
	k = appendBE8(k, uint64(consensusTimestamp))
	return k
}

// KeyMessageTopicPrefix returns the range prefix covering every message of a topic.
func KeyMessageTopicPrefix(topicID topic.EntityID) []byte {
	k := make([]byte, 0, len(msgPrefix)+9)
	k = append(k, msgPrefix...)
	k = appendBE8(k, uint64(topicID))
	k = append(k, sep)
	return k
}

// KeyEntity builds the entity key for an entity number.
func KeyEntity(id topic.EntityID) []byte {
	k := make([]byte, 0, len(entPrefix)+8)
	k = append(k, entPrefix...)
	k = appendBE8(k, uint64(id))
	return k
}

// prefixUpperBound returns the smallest key strictly greater than every key
// carrying the prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
