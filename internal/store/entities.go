package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	pebblestore "github.com/ivorypay-org/ivorypay-hedera-node/internal/storage/pebble"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// ErrEntityNotFound is returned by Find when no entity exists for the id.
var ErrEntityNotFound = errors.New("store: entity not found")

// EntityStore persists mirrored entities keyed by entity number.
type EntityStore struct {
	db     *pebblestore.DB
	logger zerolog.Logger
}

// NewEntityStore creates an entity store over the given database.
func NewEntityStore(db *pebblestore.DB, logger zerolog.Logger) *EntityStore {
	return &EntityStore{
		db:     db,
		logger: logger.With().Str("component", "entity_store").Logger(),
	}
}

// Put upserts an entity record.
func (s *EntityStore) Put(ctx context.Context, e topic.Entity) error {
	if e.ID <= 0 {
		return fmt.Errorf("store: invalid entity id %d", e.ID)
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(KeyEntity(e.ID), encodeEntityRecord(e), nil); err != nil {
		return fmt.Errorf("store: batch set: %w", err)
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("store: commit entity: %w", err)
	}
	s.logger.Debug().Int64("entity_id", int64(e.ID)).Int32("type", int32(e.Type)).Msg("upserted entity")
	return nil
}

// Find returns the entity for the id, or ErrEntityNotFound.
func (s *EntityStore) Find(ctx context.Context, id topic.EntityID) (topic.Entity, error) {
	if err := ctx.Err(); err != nil {
		return topic.Entity{}, err
	}
	raw, err := s.db.Get(KeyEntity(id))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return topic.Entity{}, ErrEntityNotFound
		}
		return topic.Entity{}, fmt.Errorf("store: get entity: %w", err)
	}
	return decodeEntityRecord(id, raw)
}
