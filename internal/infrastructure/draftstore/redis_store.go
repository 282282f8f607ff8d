package draftstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pahanaedu/pos-api/internal/domain/billing"
	domainRepo "github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

const draftListKey = "pos:bill_drafts"

// tombstone marks a list slot for removal; LSET then LREM is the only
// way to delete by index in redis.
const tombstone = "__deleted__"

type redisDraftStore struct {
	client *redis.Client
}

// NewRedisDraftStore creates a draft store backed by a redis list.
// Drafts are stored as JSON in insertion order so indices shown to the
// counter stay stable between saves.
func NewRedisDraftStore(client *redis.Client) domainRepo.DraftStore {
	return &redisDraftStore{client: client}
}

func (s *redisDraftStore) Save(ctx context.Context, draft billing.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	return s.client.RPush(ctx, draftListKey, data).Err()
}

func (s *redisDraftStore) List(ctx context.Context) ([]billing.Draft, error) {
	raw, err := s.client.LRange(ctx, draftListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read drafts: %w", err)
	}

	drafts := make([]billing.Draft, 0, len(raw))
	for _, item := range raw {
		var draft billing.Draft
		if err := json.Unmarshal([]byte(item), &draft); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func (s *redisDraftStore) Get(ctx context.Context, index int) (*billing.Draft, error) {
	raw, err := s.client.LIndex(ctx, draftListKey, int64(index)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var draft billing.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *redisDraftStore) Delete(ctx context.Context, index int) error {
	if err := s.client.LSet(ctx, draftListKey, int64(index), tombstone).Err(); err != nil {
		return fmt.Errorf("failed to mark draft deleted: %w", err)
	}
	return s.client.LRem(ctx, draftListKey, 1, tombstone).Err()
}
