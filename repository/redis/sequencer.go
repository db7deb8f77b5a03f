package redis

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

type sequencer struct {
	client *redislib.Client
	seed   repository.MaxOrderReader
	prefix string
}

// NewSequencer returns an atomic per-creator order allocator. Each counter is seeded once
// from the store maximum, then advanced with INCR so concurrent creations never share a value.
func NewSequencer(client *redislib.Client, seed repository.MaxOrderReader) repository.Sequencer {
	return &sequencer{
		client: client,
		seed:   seed,
		prefix: "workflow:order:",
	}
}

func (s *sequencer) Next(ctx context.Context, creatorID string) (int64, error) {
	key := s.key(creatorID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 && s.seed != nil {
		max, err := s.seed.MaxOrder(ctx, creatorID)
		if err != nil {
			return 0, err
		}
		// a concurrent seeder may have won; SETNX keeps whichever value landed first
		if err := s.client.SetNX(ctx, key, max, 0).Err(); err != nil {
			return 0, err
		}
	}

	return s.client.Incr(ctx, key).Result()
}

func (s *sequencer) key(creatorID string) string {
	return fmt.Sprintf("%s%s", s.prefix, creatorID)
}
