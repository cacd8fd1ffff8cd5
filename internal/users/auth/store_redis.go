// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pollenlabs/pollen/internal/platform/apperr"
)

// Redis key prefixes for the two staged flows.
const (
	registrationStagingPrefix = "auth:staging:registration:"
	googleStagingPrefix       = "auth:staging:google:"
)

// RedisStagingRepository implements [StagingRepository] on Redis. Entries are
// JSON blobs with a TTL; expiry needs no sweeping.
type RedisStagingRepository struct {
	client *redis.Client
}

// NewRedisStagingRepository creates a new Redis-backed StagingRepository.
func NewRedisStagingRepository(client *redis.Client) *RedisStagingRepository {
	return &RedisStagingRepository{client: client}
}

func (repository *RedisStagingRepository) setJSON(context context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_staging_marshal_failed: %w", err)
	}
	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_staging_set_failed: %w", err)
	}
	return nil
}

func (repository *RedisStagingRepository) getJSON(context context.Context, key string, target any) error {
	payload, err := repository.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("Staged flow")
		}
		return fmt.Errorf("redis_staging_get_failed: %w", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("redis_staging_unmarshal_failed: %w", err)
	}
	return nil
}

func (repository *RedisStagingRepository) delete(context context.Context, key string) error {
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_staging_delete_failed: %w", err)
	}
	return nil
}

// # Registration Staging

func (repository *RedisStagingRepository) StageRegistration(context context.Context, token string, data *StagedRegistration, ttl time.Duration) error {
	return repository.setJSON(context, registrationStagingPrefix+token, data, ttl)
}

func (repository *RedisStagingRepository) GetRegistration(context context.Context, token string) (*StagedRegistration, error) {
	staged := &StagedRegistration{}
	if err := repository.getJSON(context, registrationStagingPrefix+token, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

func (repository *RedisStagingRepository) DeleteRegistration(context context.Context, token string) error {
	return repository.delete(context, registrationStagingPrefix+token)
}

// # Google Verification Staging

func (repository *RedisStagingRepository) StageGoogle(context context.Context, token string, data *StagedGoogle, ttl time.Duration) error {
	return repository.setJSON(context, googleStagingPrefix+token, data, ttl)
}

func (repository *RedisStagingRepository) GetGoogle(context context.Context, token string) (*StagedGoogle, error) {
	staged := &StagedGoogle{}
	if err := repository.getJSON(context, googleStagingPrefix+token, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

func (repository *RedisStagingRepository) DeleteGoogle(context context.Context, token string) error {
	return repository.delete(context, googleStagingPrefix+token)
}
