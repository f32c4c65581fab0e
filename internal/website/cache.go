// Copyright 2026 The Shopcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package website

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopcore/shopcore/internal/observability/logger"
)

// SecretCache reads website signing secrets through Redis. Token verification
// hits it on every request, so only cache misses touch the website store.
// Rotation must call Invalidate so stale secrets stop verifying promptly.
type SecretCache struct {
	repo  Repository
	redis *redis.Client
	ttl   time.Duration
}

// NewSecretCache creates a secret cache with the given entry lifetime.
func NewSecretCache(repo Repository, client *redis.Client, ttl time.Duration) *SecretCache {
	return &SecretCache{repo: repo, redis: client, ttl: ttl}
}

func secretKey(websiteID int64) string {
	return fmt.Sprintf("website:%d:secret", websiteID)
}

// SecretForWebsite returns the website's signing secret, reading through the
// cache. A website without a configured secret yields an empty string.
func (c *SecretCache) SecretForWebsite(ctx context.Context, websiteID int64) (string, error) {
	key := secretKey(websiteID)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Cache trouble must not take token verification down with it;
		// fall through to the store.
		slog.WarnContext(ctx, "secret cache read failed", logger.WebsiteID(websiteID), logger.Error(err))
	}

	w, err := c.repo.GetByID(ctx, websiteID)
	if err != nil {
		return "", err
	}

	if w.SecretKey != "" {
		if err := c.redis.Set(ctx, key, w.SecretKey, c.ttl).Err(); err != nil {
			slog.WarnContext(ctx, "secret cache write failed", logger.WebsiteID(websiteID), logger.Error(err))
		}
	}
	return w.SecretKey, nil
}

// Invalidate drops the cached secret for a website. Called on rotation.
func (c *SecretCache) Invalidate(ctx context.Context, websiteID int64) error {
	if err := c.redis.Del(ctx, secretKey(websiteID)).Err(); err != nil {
		return fmt.Errorf("invalidate website secret: %w", err)
	}
	return nil
}
