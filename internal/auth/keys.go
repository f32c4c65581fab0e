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

package auth

import (
	"context"
	"strconv"
	"strings"
)

// SigningKey is a symmetric secret eligible to verify one token's signature.
type SigningKey struct {
	ID     string
	Secret []byte
}

// SecretSource looks up a website's signing secret. Implementations must be
// safe for concurrent reads; verification happens on every request, so the
// lookup is expected to be cache-backed.
type SecretSource interface {
	SecretForWebsite(ctx context.Context, websiteID int64) (string, error)
}

// KeyResolver maps a token's key identifier to the signing keys that may
// verify it. An empty identifier selects the process-wide default key, used
// for tokens issued to the tenant-less super-admin.
type KeyResolver struct {
	defaultKey SigningKey
	secrets    SecretSource
}

// NewKeyResolver creates a resolver over the configured default secret and a
// website secret source.
func NewKeyResolver(defaultSecret string, secrets SecretSource) *KeyResolver {
	return &KeyResolver{
		defaultKey: SigningKey{Secret: []byte(defaultSecret)},
		secrets:    secrets,
	}
}

// Resolve returns the keys usable to verify a token carrying the given key
// identifier. It never fails: a malformed identifier, an unknown website, or
// a website without a configured secret all yield an empty set, which makes
// signature verification reject the token.
func (r *KeyResolver) Resolve(ctx context.Context, kid string) []SigningKey {
	if strings.TrimSpace(kid) == "" {
		return []SigningKey{r.defaultKey}
	}

	websiteID, err := strconv.ParseInt(kid, 10, 64)
	if err != nil {
		return nil
	}

	secret, err := r.secrets.SecretForWebsite(ctx, websiteID)
	if err != nil || secret == "" {
		return nil
	}

	return []SigningKey{{ID: kid, Secret: []byte(secret)}}
}
