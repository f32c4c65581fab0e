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
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Role      string `json:"role"`
	WebsiteID string `json:"website_id"`
	jwt.RegisteredClaims
}

// Validator verifies bearer tokens using keys supplied by a KeyResolver,
// selected by the token's kid header.
type Validator struct {
	resolver *KeyResolver
	parser   *jwt.Parser
}

// NewValidator creates a token validator. Expiry is enforced with zero
// leeway: a token is rejected the moment its stated expiry passes. Issuer
// and audience are not verified here; that is deployment configuration.
func NewValidator(resolver *KeyResolver) *Validator {
	return &Validator{
		resolver: resolver,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Validate parses and verifies a raw bearer token. On any failure it returns
// a token error and no claims, never a partial result.
func (v *Validator) Validate(ctx context.Context, raw string) (*Claims, error) {
	keyfunc := func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		keys := v.resolver.Resolve(ctx, kid)
		if len(keys) == 0 {
			return nil, ErrNoSigningKey
		}
		set := jwt.VerificationKeySet{}
		for _, k := range keys {
			set.Keys = append(set.Keys, k.Secret)
		}
		return set, nil
	}

	var tc tokenClaims
	token, err := v.parser.ParseWithClaims(raw, &tc, keyfunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{
		Role:      Role(tc.Role),
		WebsiteID: tc.WebsiteID,
		Subject:   tc.Subject,
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
