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
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs bearer tokens. Tenant-scoped principals are signed with their
// website's secret and the website id as the kid header; super-admin tokens
// use the default key and carry no kid.
type Issuer struct {
	defaultSecret []byte
	secrets       SecretSource
	ttl           time.Duration
}

// NewIssuer creates a token issuer with the given access-token lifetime.
func NewIssuer(defaultSecret string, secrets SecretSource, ttl time.Duration) *Issuer {
	return &Issuer{
		defaultSecret: []byte(defaultSecret),
		secrets:       secrets,
		ttl:           ttl,
	}
}

// Issue signs a token for the subject and returns it with its expiry.
func (i *Issuer) Issue(ctx context.Context, subject string, role Role, websiteID *int64) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	secret := i.defaultSecret
	var kid string
	if websiteID != nil {
		s, err := i.secrets.SecretForWebsite(ctx, *websiteID)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("auth: resolve website secret: %w", err)
		}
		if s == "" {
			return "", time.Time{}, ErrNoSigningKey
		}
		secret = []byte(s)
		kid = strconv.FormatInt(*websiteID, 10)
		claims["website_id"] = kid
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}
