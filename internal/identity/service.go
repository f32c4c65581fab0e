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

package identity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopcore/shopcore/internal/audit"
	"github.com/shopcore/shopcore/internal/auth"
)

// Service provides principal management and authentication.
type Service struct {
	repo        Repository
	hasher      *PasswordHasher
	issuer      *auth.Issuer
	auditLogger audit.Logger
}

// NewService creates a new identity service.
func NewService(repo Repository, hasher *PasswordHasher, issuer *auth.Issuer, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		hasher:      hasher,
		issuer:      issuer,
		auditLogger: auditLogger,
	}
}

// Register creates a principal. Every role except super-admin must carry a
// website id; super-admin must not.
func (s *Service) Register(ctx context.Context, u *User, password string) (*User, error) {
	if !u.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if u.Role == auth.RoleSuperAdmin {
		if u.WebsiteID != nil {
			return nil, fmt.Errorf("%w: super-admin is tenant-less", ErrInvalidRole)
		}
	} else if u.WebsiteID == nil {
		return nil, ErrWebsiteRequired
	}

	if existing, err := s.repo.GetByEmail(ctx, u.WebsiteID, u.Email); err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u.PasswordHash = hash
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:      audit.TypeUserCreated,
		WebsiteID: websiteIDString(u.WebsiteID),
		ActorID:   strconv.FormatInt(u.ID, 10),
		Resource:  u.Email,
	})
	return u, nil
}

// Authenticate validates credentials within one website's namespace.
func (s *Service) Authenticate(ctx context.Context, websiteID *int64, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, websiteID, email)
	if err != nil {
		// Indistinguishable from a bad password, on purpose.
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil || !ok {
		s.auditLogger.Log(ctx, audit.Event{
			Type:      audit.TypeLoginFailed,
			WebsiteID: websiteIDString(websiteID),
			Resource:  email,
		})
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a bearer token. Tenant-scoped principals
// get a token signed with their website's secret; the super-admin gets one
// signed with the default key.
func (s *Service) Login(ctx context.Context, websiteID *int64, email, password string) (*User, string, time.Time, error) {
	u, err := s.Authenticate(ctx, websiteID, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.issuer.Issue(ctx, strconv.FormatInt(u.ID, 10), u.Role, u.WebsiteID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:      audit.TypeLoginSuccess,
		WebsiteID: websiteIDString(u.WebsiteID),
		ActorID:   strconv.FormatInt(u.ID, 10),
	})
	return u, token, exp, nil
}

func websiteIDString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
