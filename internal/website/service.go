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
	"fmt"
	"strconv"
	"time"

	"github.com/shopcore/shopcore/internal/audit"
	"github.com/shopcore/shopcore/internal/query"
)

// SecretInvalidator drops a cached signing secret after rotation.
type SecretInvalidator interface {
	Invalidate(ctx context.Context, websiteID int64) error
}

// Service provides website management business logic. Creation and secret
// rotation are privileged operations; the transport layer restricts them to
// the super-admin role.
type Service struct {
	repo        Repository
	companies   CompanyDirectory
	secrets     SecretInvalidator
	auditLogger audit.Logger
}

// NewService creates a new website service.
func NewService(repo Repository, companies CompanyDirectory, secrets SecretInvalidator, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		companies:   companies,
		secrets:     secrets,
		auditLogger: auditLogger,
	}
}

// Create registers a new website. The signing secret must be at least
// MinSecretLength characters, the owning company must exist, and new
// websites start active.
func (s *Service) Create(ctx context.Context, w *Website, actorID string) (*Website, error) {
	if w.Name == "" {
		return nil, ErrNameRequired
	}
	if len(w.SecretKey) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	ok, err := s.companies.CompanyExists(ctx, w.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("check company: %w", err)
	}
	if !ok {
		return nil, ErrCompanyInvalid
	}

	now := time.Now()
	w.IsActive = true
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create website: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:      audit.TypeWebsiteCreated,
		WebsiteID: strconv.FormatInt(w.ID, 10),
		ActorID:   actorID,
		Resource:  w.Name,
	})
	return w, nil
}

// Get retrieves a website by id.
func (s *Service) Get(ctx context.Context, id int64) (*Website, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns websites filtered and ordered by the query spec.
func (s *Service) List(ctx context.Context, spec query.Spec) ([]*Website, error) {
	return s.repo.List(ctx, spec)
}

// SetActive flips the soft status flag. Websites are never hard-deleted.
func (s *Service) SetActive(ctx context.Context, id int64, active bool, actorID string) (*Website, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	w.IsActive = active
	w.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update website status: %w", err)
	}

	eventType := audit.TypeWebsiteDeactivated
	if active {
		eventType = audit.TypeWebsiteActivated
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:      eventType,
		WebsiteID: strconv.FormatInt(id, 10),
		ActorID:   actorID,
	})
	return w, nil
}

// RotateSecret replaces the website's signing secret and invalidates the
// cached copy so tokens signed with the old secret stop verifying promptly.
func (s *Service) RotateSecret(ctx context.Context, id int64, newSecret, actorID string) error {
	if len(newSecret) < MinSecretLength {
		return ErrSecretTooShort
	}

	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	w.SecretKey = newSecret
	w.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, w); err != nil {
		return fmt.Errorf("rotate website secret: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:      audit.TypeSecretRotated,
		WebsiteID: strconv.FormatInt(id, 10),
		ActorID:   actorID,
	})

	if err := s.secrets.Invalidate(ctx, id); err != nil {
		return fmt.Errorf("rotated but cache not invalidated: %w", err)
	}
	return nil
}
