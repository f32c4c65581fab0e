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

// Package website holds the tenant model. One deployment serves many
// websites; every tenant-scoped row in the store carries a website id
// discriminator, and every website owns the secret that signs its tokens.
package website

import (
	"errors"
	"time"

	"github.com/shopcore/shopcore/internal/query"
)

// MinSecretLength is the minimum length of a website signing secret.
const MinSecretLength = 20

var (
	ErrWebsiteNotFound = errors.New("website not found")
	ErrSecretTooShort  = errors.New("website secret key must be at least 20 characters")
	ErrNameRequired    = errors.New("website name is required")
	ErrCompanyInvalid  = errors.New("website company does not exist")
)

// Website is the identity unit for multi-tenancy. The secret key exists
// solely for signature verification and is never serialized to API callers.
// Websites are never hard-deleted; IsActive is a soft status flag.
type Website struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyId"`
	Name      string    `json:"name"`
	Hostname  string    `json:"hostname"`
	SecretKey string    `json:"-"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fields is the dynamic query binding for websites. The secret key is
// deliberately not registered.
func Fields() *query.Registry[Website] {
	return query.NewRegistry[Website]("Website").
		Register("Id", "id", func(w *Website) any { return w.ID }).
		Register("CompanyId", "company_id", func(w *Website) any { return w.CompanyID }).
		Register("Name", "name", func(w *Website) any { return w.Name }).
		Register("Hostname", "hostname", func(w *Website) any { return w.Hostname }).
		Register("IsActive", "is_active", func(w *Website) any { return w.IsActive }).
		Register("CreatedAt", "created_at", func(w *Website) any { return w.CreatedAt })
}
