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

// Package identity manages principals: authenticated actors with a role and,
// for every role except super-admin, exactly one owning website.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/query"
)

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWebsiteRequired    = errors.New("non-super-admin users must belong to a website")
	ErrInvalidRole        = errors.New("invalid role")
)

// User is an authenticated principal. WebsiteID is nil only for the
// super-admin role; every other principal belongs to exactly one website and
// may act only within it.
type User struct {
	ID           int64     `json:"id"`
	WebsiteID    *int64    `json:"websiteId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByEmail retrieves a user by email within a website. A nil
	// websiteID addresses the tenant-less super-admin namespace.
	GetByEmail(ctx context.Context, websiteID *int64, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}

// Fields is the dynamic query binding for users. The password hash is
// deliberately not registered.
func Fields() *query.Registry[User] {
	return query.NewRegistry[User]("User").
		Register("Id", "id", func(u *User) any { return u.ID }).
		Register("WebsiteId", "website_id", func(u *User) any {
			if u.WebsiteID == nil {
				return nil
			}
			return *u.WebsiteID
		}).
		Register("Email", "email", func(u *User) any { return u.Email }).
		Register("Role", "role", func(u *User) any { return string(u.Role) }).
		Register("CreatedAt", "created_at", func(u *User) any { return u.CreatedAt })
}
