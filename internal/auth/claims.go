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

// Package auth implements tenant-scoped bearer-token verification: resolving
// which signing key validates a token, verifying it, and exposing the decoded
// claims to the request pipeline.
package auth

import (
	"errors"
	"time"
)

// Role is the fixed role enumeration carried in tokens.
type Role string

const (
	// RoleSuperAdmin is tenant-unscoped and bypasses tenant gating.
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleUser       Role = "User"
)

// Valid reports whether the role is one of the known enumeration values.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Claims are the verified, decoded identity facts of one bearer token.
// Derived once per request and never persisted.
type Claims struct {
	Role      Role
	WebsiteID string
	Subject   string
	ExpiresAt time.Time
}

// Token verification errors.
var (
	ErrTokenInvalid = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")
	ErrNoSigningKey = errors.New("auth: no usable signing key")
)
