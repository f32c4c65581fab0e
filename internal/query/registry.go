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

package query

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidSort is returned when a sort column does not name a
	// registered field of the target entity type.
	ErrInvalidSort = errors.New("query: invalid sort column")

	// ErrUnknownField is returned when a predicate references a field that
	// is not registered for the target entity type.
	ErrUnknownField = errors.New("query: unknown field")
)

type field[T any] struct {
	column string
	get    func(*T) any
}

// Registry binds the accepted field names of one entity type to their store
// columns and in-memory accessors. Registries are built once at startup;
// every dynamic field reference resolves through one, so an unknown name
// fails a lookup instead of reaching the store.
type Registry[T any] struct {
	entity string
	fields map[string]field[T]
}

// NewRegistry creates an empty registry for the named entity type.
func NewRegistry[T any](entity string) *Registry[T] {
	return &Registry[T]{
		entity: entity,
		fields: make(map[string]field[T]),
	}
}

// Register binds a field name to its store column and accessor. It returns
// the registry so bindings chain at startup.
func (r *Registry[T]) Register(name, column string, get func(*T) any) *Registry[T] {
	r.fields[NormalizeField(name)] = field[T]{column: column, get: get}
	return r
}

// Entity returns the entity type name the registry was built for.
func (r *Registry[T]) Entity() string {
	return r.entity
}

// Column resolves a field name to its store column for filtering.
func (r *Registry[T]) Column(name string) (string, error) {
	f, ok := r.fields[NormalizeField(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, r.entity, name)
	}
	return f.column, nil
}

// SortColumn resolves a sort column name. Unknown names fail with
// ErrInvalidSort rather than executing an unvalidated lookup.
func (r *Registry[T]) SortColumn(name string) (string, error) {
	f, ok := r.fields[NormalizeField(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrInvalidSort, r.entity, name)
	}
	return f.column, nil
}

func (r *Registry[T]) accessor(name string) (func(*T) any, error) {
	f, ok := r.fields[NormalizeField(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrInvalidSort, r.entity, name)
	}
	return f.get, nil
}

// NormalizeField case-normalizes a wire field name to initial-uppercase, the
// form registries are keyed by.
func NormalizeField(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
