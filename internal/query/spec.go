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

// Package query describes what subset of an entity collection to read, in
// what order, and how it is paged, independent of the entity type. A Spec is
// built per request and handed to a repository, which translates it into a
// parameterized store query.
package query

import "strings"

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection maps free-text wire input to a Direction. "asc" matches
// case-insensitively; every other value, including empty, sorts descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Paging defaults applied at the request boundary. A PageSize of zero is not
// defaulted: it means "return everything".
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Spec is a transient descriptor of one data-access call.
//
// Composition order when executed: Where filter, then Includes eager-loading,
// then sort, then paging.
type Spec struct {
	Where    Predicate
	Includes []string
	SortBy   string
	SortDir  Direction
	Page     int
	PageSize int
}

// Paged reports whether the spec slices its result set.
func (s Spec) Paged() bool {
	return s.PageSize > 0
}

// Offset returns the number of records to skip. The first page is 1; any
// smaller page number is treated as 1.
func (s Spec) Offset() int {
	page := s.Page
	if page < DefaultPage {
		page = DefaultPage
	}
	return (page - 1) * s.PageSize
}
