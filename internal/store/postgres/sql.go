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

package postgres

import (
	"fmt"
	"strings"

	"github.com/shopcore/shopcore/internal/query"
)

// renderPredicate translates a predicate tree into a SQL condition. Column
// names come from the registry only and values are always appended to args
// as bound parameters, so no caller input is ever interpolated.
func renderPredicate[T any](reg *query.Registry[T], p query.Predicate, args *[]any) (string, error) {
	switch node := p.(type) {
	case query.Compare:
		col, err := reg.Column(node.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, node.Value)
		return fmt.Sprintf("%s %s $%d", col, node.Op, len(*args)), nil

	case query.Membership:
		col, err := reg.Column(node.Field)
		if err != nil {
			return "", err
		}
		if len(node.Values) == 0 {
			return "FALSE", nil
		}
		placeholders := make([]string, len(node.Values))
		for i, v := range node.Values {
			*args = append(*args, v)
			placeholders[i] = fmt.Sprintf("$%d", len(*args))
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")), nil

	case query.Group:
		if len(node.Preds) == 0 {
			return "TRUE", nil
		}
		parts := make([]string, len(node.Preds))
		for i, child := range node.Preds {
			part, err := renderPredicate(reg, child, args)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return "(" + strings.Join(parts, " "+string(node.Conj)+" ") + ")", nil

	case query.Not:
		inner, err := renderPredicate(reg, node.Pred, args)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil

	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

// renderFilter renders an optional predicate as a WHERE condition. A nil
// predicate matches everything.
func renderFilter[T any](reg *query.Registry[T], p query.Predicate) (string, []any, error) {
	if p == nil {
		return "TRUE", nil, nil
	}
	var args []any
	where, err := renderPredicate(reg, p, &args)
	if err != nil {
		return "", nil, err
	}
	return where, args, nil
}

// renderOrderBy translates a validated sort column into an ORDER BY clause.
// The primary key is always the tie-break, ascending, so records comparing
// equal on the sort key keep insertion order in either direction.
func renderOrderBy[T any](reg *query.Registry[T], idColumn, sortBy string, dir query.Direction) (string, error) {
	if sortBy == "" {
		return "", nil
	}
	col, err := reg.SortColumn(sortBy)
	if err != nil {
		return "", err
	}
	sqlDir := "DESC"
	if dir == query.Ascending {
		sqlDir = "ASC"
	}
	if col == idColumn {
		return fmt.Sprintf(" ORDER BY %s %s", col, sqlDir), nil
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s ASC", col, sqlDir, idColumn), nil
}

// renderSelect builds the full SELECT for a spec: filter, sort, then page.
func renderSelect[T any](d *Descriptor[T], spec query.Spec) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(d.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(d.Table)

	var args []any
	if spec.Where != nil {
		where, err := renderPredicate(d.Registry, spec.Where, &args)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	orderBy, err := renderOrderBy(d.Registry, d.idColumn(), spec.SortBy, spec.SortDir)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(orderBy)

	if spec.Paged() {
		args = append(args, spec.PageSize)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		args = append(args, spec.Offset())
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args, nil
}
