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
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/shopcore/shopcore/internal/query"
)

// ErrNotFound marks an absent entity. Point lookups return it instead of a
// store failure so callers can treat absence as a value.
var ErrNotFound = errors.New("store: entity not found")

// EntityState tags a staged mutation. Nothing is durable until the owning
// unit of work commits.
type EntityState int

const (
	StateDetached EntityState = iota
	StateUnchanged
	StateAdded
	StateModified
	StateDeleted
)

func (s EntityState) String() string {
	switch s {
	case StateAdded:
		return "Added"
	case StateModified:
		return "Modified"
	case StateDeleted:
		return "Deleted"
	case StateUnchanged:
		return "Unchanged"
	default:
		return "Detached"
	}
}

// RelationLoader eagerly attaches one named related-entity path onto a batch
// of loaded entities.
type RelationLoader[T any] func(ctx context.Context, q Querier, items []*T) error

// Descriptor describes how one entity type maps to its table: column order,
// scan/write bindings, and the dynamic query registry. Descriptors are
// package-level values built once; the same descriptor keys the repository
// cache inside a unit of work.
type Descriptor[T any] struct {
	// Table is the table name; Columns lists all columns with the serial
	// primary key first, in the order Bind yields them.
	Table    string
	Columns  []string
	Registry *query.Registry[T]

	// Bind returns pointers into the entity, aligned with Columns. The
	// same bindings serve row scanning and statement arguments.
	Bind  func(*T) []any
	ID    func(*T) int64
	SetID func(*T, int64)

	Relations map[string]RelationLoader[T]
}

func (d *Descriptor[T]) idColumn() string {
	return d.Columns[0]
}

func (d *Descriptor[T]) selectBase() string {
	return "SELECT " + strings.Join(d.Columns, ", ") + " FROM " + d.Table
}

// Repository executes dynamically composed queries for one entity type. All
// repositories created by one unit of work share its session; mutations are
// staged on the unit of work and become durable only at Commit.
//
// A repository is bound to one request's unit of work and is not safe for
// concurrent use.
type Repository[T any] struct {
	desc *Descriptor[T]
	uow  *UnitOfWork
}

func (r *Repository[T]) scanRow(row pgx.Row) (*T, error) {
	entity := new(T)
	if err := row.Scan(r.desc.Bind(entity)...); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *Repository[T]) scanRows(rows pgx.Rows) ([]*T, error) {
	defer rows.Close()
	var items []*T
	for rows.Next() {
		entity := new(T)
		if err := rows.Scan(r.desc.Bind(entity)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.desc.Table, err)
		}
		items = append(items, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", r.desc.Table, err)
	}
	return items, nil
}

func (r *Repository[T]) loadRelations(ctx context.Context, items []*T, includes []string) error {
	if len(items) == 0 {
		return nil
	}
	for _, include := range includes {
		loader, ok := r.desc.Relations[query.NormalizeField(include)]
		if !ok {
			return fmt.Errorf("%w: %s.%s", query.ErrUnknownField, r.desc.Registry.Entity(), include)
		}
		if err := loader(ctx, r.uow.querier, items); err != nil {
			return fmt.Errorf("load %s.%s: %w", r.desc.Table, include, err)
		}
	}
	return nil
}

// Get is a point lookup by primary key, optionally eager-loading the given
// relation paths. Absence is ErrNotFound, not a store failure.
func (r *Repository[T]) Get(ctx context.Context, id int64, includes ...string) (*T, error) {
	sql := fmt.Sprintf("%s WHERE %s = $1", r.desc.selectBase(), r.desc.idColumn())
	entity, err := r.scanRow(r.uow.querier.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %d", ErrNotFound, r.desc.Table, id)
		}
		return nil, fmt.Errorf("get %s: %w", r.desc.Table, err)
	}
	if err := r.loadRelations(ctx, []*T{entity}, includes); err != nil {
		return nil, err
	}
	return entity, nil
}

// FindOne returns the first entity matching the predicate, or ErrNotFound.
func (r *Repository[T]) FindOne(ctx context.Context, pred query.Predicate, includes ...string) (*T, error) {
	var args []any
	where, err := renderPredicate(r.desc.Registry, pred, &args)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf("%s WHERE %s LIMIT 1", r.desc.selectBase(), where)
	entity, err := r.scanRow(r.uow.querier.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.desc.Table)
		}
		return nil, fmt.Errorf("find %s: %w", r.desc.Table, err)
	}
	if err := r.loadRelations(ctx, []*T{entity}, includes); err != nil {
		return nil, err
	}
	return entity, nil
}

// GetAll executes a full spec: filter, includes, sort, then page. A nil
// Where matches everything; a zero PageSize returns everything.
func (r *Repository[T]) GetAll(ctx context.Context, spec query.Spec) ([]*T, error) {
	sql, args, err := renderSelect(r.desc, spec)
	if err != nil {
		return nil, err
	}
	rows, err := r.uow.querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.desc.Table, err)
	}
	items, err := r.scanRows(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, items, spec.Includes); err != nil {
		return nil, err
	}
	return items, nil
}

// Exists reports whether any entity matches without materializing rows.
// A nil predicate asks whether the table has any rows at all.
func (r *Repository[T]) Exists(ctx context.Context, pred query.Predicate) (bool, error) {
	where, args, err := renderFilter(r.desc.Registry, pred)
	if err != nil {
		return false, err
	}
	sql := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s)", r.desc.Table, where)
	var exists bool
	if err := r.uow.querier.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", r.desc.Table, err)
	}
	return exists, nil
}

// Count returns the number of matching entities. A nil predicate counts
// the whole table.
func (r *Repository[T]) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	where, args, err := renderFilter(r.desc.Registry, pred)
	if err != nil {
		return 0, err
	}
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", r.desc.Table, where)
	var count int64
	if err := r.uow.querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.desc.Table, err)
	}
	return count, nil
}

// Max returns the maximum of a registered numeric field over the filtered
// set, or zero when nothing matches.
func (r *Repository[T]) Max(ctx context.Context, field string, pred query.Predicate) (float64, error) {
	return r.aggregate(ctx, "MAX", field, pred)
}

// Min returns the minimum of a registered numeric field over the filtered
// set, or zero when nothing matches.
func (r *Repository[T]) Min(ctx context.Context, field string, pred query.Predicate) (float64, error) {
	return r.aggregate(ctx, "MIN", field, pred)
}

func (r *Repository[T]) aggregate(ctx context.Context, fn, field string, pred query.Predicate) (float64, error) {
	col, err := r.desc.Registry.Column(field)
	if err != nil {
		return 0, err
	}
	where, args, err := renderFilter(r.desc.Registry, pred)
	if err != nil {
		return 0, err
	}
	sql := fmt.Sprintf("SELECT COALESCE(%s(%s), 0)::float8 FROM %s WHERE %s", fn, col, r.desc.Table, where)
	var result float64
	if err := r.uow.querier.QueryRow(ctx, sql, args...).Scan(&result); err != nil {
		return 0, fmt.Errorf("%s %s: %w", strings.ToLower(fn), r.desc.Table, err)
	}
	return result, nil
}

// Add stages an insert. The entity's id is assigned when the unit of work
// commits.
func (r *Repository[T]) Add(entity *T) EntityState {
	return r.addWith(entity, nil)
}

// AddLinked stages an insert whose foreign key is only known once an earlier
// staged insert has run. link executes inside the commit transaction, after
// every previously staged mutation, so it can read generated ids off parent
// entities.
func (r *Repository[T]) AddLinked(entity *T, link func()) EntityState {
	return r.addWith(entity, link)
}

func (r *Repository[T]) addWith(entity *T, link func()) EntityState {
	cols := r.desc.Columns[1:]
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.desc.Table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		r.desc.idColumn(),
	)

	r.uow.stage(mutation{
		state: StateAdded,
		apply: func(ctx context.Context, q Querier) (int64, error) {
			if link != nil {
				link()
			}
			args := r.desc.Bind(entity)[1:]
			var id int64
			if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
				return 0, fmt.Errorf("insert %s: %w", r.desc.Table, err)
			}
			r.desc.SetID(entity, id)
			return 1, nil
		},
	})
	return StateAdded
}

// Update stages an update by primary key. An entity without an id has never
// been persisted and stays detached.
func (r *Repository[T]) Update(entity *T) EntityState {
	if r.desc.ID(entity) == 0 {
		return StateDetached
	}

	cols := r.desc.Columns[1:]
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		r.desc.Table,
		strings.Join(sets, ", "),
		r.desc.idColumn(),
		len(cols)+1,
	)

	r.uow.stage(mutation{
		state: StateModified,
		apply: func(ctx context.Context, q Querier) (int64, error) {
			bound := r.desc.Bind(entity)
			args := append(append([]any{}, bound[1:]...), r.desc.ID(entity))
			tag, err := q.Exec(ctx, sql, args...)
			if err != nil {
				return 0, fmt.Errorf("update %s: %w", r.desc.Table, err)
			}
			return tag.RowsAffected(), nil
		},
	})
	return StateModified
}

// Delete stages a delete by primary key.
func (r *Repository[T]) Delete(entity *T) EntityState {
	if r.desc.ID(entity) == 0 {
		return StateDetached
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.desc.Table, r.desc.idColumn())
	id := r.desc.ID(entity)

	r.uow.stage(mutation{
		state: StateDeleted,
		apply: func(ctx context.Context, q Querier) (int64, error) {
			tag, err := q.Exec(ctx, sql, id)
			if err != nil {
				return 0, fmt.Errorf("delete %s: %w", r.desc.Table, err)
			}
			return tag.RowsAffected(), nil
		},
	})
	return StateDeleted
}

// RawQuery is the escape hatch for a store-native query returning full
// entity rows. Parameters are bound by the driver, never interpolated; the
// statement must select the descriptor's columns in order.
func (r *Repository[T]) RawQuery(ctx context.Context, sql string, args ...any) ([]*T, error) {
	rows, err := r.uow.querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("raw query %s: %w", r.desc.Table, err)
	}
	return r.scanRows(rows)
}
