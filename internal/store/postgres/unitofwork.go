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

	"github.com/jackc/pgx/v5"
)

// ErrUnitOfWorkClosed is returned by Commit after Close or a prior Commit
// failure has released the session.
var ErrUnitOfWorkClosed = errors.New("store: unit of work is closed")

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// mutation is one staged write. apply runs inside the commit transaction and
// reports the rows it affected.
type mutation struct {
	state EntityState
	apply func(ctx context.Context, q Querier) (int64, error)
}

// UnitOfWork scopes repositories and staged mutations to a single request.
// Reads go straight to the session; writes accumulate until Commit flushes
// them in one transaction. One unit of work serves one request and is not
// safe for concurrent use.
type UnitOfWork struct {
	querier Querier
	begin   txBeginner
	repos   map[string]any
	staged  []mutation
	closed  bool
}

// NewUnitOfWork opens a unit of work over the pooled database session.
func NewUnitOfWork(db *DB) *UnitOfWork {
	return newUnitOfWork(db.pool, db.pool)
}

func newUnitOfWork(q Querier, begin txBeginner) *UnitOfWork {
	return &UnitOfWork{
		querier: q,
		begin:   begin,
		repos:   make(map[string]any),
	}
}

// RepositoryFor returns the unit of work's repository for T, creating it on
// first use. Repeated calls with the same descriptor yield the same instance,
// so all work against one entity type shares the staged state.
func RepositoryFor[T any](uow *UnitOfWork, desc *Descriptor[T]) *Repository[T] {
	if repo, ok := uow.repos[desc.Table]; ok {
		return repo.(*Repository[T])
	}
	repo := &Repository[T]{desc: desc, uow: uow}
	if uow.repos == nil {
		uow.repos = make(map[string]any)
	}
	uow.repos[desc.Table] = repo
	return repo
}

func (u *UnitOfWork) stage(m mutation) {
	if u.closed {
		return
	}
	u.staged = append(u.staged, m)
}

// Pending reports how many mutations are staged and not yet committed.
func (u *UnitOfWork) Pending() int {
	return len(u.staged)
}

// Commit flushes all staged mutations in one transaction, in staging order,
// and returns the total rows affected. On failure nothing is persisted and
// the staged set is kept so the caller can inspect or retry; on success the
// staged set is cleared and the unit of work can keep serving the request.
func (u *UnitOfWork) Commit(ctx context.Context) (int64, error) {
	if u.closed {
		return 0, ErrUnitOfWorkClosed
	}
	if len(u.staged) == 0 {
		return 0, nil
	}

	tx, err := u.begin.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin commit: %w", err)
	}

	var affected int64
	for _, m := range u.staged {
		n, err := m.apply(ctx, tx)
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				return 0, fmt.Errorf("rollback after %s failure: %v (original: %w)", m.state, rbErr, err)
			}
			return 0, err
		}
		affected += n
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	u.staged = nil
	return affected, nil
}

// Close releases the unit of work at the end of the request. Staged but
// uncommitted mutations are discarded. Close is idempotent.
func (u *UnitOfWork) Close() {
	if u.closed {
		return
	}
	u.closed = true
	u.staged = nil
	u.repos = nil
}
