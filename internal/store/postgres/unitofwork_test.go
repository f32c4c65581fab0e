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
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/shopcore/internal/catalog"
	"github.com/shopcore/shopcore/internal/order"
	"github.com/shopcore/shopcore/internal/website"
)

type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		switch p := dest[0].(type) {
		case *int64:
			*p = r.id
		case *float64:
			*p = float64(r.id)
		case *bool:
			*p = r.id != 0
		}
	}
	return nil
}

// fakeTx satisfies pgx.Tx for the statements a commit issues. It records
// every statement so tests can assert ordering and rollback behavior.
type fakeTx struct {
	pgx.Tx

	executed   []string
	bound      [][]any
	nextID     int64
	failOn     string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.executed = append(t.executed, sql)
	t.bound = append(t.bound, args)
	if t.failOn != "" && strings.HasPrefix(sql, t.failOn) {
		return pgconn.CommandTag{}, errors.New("forced statement failure")
	}
	verb := strings.SplitN(sql, " ", 2)[0]
	return pgconn.NewCommandTag(verb + " 1"), nil
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.executed = append(t.executed, sql)
	t.bound = append(t.bound, args)
	if t.failOn != "" && strings.HasPrefix(sql, t.failOn) {
		return fakeRow{err: errors.New("forced statement failure")}
	}
	t.nextID++
	return fakeRow{id: t.nextID}
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func testUnitOfWork(tx *fakeTx) *UnitOfWork {
	return newUnitOfWork(tx, &fakeBeginner{tx: tx})
}

// TestPurpose: staged mutations flush in one transaction, in staging order,
// and the unit of work reports the total rows affected.
func TestUnitOfWorkCommit(t *testing.T) {
	tx := &fakeTx{nextID: 100}
	uow := testUnitOfWork(tx)
	defer uow.Close()
	repo := RepositoryFor(uow, Websites)

	created := &website.Website{CompanyID: 1, Name: "Shop A", SecretKey: "supersecretkey-0123456789"}
	existing := &website.Website{ID: 4, CompanyID: 1, Name: "Shop B"}
	stale := &website.Website{ID: 9}

	assert.Equal(t, StateAdded, repo.Add(created))
	assert.Equal(t, StateModified, repo.Update(existing))
	assert.Equal(t, StateDeleted, repo.Delete(stale))
	assert.Equal(t, 3, uow.Pending())

	affected, err := uow.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.True(t, tx.committed)

	// Insert assigned the generated id back onto the entity.
	assert.Equal(t, int64(101), created.ID)

	require.Len(t, tx.executed, 3)
	assert.True(t, strings.HasPrefix(tx.executed[0], "INSERT INTO websites"))
	assert.True(t, strings.HasPrefix(tx.executed[1], "UPDATE websites"))
	assert.True(t, strings.HasPrefix(tx.executed[2], "DELETE FROM websites"))

	// Commit drained the staged set; a second commit is a no-op.
	assert.Equal(t, 0, uow.Pending())
	affected, err = uow.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

// TestPurpose: a failing statement rolls the whole batch back. Nothing is
// committed and the staged set is kept for inspection.
func TestUnitOfWorkCommitRollsBackOnFailure(t *testing.T) {
	tx := &fakeTx{failOn: "DELETE"}
	uow := testUnitOfWork(tx)
	defer uow.Close()
	repo := RepositoryFor(uow, Websites)

	repo.Add(&website.Website{CompanyID: 1, Name: "Shop A", SecretKey: "supersecretkey-0123456789"})
	repo.Delete(&website.Website{ID: 3})

	_, err := uow.Commit(context.Background())
	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
	assert.Equal(t, 2, uow.Pending())
}

func TestUnitOfWorkCommitBeginFailure(t *testing.T) {
	uow := newUnitOfWork(nil, &fakeBeginner{beginErr: errors.New("pool exhausted")})
	defer uow.Close()

	RepositoryFor(uow, Websites).Delete(&website.Website{ID: 1})
	_, err := uow.Commit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin commit")
}

// TestPurpose: repositories are cached per entity type, so every part of a
// request stages against the same instance.
func TestUnitOfWorkRepositoryCache(t *testing.T) {
	uow := testUnitOfWork(&fakeTx{})
	defer uow.Close()

	first := RepositoryFor(uow, Websites)
	second := RepositoryFor(uow, Websites)
	assert.Same(t, first, second)

	products := RepositoryFor(uow, Products)
	assert.NotNil(t, products)
}

// TestPurpose: Close discards uncommitted work and is idempotent; a closed
// unit of work refuses further commits.
func TestUnitOfWorkClose(t *testing.T) {
	tx := &fakeTx{}
	uow := testUnitOfWork(tx)
	repo := RepositoryFor(uow, Products)

	repo.Add(&catalog.Product{WebsiteID: 1, CategoryID: 1, Name: "Widget"})
	assert.Equal(t, 1, uow.Pending())

	uow.Close()
	uow.Close()
	assert.Equal(t, 0, uow.Pending())

	_, err := uow.Commit(context.Background())
	assert.ErrorIs(t, err, ErrUnitOfWorkClosed)
	assert.Empty(t, tx.executed)
}

// Entities without a persisted id cannot be updated or deleted.
func TestUnitOfWorkDetachedEntities(t *testing.T) {
	uow := testUnitOfWork(&fakeTx{})
	defer uow.Close()
	repo := RepositoryFor(uow, Orders)

	unsaved := &order.Order{WebsiteID: 1, UserID: 2, Number: "ORD-1"}
	assert.Equal(t, StateDetached, repo.Update(unsaved))
	assert.Equal(t, StateDetached, repo.Delete(unsaved))
	assert.Equal(t, 0, uow.Pending())
}
