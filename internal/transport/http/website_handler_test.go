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

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/shopcore/internal/audit"
	"github.com/shopcore/shopcore/internal/query"
	"github.com/shopcore/shopcore/internal/website"
)

// specRecordingRepo remembers the query spec List was called with.
type specRecordingRepo struct {
	fakeWebsiteRepo
	listSpec query.Spec
	listErr  error
}

func (r *specRecordingRepo) List(_ context.Context, spec query.Spec) ([]*website.Website, error) {
	r.listSpec = spec
	if r.listErr != nil {
		return nil, r.listErr
	}
	return []*website.Website{}, nil
}

// noCompany fails every owner check.
type noCompany struct{}

func (noCompany) CompanyExists(context.Context, int64) (bool, error) { return false, nil }

func websiteHandler(repo website.Repository, companies website.CompanyDirectory) *Handler {
	auditLogger := audit.NewSlogLogger()
	return NewHandler(
		nil,
		website.NewService(repo, companies, noopInvalidator{}, auditLogger),
		nil,
		auditLogger,
		nil,
	)
}

// TestPurpose: the admin website listing honors the full list wire
// protocol; sort and dir reach the store instead of being dropped.
func TestListWebsitesForwardsSort(t *testing.T) {
	repo := &specRecordingRepo{}
	h := websiteHandler(repo, anyCompany{})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/websites?sort=name&dir=asc&page=2&size=5", nil)
	h.ListWebsites(rec, r)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "name", repo.listSpec.SortBy)
	assert.Equal(t, query.Ascending, repo.listSpec.SortDir)
	assert.Equal(t, 2, repo.listSpec.Page)
	assert.Equal(t, 5, repo.listSpec.PageSize)
}

func TestListWebsitesUnknownSortColumn(t *testing.T) {
	repo := &specRecordingRepo{listErr: query.ErrInvalidSort}
	h := websiteHandler(repo, anyCompany{})

	rec := httptest.NewRecorder()
	h.ListWebsites(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/websites?sort=nosuchcolumn", nil))

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "Invalid sort or filter column.", env.ResultMessage)
}

// Provisioning under an unknown company is the caller's mistake, not a
// foreign key violation.
func TestCreateWebsiteUnknownCompany(t *testing.T) {
	repo := &specRecordingRepo{}
	h := websiteHandler(repo, noCompany{})

	body := strings.NewReader(`{"companyId":99,"name":"Acme Store","hostname":"shop.acme.test","secretKey":"a-long-enough-signing-secret"}`)
	rec := httptest.NewRecorder()
	h.CreateWebsite(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/websites", body))

	env := decodeEnvelope(t, rec)
	require.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, website.ErrCompanyInvalid.Error(), env.ResultMessage)
}
