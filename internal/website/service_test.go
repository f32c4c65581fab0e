package website

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/shopcore/internal/audit"
	"github.com/shopcore/shopcore/internal/query"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, w *Website) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Website, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Website), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, w *Website) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockRepo) List(ctx context.Context, spec query.Spec) ([]*Website, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).([]*Website), args.Error(1)
}

// allCompanies answers yes for every id; tests that care about the owner
// check use mockCompanies instead.
type allCompanies struct{}

func (allCompanies) CompanyExists(context.Context, int64) (bool, error) { return true, nil }

type mockCompanies struct {
	mock.Mock
}

func (m *mockCompanies) CompanyExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context, websiteID int64) error {
	args := m.Called(ctx, websiteID)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func TestWebsite_Service_Create(t *testing.T) {
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, allCompanies{}, new(mockInvalidator), auditLogger)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	auditLogger.On("Log", mock.Anything, mock.Anything).Return()

	w, err := service.Create(context.Background(), &Website{
		Name:      "Acme Store",
		CompanyID: 3,
		SecretKey: "a-long-enough-signing-secret",
	}, "1")
	require.NoError(t, err)
	assert.True(t, w.IsActive, "new websites start active")
	assert.False(t, w.CreatedAt.IsZero())

	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

// TestPurpose: Validates the signing-secret length invariant. A website
// secret shorter than 20 characters must never reach the store.
// Scope: Unit Test
// Security: Weak key prevention
func TestWebsite_Service_Create_RejectsShortSecret(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, allCompanies{}, new(mockInvalidator), new(mockAudit))

	_, err := service.Create(context.Background(), &Website{
		Name:      "Acme Store",
		SecretKey: "too-short",
	}, "1")
	assert.ErrorIs(t, err, ErrSecretTooShort)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebsite_Service_Create_RequiresName(t *testing.T) {
	service := NewService(new(mockRepo), allCompanies{}, new(mockInvalidator), new(mockAudit))

	_, err := service.Create(context.Background(), &Website{
		SecretKey: "a-long-enough-signing-secret",
	}, "1")
	assert.ErrorIs(t, err, ErrNameRequired)
}

// A website cannot be provisioned under a company the platform does not
// know; the bad owner id surfaces as a validation error, not a store
// constraint violation.
func TestWebsite_Service_Create_RejectsUnknownCompany(t *testing.T) {
	repo := new(mockRepo)
	companies := new(mockCompanies)
	service := NewService(repo, companies, new(mockInvalidator), new(mockAudit))

	companies.On("CompanyExists", mock.Anything, int64(99)).Return(false, nil)

	_, err := service.Create(context.Background(), &Website{
		Name:      "Acme Store",
		CompanyID: 99,
		SecretKey: "a-long-enough-signing-secret",
	}, "1")
	assert.ErrorIs(t, err, ErrCompanyInvalid)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebsite_Service_SetActive_SoftFlagOnly(t *testing.T) {
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, allCompanies{}, new(mockInvalidator), auditLogger)

	stored := &Website{ID: 42, Name: "Acme Store", IsActive: true}
	repo.On("GetByID", mock.Anything, int64(42)).Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)
	auditLogger.On("Log", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeWebsiteDeactivated && e.WebsiteID == "42"
	})).Return()

	w, err := service.SetActive(context.Background(), 42, false, "1")
	require.NoError(t, err)
	assert.False(t, w.IsActive)

	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

func TestWebsite_Service_RotateSecret_InvalidatesCache(t *testing.T) {
	repo := new(mockRepo)
	invalidator := new(mockInvalidator)
	auditLogger := new(mockAudit)
	service := NewService(repo, allCompanies{}, invalidator, auditLogger)

	stored := &Website{ID: 42, Name: "Acme Store", SecretKey: "old-signing-secret-value"}
	repo.On("GetByID", mock.Anything, int64(42)).Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)
	invalidator.On("Invalidate", mock.Anything, int64(42)).Return(nil)
	auditLogger.On("Log", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeSecretRotated
	})).Return()

	err := service.RotateSecret(context.Background(), 42, "new-signing-secret-value", "1")
	require.NoError(t, err)
	assert.Equal(t, "new-signing-secret-value", stored.SecretKey)

	invalidator.AssertExpectations(t)
}

func TestWebsite_Service_RotateSecret_RejectsShortSecret(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, allCompanies{}, new(mockInvalidator), new(mockAudit))

	err := service.RotateSecret(context.Background(), 42, "short", "1")
	assert.ErrorIs(t, err, ErrSecretTooShort)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
