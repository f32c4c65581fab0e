package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValidator(secrets map[int64]string) *Validator {
	return NewValidator(NewKeyResolver("process-wide-default-secret", &fakeSecretSource{secrets: secrets}))
}

func websiteID(id int64) *int64 { return &id }

func TestValidator_WebsiteScopedToken(t *testing.T) {
	secrets := map[int64]string{42: "website-42-signing-secret"}
	issuer := NewIssuer("process-wide-default-secret", &fakeSecretSource{secrets: secrets}, time.Minute)

	raw, exp, err := issuer.Issue(context.Background(), "1001", RoleUser, websiteID(42))
	require.NoError(t, err)

	claims, err := testValidator(secrets).Validate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, "42", claims.WebsiteID)
	assert.Equal(t, "1001", claims.Subject)
	assert.WithinDuration(t, exp, claims.ExpiresAt, time.Second)
}

func TestValidator_SuperAdminTokenUsesDefaultKey(t *testing.T) {
	issuer := NewIssuer("process-wide-default-secret", &fakeSecretSource{}, time.Minute)

	raw, _, err := issuer.Issue(context.Background(), "1", RoleSuperAdmin, nil)
	require.NoError(t, err)

	claims, err := testValidator(nil).Validate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, claims.Role)
	assert.Empty(t, claims.WebsiteID)
}

func TestValidator_RejectsWrongKey(t *testing.T) {
	issuer := NewIssuer("default", &fakeSecretSource{secrets: map[int64]string{42: "the-right-signing-secret"}}, time.Minute)
	raw, _, err := issuer.Issue(context.Background(), "1001", RoleUser, websiteID(42))
	require.NoError(t, err)

	// The validator sees a different secret for website 42.
	claims, err := testValidator(map[int64]string{42: "a-rotated-other-secret!"}).Validate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestValidator_RejectsUnknownKid(t *testing.T) {
	issuer := NewIssuer("default", &fakeSecretSource{secrets: map[int64]string{42: "website-42-signing-secret"}}, time.Minute)
	raw, _, err := issuer.Issue(context.Background(), "1001", RoleUser, websiteID(42))
	require.NoError(t, err)

	claims, err := testValidator(map[int64]string{}).Validate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

// Expiry is enforced with zero leeway, so a token that expired one second
// ago is already rejected.
func TestValidator_RejectsExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1001",
		"role": string(RoleUser),
		"exp":  time.Now().Add(-time.Second).Unix(),
	})
	raw, err := token.SignedString([]byte("process-wide-default-secret"))
	require.NoError(t, err)

	claims, err := testValidator(nil).Validate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestValidator_RejectsTokenWithoutExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1001",
		"role": string(RoleUser),
	})
	raw, err := token.SignedString([]byte("process-wide-default-secret"))
	require.NoError(t, err)

	_, err = testValidator(nil).Validate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidator_RejectsUnsignedToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "1001",
		"role": string(RoleUser),
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testValidator(nil).Validate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidator_RejectsGarbage(t *testing.T) {
	_, err := testValidator(nil).Validate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
