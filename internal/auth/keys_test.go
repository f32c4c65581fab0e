package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretSource struct {
	secrets map[int64]string
	err     error
	calls   int
}

func (f *fakeSecretSource) SecretForWebsite(_ context.Context, websiteID int64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.secrets[websiteID], nil
}

func TestKeyResolver_DefaultKeyWhenKidAbsent(t *testing.T) {
	source := &fakeSecretSource{}
	resolver := NewKeyResolver("process-wide-default-secret", source)

	for _, kid := range []string{"", "  "} {
		keys := resolver.Resolve(context.Background(), kid)
		require.Len(t, keys, 1)
		assert.Equal(t, []byte("process-wide-default-secret"), keys[0].Secret)
	}
	assert.Zero(t, source.calls, "default key must not hit the website store")
}

func TestKeyResolver_WebsiteKey(t *testing.T) {
	source := &fakeSecretSource{secrets: map[int64]string{42: "website-42-signing-secret"}}
	resolver := NewKeyResolver("default", source)

	keys := resolver.Resolve(context.Background(), "42")
	require.Len(t, keys, 1)
	assert.Equal(t, "42", keys[0].ID)
	assert.Equal(t, []byte("website-42-signing-secret"), keys[0].Secret)

	// Deterministic against unchanged state.
	again := resolver.Resolve(context.Background(), "42")
	assert.Equal(t, keys, again)
}

// TestPurpose: Validates that key resolution fails closed. A malformed kid,
// an unknown website, a website without a secret, or a store failure must
// all surface as "no keys usable" so the token is rejected, never a crash.
// Scope: Unit Test
func TestKeyResolver_FailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		source *fakeSecretSource
		kid    string
	}{
		{"non-numeric kid", &fakeSecretSource{}, "not-a-number"},
		{"unknown website", &fakeSecretSource{secrets: map[int64]string{}}, "7"},
		{"website without secret", &fakeSecretSource{secrets: map[int64]string{7: ""}}, "7"},
		{"store failure", &fakeSecretSource{err: errors.New("connection refused")}, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewKeyResolver("default", tt.source)
			assert.Empty(t, resolver.Resolve(context.Background(), tt.kid))
		})
	}
}
