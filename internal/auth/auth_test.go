package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	sets  []KeySet
	calls int
}

func (l *countingLoader) Load(context.Context) (KeySet, error) {
	set := l.sets[min(l.calls, len(l.sets)-1)]
	l.calls++
	return set, nil
}

func TestKeyCacheReloadsAfterTTL(t *testing.T) {
	loader := &countingLoader{sets: []KeySet{{"a": []byte("one")}}}
	cache := NewKeyCache(loader, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_, err := cache.Keys(context.Background())
	require.NoError(t, err)
	_, err = cache.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)

	now = now.Add(2 * time.Minute)
	_, err = cache.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)

	cache.Invalidate()
	_, err = cache.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, loader.calls)
}

func TestKeyCacheReloadsOnceForUnknownKid(t *testing.T) {
	loader := &countingLoader{sets: []KeySet{
		{"old": []byte("old-secret")},
		{"old": []byte("old-secret"), "new": []byte("new-secret")},
	}}
	cache := NewKeyCache(loader, time.Hour)

	key, err := cache.Key(context.Background(), "new")
	require.NoError(t, err)
	assert.Equal(t, []byte("new-secret"), key)
	assert.Equal(t, 2, loader.calls)

	_, err = cache.Key(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, 3, loader.calls)
}

func TestKeyCacheUsesSingleKeyWithoutKid(t *testing.T) {
	cache := NewKeyCache(StaticKeyLoader{Secret: []byte("s")}, time.Hour)
	key, err := cache.Key(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []byte("s"), key)
}

func sign(t *testing.T, secret, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newVerifier(secret string) *Verifier {
	cache := NewKeyCache(StaticKeyLoader{Secret: []byte(secret)}, time.Hour)
	return NewVerifier(cache, Claims{UserID: "sub", Role: "role", AdminRole: "admin"})
}

func TestVerifyExtractsIdentity(t *testing.T) {
	v := newVerifier("secret")
	exp := time.Now().Add(time.Hour).Unix()

	id, err := v.Verify(context.Background(), sign(t, "secret", "", jwt.MapClaims{"sub": "user-1", "role": "customer", "exp": exp}))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1"}, id)

	id, err = v.Verify(context.Background(), sign(t, "secret", "", jwt.MapClaims{"sub": "user-2", "role": []any{"staff", "admin"}, "exp": exp}))
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	v := newVerifier("secret")
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, "other", "", jwt.MapClaims{"sub": "u"})},
		{"expired", sign(t, "secret", "", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"missing subject", sign(t, "secret", "", jwt.MapClaims{"role": "admin"})},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWKSLoaderKeepsSymmetricKeys(t *testing.T) {
	k := base64.RawURLEncoding.EncodeToString([]byte("rotating-secret"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[{"kty":"oct","kid":"k1","k":"` + k + `"},{"kty":"RSA","kid":"r1","n":"x"}]}`))
	}))
	defer srv.Close()

	keys, err := NewJWKSLoader(srv.URL).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KeySet{"k1": []byte("rotating-secret")}, keys)

	cache := NewKeyCache(NewJWKSLoader(srv.URL), time.Hour)
	v := NewVerifier(cache, Claims{UserID: "sub", Role: "role", AdminRole: "admin"})
	id, err := v.Verify(context.Background(), sign(t, "rotating-secret", "k1", jwt.MapClaims{"sub": "user-9", "role": "admin"}))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-9", IsAdmin: true}, id)
}
