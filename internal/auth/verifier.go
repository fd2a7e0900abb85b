package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified caller of a request.
type Identity struct {
	UserID  string
	IsAdmin bool
}

type Claims struct {
	UserID    string
	Role      string
	AdminRole string
}

type Verifier struct {
	keys   *KeyCache
	claims Claims
}

func NewVerifier(keys *KeyCache, claims Claims) *Verifier {
	return &Verifier{keys: keys, claims: claims}
}

// Verify checks the signature and expiry of an HMAC signed token and extracts the caller.
func (v *Verifier) Verify(ctx context.Context, token string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.keys.Key(ctx, kid)
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, _ := claims[v.claims.UserID].(string)
	if userID == "" {
		return Identity{}, fmt.Errorf("%w: missing %q claim", ErrInvalidToken, v.claims.UserID)
	}

	return Identity{
		UserID:  userID,
		IsAdmin: hasRole(claims[v.claims.Role], v.claims.AdminRole),
	}, nil
}

func hasRole(claim any, role string) bool {
	switch c := claim.(type) {
	case string:
		return c == role
	case []any:
		for _, r := range c {
			if s, ok := r.(string); ok && s == role {
				return true
			}
		}
	}
	return false
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
