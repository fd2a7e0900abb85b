package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var ErrUnknownKey = errors.New("unknown signing key")

// KeySet maps a key id to its HMAC secret. The empty id holds a key that is used for
// tokens without a kid header.
type KeySet map[string][]byte

type KeyLoader interface {
	Load(ctx context.Context) (KeySet, error)
}

// StaticKeyLoader serves a single shared secret.
type StaticKeyLoader struct {
	Secret []byte
}

func (l StaticKeyLoader) Load(context.Context) (KeySet, error) {
	if len(l.Secret) == 0 {
		return nil, errors.New("static key loader: empty secret")
	}
	return KeySet{"": l.Secret}, nil
}

// JWKSLoader fetches symmetric ("oct") keys from a JWKS endpoint.
type JWKSLoader struct {
	URL        string
	HTTPClient *http.Client
}

func NewJWKSLoader(url string) *JWKSLoader {
	return &JWKSLoader{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	K   string `json:"k"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

func (l *JWKSLoader) Load(ctx context.Context) (KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, err
	}

	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: http %d", resp.StatusCode)
	}

	var out jwks
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}

	keys := make(KeySet, len(out.Keys))
	for _, k := range out.Keys {
		if k.Kty != "oct" {
			continue
		}
		secret, err := base64.RawURLEncoding.DecodeString(k.K)
		if err != nil {
			return nil, fmt.Errorf("decode jwk %q: %w", k.Kid, err)
		}
		keys[k.Kid] = secret
	}
	if len(keys) == 0 {
		return nil, errors.New("jwks holds no symmetric keys")
	}
	return keys, nil
}

// KeyCache holds the loaded key set for at most ttl. It is shared by reference with
// whoever verifies tokens and can be invalidated explicitly.
type KeyCache struct {
	loader KeyLoader
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	keys     KeySet
	loadedAt time.Time
}

func NewKeyCache(loader KeyLoader, ttl time.Duration) *KeyCache {
	return &KeyCache{
		loader: loader,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Keys returns the cached key set, loading it when empty or expired.
func (c *KeyCache) Keys(ctx context.Context) (KeySet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keys != nil && c.now().Sub(c.loadedAt) < c.ttl {
		return c.keys, nil
	}

	keys, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.keys = keys
	c.loadedAt = c.now()
	return keys, nil
}

func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	c.keys = nil
	c.mu.Unlock()
}

// Key resolves kid. A miss invalidates the cache and reloads once before giving up,
// so rotated keys are picked up without waiting for the ttl.
func (c *KeyCache) Key(ctx context.Context, kid string) ([]byte, error) {
	keys, err := c.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if key, ok := lookup(keys, kid); ok {
		return key, nil
	}

	c.Invalidate()
	keys, err = c.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if key, ok := lookup(keys, kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, kid)
}

func lookup(keys KeySet, kid string) ([]byte, bool) {
	if key, ok := keys[kid]; ok {
		return key, true
	}
	if kid == "" && len(keys) == 1 {
		for _, key := range keys {
			return key, true
		}
	}
	return nil, false
}
