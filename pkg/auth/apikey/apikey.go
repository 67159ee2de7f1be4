// Package apikey authenticates callers by static API keys presented as a
// bearer token or in the X-API-Key header.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/rhuss/coursebot/pkg/auth"
)

// HeaderName is the alternative header carrying a key.
const HeaderName = "X-API-Key"

// Key binds a plaintext key to the identity it authenticates.
type Key struct {
	Key     string
	Subject string
	Tier    string
}

type entry struct {
	hash [32]byte
	id   auth.Identity
}

// Authenticator matches presented keys against SHA-256 hashes of the
// configured ones. Plaintext keys are not retained.
type Authenticator struct {
	entries []entry
}

var _ auth.Authenticator = (*Authenticator)(nil)

// New creates an authenticator for keys. Keys with an empty value are
// skipped.
func New(keys []Key) *Authenticator {
	a := &Authenticator{}
	for _, k := range keys {
		if k.Key == "" {
			continue
		}
		a.entries = append(a.entries, entry{
			hash: sha256.Sum256([]byte(k.Key)),
			id:   auth.Identity{Subject: k.Subject, Tier: k.Tier},
		})
	}
	return a
}

// Authenticate abstains when no key is presented. A presented key that
// matches nothing is a No vote.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Result {
	key := r.Header.Get(HeaderName)
	if key == "" {
		token, ok := auth.BearerToken(r)
		if !ok {
			return auth.Result{Decision: auth.Abstain}
		}
		// JWTs are left to the JWT authenticator.
		if looksLikeJWT(token) {
			return auth.Result{Decision: auth.Abstain}
		}
		key = token
	}
	if key == "" {
		return auth.Result{Decision: auth.No, Err: auth.ErrUnauthenticated}
	}

	sum := sha256.Sum256([]byte(key))
	for _, e := range a.entries {
		if subtle.ConstantTimeCompare(sum[:], e.hash[:]) == 1 {
			id := e.id
			return auth.Result{Decision: auth.Yes, Identity: &id}
		}
	}
	return auth.Result{Decision: auth.No, Err: auth.ErrUnauthenticated}
}

// looksLikeJWT reports whether token has the three dot separated segments
// of a compact JWS.
func looksLikeJWT(token string) bool {
	dots := 0
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			dots++
		}
	}
	return dots == 2
}
