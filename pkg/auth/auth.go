package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Decision is an authenticator's vote.
type Decision int

const (
	// Abstain means the authenticator does not handle the presented
	// credentials. The chain moves on.
	Abstain Decision = iota

	// Yes means the credentials are valid.
	Yes

	// No means the credentials are present but invalid.
	No
)

func (d Decision) String() string {
	switch d {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "abstain"
	}
}

// Result is the outcome of one authentication attempt.
type Result struct {
	Decision Decision
	Identity *Identity // set when Decision is Yes
	Err      error     // set when Decision is No
}

// Identity is an authenticated caller.
type Identity struct {
	Subject string

	// Tier selects the caller's rate limit. Empty means the default tier.
	Tier string

	Scopes []string
}

// Anonymous is the identity admitted when every authenticator abstains
// and the chain allows anonymous callers.
var Anonymous = Identity{Subject: "anonymous"}

// Authenticator inspects the request credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrTooManyRequests = errors.New("rate limit exceeded")
)

// Chain evaluates authenticators in order.
type Chain struct {
	Authenticators []Authenticator

	// AllowAnonymous admits callers without credentials any member
	// recognizes.
	AllowAnonymous bool
}

// Authenticate returns the first Yes or No vote. When all members abstain
// the result depends on AllowAnonymous.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) Result {
	for _, a := range c.Authenticators {
		if res := a.Authenticate(ctx, r); res.Decision != Abstain {
			return res
		}
	}
	if c.AllowAnonymous {
		id := Anonymous
		return Result{Decision: Yes, Identity: &id}
	}
	return Result{Decision: No, Err: ErrUnauthenticated}
}

// BearerToken returns the token of an "Authorization: Bearer" header. ok
// is false when the header is missing or uses another scheme.
func BearerToken(r *http.Request) (token string, ok bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by the middleware, or
// nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
