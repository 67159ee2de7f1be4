// Package jwt authenticates bearer tokens signed with a shared HMAC secret.
//
// Tokens must carry an expiry. Issuer and audience are checked when
// configured; subject, tier and scopes are read from configurable claims.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/rhuss/coursebot/pkg/auth"
	"github.com/rhuss/coursebot/pkg/debug"
)

// Config holds the validation settings.
type Config struct {
	// Secret is the HMAC key. Required.
	Secret []byte

	// Issuer and Audience are checked when non-empty.
	Issuer   string
	Audience string

	// SubjectClaim names the claim used as identity subject. Default "sub".
	SubjectClaim string

	// TierClaim names the claim selecting the rate limit tier. Default "tier".
	TierClaim string

	// ScopesClaim holds a space separated string or a list. Default "scope".
	ScopesClaim string

	// Leeway tolerates clock skew on exp, nbf and iat.
	Leeway time.Duration
}

// ErrNoSecret is returned by New when Config.Secret is empty.
var ErrNoSecret = errors.New("jwt: secret is required")

// Authenticator validates HS256, HS384 and HS512 tokens.
type Authenticator struct {
	cfg    Config
	parser *jwtlib.Parser
}

var _ auth.Authenticator = (*Authenticator)(nil)

// New creates an Authenticator.
func New(cfg Config) (*Authenticator, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if cfg.SubjectClaim == "" {
		cfg.SubjectClaim = "sub"
	}
	if cfg.TierClaim == "" {
		cfg.TierClaim = "tier"
	}
	if cfg.ScopesClaim == "" {
		cfg.ScopesClaim = "scope"
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(cfg.Audience))
	}
	return &Authenticator{cfg: cfg, parser: jwtlib.NewParser(opts...)}, nil
}

// Authenticate abstains unless a bearer token is present. Any validation
// failure is a No vote.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Result {
	tokenStr, ok := auth.BearerToken(r)
	if !ok || strings.Count(tokenStr, ".") != 2 {
		return auth.Result{Decision: auth.Abstain}
	}

	claims := jwtlib.MapClaims{}
	_, err := a.parser.ParseWithClaims(tokenStr, claims, func(*jwtlib.Token) (any, error) {
		return a.cfg.Secret, nil
	})
	if err != nil {
		debug.Log("transport", "jwt rejected", "error", err)
		return auth.Result{Decision: auth.No, Err: fmt.Errorf("invalid token: %w", err)}
	}

	subject := stringClaim(claims, a.cfg.SubjectClaim)
	if subject == "" {
		return auth.Result{Decision: auth.No, Err: fmt.Errorf("token has no %q claim", a.cfg.SubjectClaim)}
	}
	return auth.Result{
		Decision: auth.Yes,
		Identity: &auth.Identity{
			Subject: subject,
			Tier:    stringClaim(claims, a.cfg.TierClaim),
			Scopes:  scopes(claims[a.cfg.ScopesClaim]),
		},
	}
}

func stringClaim(claims jwtlib.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

func scopes(v any) []string {
	switch v := v.(type) {
	case string:
		return strings.Fields(v)
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
