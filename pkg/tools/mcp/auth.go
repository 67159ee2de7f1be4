package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// tokenFetchTimeout bounds a single token endpoint request.
const tokenFetchTimeout = 10 * time.Second

// httpClient returns the client used for the server connection, or nil
// when neither headers nor authentication are configured.
func (c ServerConfig) httpClient() (*http.Client, error) {
	var base http.RoundTripper = http.DefaultTransport
	if len(c.Headers) > 0 {
		base = &headerTransport{base: base, headers: c.Headers}
	}

	switch c.Auth.Type {
	case "":
		if len(c.Headers) == 0 {
			return nil, nil
		}
		return &http.Client{Transport: base}, nil

	case AuthOAuthClientCredentials:
		cc := clientcredentials.Config{
			ClientID:     c.Auth.ClientID,
			ClientSecret: c.Auth.ClientSecret,
			TokenURL:     c.Auth.TokenURL,
			Scopes:       c.Auth.Scopes,
		}
		// The token source outlives any single request, so it gets its own
		// context carrying a bounded client for the token endpoint.
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient,
			&http.Client{Timeout: tokenFetchTimeout})
		return &http.Client{
			Transport: &oauth2.Transport{
				Source: cc.TokenSource(tokenCtx),
				Base:   base,
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported auth type %q", c.Auth.Type)
	}
}

// headerTransport adds static headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
