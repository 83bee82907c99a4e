package transport

import (
	"golang.org/x/oauth2"

	"github.com/agentstation/pubsync/pkg/errors"
)

// AuthMethod names the scheme reported in authentication errors.
const AuthMethod = "bearer"

// StaticToken returns a token source for a fixed bearer token.
// An empty token yields a source that always reports no credential.
func StaticToken(token string) oauth2.TokenSource {
	if token == "" {
		return noToken{}
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

// TokenFunc adapts a function to oauth2.TokenSource. It lets callers read the
// token from wherever the session keeps it at request time.
type TokenFunc func() (string, error)

// Token implements oauth2.TokenSource.
func (f TokenFunc) Token() (*oauth2.Token, error) {
	s, err := f()
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, errNoToken
	}
	return &oauth2.Token{AccessToken: s, TokenType: "Bearer"}, nil
}

var errNoToken = errors.New("no token available")

type noToken struct{}

func (noToken) Token() (*oauth2.Token, error) {
	return nil, errNoToken
}

// Credential resolves the current token from src. A nil source, a failing
// source, and an invalid token all produce an AuthenticationError.
func Credential(src oauth2.TokenSource) (*oauth2.Token, error) {
	if src == nil {
		return nil, errors.NewAuthenticationError(AuthMethod, "no credential configured", nil)
	}
	tok, err := src.Token()
	if err != nil {
		return nil, errors.NewAuthenticationError(AuthMethod, "no credential available", err)
	}
	if !tok.Valid() {
		return nil, errors.NewAuthenticationError(AuthMethod, "credential is empty or expired", nil)
	}
	return tok, nil
}
