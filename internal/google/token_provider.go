package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth token sources for Google APIs.
// This abstraction allows different token backends (file cache, in-memory test
// doubles) behind the service clients.
type TokenProvider interface {
	// TokenSource returns an auto-refreshing token source.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)

	// HasToken reports whether a credential is available at all.
	HasToken() bool
}

// FileTokenProvider provides token sources from the on-disk token cache.
type FileTokenProvider struct {
	conf *oauth2.Config
}

// NewFileTokenProvider creates a file-based token provider for the given
// OAuth client configuration.
func NewFileTokenProvider(conf *oauth2.Config) *FileTokenProvider {
	return &FileTokenProvider{conf: conf}
}

// TokenSource returns a token source backed by the cached token.
func (p *FileTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return GetTokenSource(ctx, p.conf)
}

// HasToken checks if a token cache file exists.
func (p *FileTokenProvider) HasToken() bool {
	return HasToken()
}

// StaticTokenProvider serves a fixed token. Intended for tests and for
// short-lived helper processes that received a token out of band.
type StaticTokenProvider struct {
	Tok *oauth2.Token
}

// TokenSource returns a static source for the fixed token.
func (p *StaticTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if p.Tok == nil {
		return nil, &AuthenticationError{Reason: "no token configured"}
	}
	return oauth2.StaticTokenSource(p.Tok), nil
}

// HasToken reports whether a token was configured.
func (p *StaticTokenProvider) HasToken() bool {
	return p.Tok != nil
}
