package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// NewOAuthConfig returns the OAuth2 configuration for the assistant's
// Google access. The client credentials come from configuration; the
// scopes are fixed (DefaultOAuthScopes).
func NewOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       DefaultOAuthScopes,
	}
}

// TokenFilePath returns the path of the cached Google token.
func TokenFilePath() string {
	return filepath.Join(userCacheDir(), "donna", "google.token")
}

// HasToken checks if a cached OAuth token exists
func HasToken() bool {
	_, err := os.ReadFile(TokenFilePath())
	return err == nil
}

// GetAuthURL returns the OAuth URL for user authorization
func GetAuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// SaveToken exchanges an authorization code for tokens and saves them
func SaveToken(ctx context.Context, conf *oauth2.Config, authCode string) error {
	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	tokenFile := TokenFilePath()
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(tokenFile, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// GetTokenSource returns an auto-refreshing OAuth2 token source backed by
// the cached token. The source is validated once so a revoked refresh token
// surfaces here rather than on the first API call.
func GetTokenSource(ctx context.Context, conf *oauth2.Config) (oauth2.TokenSource, error) {
	slurp, err := os.ReadFile(TokenFilePath())
	if err != nil {
		return nil, &AuthenticationError{Reason: "no Google OAuth token found"}
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, &AuthenticationError{Reason: "token cache is corrupt"}
	}

	// Expiry in the past forces an immediate refresh on first use.
	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	if _, err := ts.Token(); err != nil {
		return nil, &AuthenticationError{Reason: "cached token could not be refreshed", Err: err}
	}

	return ts, nil
}

// NewHTTPClient returns an HTTP client that authenticates with the given
// token source. The client is configured to use HTTP/1.1 to avoid HTTP/2
// protocol errors with the Google APIs.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	return client
}

// GetHTTPClient returns an authenticated HTTP client for the cached token.
func GetHTTPClient(ctx context.Context, conf *oauth2.Config) (*http.Client, error) {
	ts, err := GetTokenSource(ctx, conf)
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(ctx, ts), nil
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
