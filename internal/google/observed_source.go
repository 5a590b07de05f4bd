package google

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"

	"github.com/donna-ai/donna/internal/instrumentation"
)

// ObservedTokenProvider decorates a TokenProvider with OAuth metrics.
// A failed TokenSource call counts as a failed authentication; token
// sources it hands out record the first successful fetch as an
// authentication and later token changes as refreshes.
type ObservedTokenProvider struct {
	Inner   TokenProvider
	Metrics *instrumentation.Metrics
}

func (p *ObservedTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	ts, err := p.Inner.TokenSource(ctx)
	if err != nil {
		if p.Metrics != nil {
			p.Metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		}
		return nil, err
	}
	return ObserveTokenSource(ts, p.Metrics), nil
}

func (p *ObservedTokenProvider) HasToken() bool {
	return p.Inner.HasToken()
}

// ObserveTokenSource wraps ts with OAuth metrics. A nil metrics
// recorder returns ts unchanged.
func ObserveTokenSource(ts oauth2.TokenSource, metrics *instrumentation.Metrics) oauth2.TokenSource {
	if metrics == nil {
		return ts
	}
	return &observedTokenSource{inner: ts, metrics: metrics}
}

type observedTokenSource struct {
	inner   oauth2.TokenSource
	metrics *instrumentation.Metrics

	mu   sync.Mutex
	last string // access token from the previous successful fetch
}

func (o *observedTokenSource) Token() (*oauth2.Token, error) {
	tok, err := o.inner.Token()

	o.mu.Lock()
	defer o.mu.Unlock()

	ctx := context.Background()
	if err != nil {
		if o.last == "" {
			o.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		} else {
			o.metrics.RecordOAuthTokenRefresh(ctx, refreshResult(err))
		}
		return nil, err
	}

	switch {
	case o.last == "":
		o.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	case tok.AccessToken != o.last:
		o.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	}
	o.last = tok.AccessToken
	return tok, nil
}

// refreshResult distinguishes a revoked or expired grant from transient
// refresh failures. Google reports the former as invalid_grant.
func refreshResult(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
		return instrumentation.OAuthResultExpired
	}
	return instrumentation.OAuthResultFailure
}
