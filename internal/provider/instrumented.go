package provider

import (
	"context"
	"time"

	"github.com/donna-ai/donna/internal/instrumentation"
)

// InstrumentedProvider wraps a Provider with request metrics, token
// accounting, and an llm.chat span per call. It implements Provider, so
// the agent loop never knows whether it talks to the wrapped provider
// directly.
type InstrumentedProvider struct {
	inner   Provider
	metrics *instrumentation.Metrics
}

// Instrument wraps p with metrics. A nil metrics recorder returns p
// unchanged.
func Instrument(p Provider, metrics *instrumentation.Metrics) Provider {
	if metrics == nil {
		return p
	}
	return &InstrumentedProvider{inner: p, metrics: metrics}
}

func (ip *InstrumentedProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = ip.inner.DefaultModel()
	}

	ctx, span := instrumentation.StartLLMSpan(ctx, ip.inner.Name(), model)
	defer span.End()

	start := time.Now()
	resp, err := ip.inner.Chat(ctx, req)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}

	ip.metrics.RecordLLMRequest(ctx, ip.inner.Name(), model, status, duration)
	if resp != nil {
		ip.metrics.RecordLLMTokens(ctx, ip.inner.Name(), model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return resp, err
}

func (ip *InstrumentedProvider) Name() string { return ip.inner.Name() }

func (ip *InstrumentedProvider) DefaultModel() string { return ip.inner.DefaultModel() }
