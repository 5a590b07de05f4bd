// Package instrumentation provides OpenTelemetry instrumentation for the
// donna assistant.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for tool invocations, review decisions, LLM
//     usage, Google API calls, and OAuth operations
//   - Distributed tracing for tool execution, review waits, and chat completions
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//   - An audit trail of every gated action and the verdict that resolved it
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Tool Metrics:
//   - tool_invocations_total: Counter of tool invocations by tool name and status
//   - tool_duration_seconds: Histogram of tool execution durations
//
// Review Gate Metrics:
//   - review_decisions_total: Counter of review decisions by tool and verdict
//   - review_wait_duration_seconds: Histogram of time spent waiting for a human decision
//   - reviews_pending: Gauge of invocations currently awaiting review
//
// LLM Metrics:
//   - llm_requests_total: Counter of chat completions by provider, model, and status
//   - llm_request_duration_seconds: Histogram of chat completion durations
//   - llm_tokens_total: Counter of tokens consumed by provider, model, and direction
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth Authentication Metrics:
//   - oauth_auth_total: Counter of OAuth authentication events by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - Tool execution (tool.<name>)
//   - Review waits (review.<name>)
//   - LLM chat completions (llm.chat)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: donna)
//   - METRICS_DETAILED_LABELS: Include the acting user on tool metrics (default: false)
//   - AUDIT_LOGGING_ENABLED: Enable/disable the audit trail (default: true)
//   - AUDIT_LOGGING_INCLUDE_PII: Log full email addresses in audit records (default: false)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "donna",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record a review decision and the execution it allowed
//	recorder.RecordReviewDecision(ctx, "send_email", instrumentation.VerdictApproved)
//	recorder.RecordToolInvocation(ctx, "send_email", instrumentation.StatusSuccess, time.Since(start))
//
//	// Record a chat completion
//	recorder.RecordLLMRequest(ctx, "groq", "llama-3.3-70b-versatile", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
