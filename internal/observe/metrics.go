// Package observe provides application-wide observability primitives for
// Loreweave: OpenTelemetry metrics and the SDK provider wiring.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Loreweave metrics.
const meterName = "github.com/MrWong99/loreweave"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// LLMDuration tracks LLM round-trip latency. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("model", ...)
	LLMDuration metric.Float64Histogram

	// LLMTokens counts tokens reported by the vendor. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("direction", "input"|"output")
	LLMTokens metric.Int64Counter

	// AgentReplies counts agent replies. Use with attributes:
	//   attribute.String("agent_type", ...), attribute.String("agent", ...)
	AgentReplies metric.Int64Counter

	// ProviderErrors counts provider errors. Use with attribute:
	//   attribute.String("provider", ...)
	ProviderErrors metric.Int64Counter

	// RuleRetrievals counts rule-excerpt retrieval calls. Use with attributes:
	//   attribute.String("rule_set", ...), attribute.String("status", ...)
	RuleRetrievals metric.Int64Counter

	// ActiveCharacterAgents tracks the number of cached character agents.
	ActiveCharacterAgents metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// hosted LLM round trips.
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.LLMDuration, err = m.Float64Histogram("loreweave.llm.duration",
		metric.WithDescription("Latency of LLM round trips."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMTokens, err = m.Int64Counter("loreweave.llm.tokens",
		metric.WithDescription("LLM tokens by provider and direction."),
	); err != nil {
		return nil, err
	}
	if met.AgentReplies, err = m.Int64Counter("loreweave.agent.replies",
		metric.WithDescription("Agent replies by agent type and name."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("loreweave.provider.errors",
		metric.WithDescription("Provider errors by provider."),
	); err != nil {
		return nil, err
	}
	if met.RuleRetrievals, err = m.Int64Counter("loreweave.rules.retrievals",
		metric.WithDescription("Rule-excerpt retrievals by rule set and status."),
	); err != nil {
		return nil, err
	}
	if met.ActiveCharacterAgents, err = m.Int64UpDownCounter("loreweave.active_character_agents",
		metric.WithDescription("Number of cached character agents."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordLLMCall records one LLM round trip: latency plus input/output token
// counters with the standard attribute set.
func (m *Metrics) RecordLLMCall(ctx context.Context, provider, model string, seconds float64, inputTokens, outputTokens int) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
	)
	m.LLMDuration.Record(ctx, seconds, attrs)

	m.LLMTokens.Add(ctx, int64(inputTokens),
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("direction", "input"),
		),
	)
	m.LLMTokens.Add(ctx, int64(outputTokens),
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("direction", "output"),
		),
	)
}

// RecordAgentReply records one agent reply counter increment.
func (m *Metrics) RecordAgentReply(ctx context.Context, agentType, agentName string) {
	m.AgentReplies.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("agent_type", agentType),
			attribute.String("agent", agentName),
		),
	)
}

// RecordProviderError records one provider error counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, provider string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("provider", provider)),
	)
}

// RecordRuleRetrieval records one rule-excerpt retrieval.
func (m *Metrics) RecordRuleRetrieval(ctx context.Context, ruleSet, status string) {
	m.RuleRetrievals.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("rule_set", ruleSet),
			attribute.String("status", status),
		),
	)
}

// AddActiveCharacterAgents adjusts the cached-character-agent gauge by delta.
func (m *Metrics) AddActiveCharacterAgents(delta int64) {
	m.ActiveCharacterAgents.Add(context.Background(), delta)
}
