package observe

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// collect gathers all metric data from the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

// findMetric searches for a metric by name across all scope metrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetrics_CreatesWithoutError(t *testing.T) {
	m, _ := newTestMetrics(t)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestRecordLLMCall(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordLLMCall(ctx, "openai", "gpt-4o", 1.2, 120, 48)

	rm := collect(t, reader)

	duration := findMetric(rm, "loreweave.llm.duration")
	if duration == nil {
		t.Fatal("loreweave.llm.duration not found")
	}
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("duration data type = %T", duration.Data)
	}
	if got := hist.DataPoints[0].Count; got != 1 {
		t.Errorf("duration count = %d, want 1", got)
	}

	tokens := findMetric(rm, "loreweave.llm.tokens")
	if tokens == nil {
		t.Fatal("loreweave.llm.tokens not found")
	}
	sum, ok := tokens.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("tokens data type = %T", tokens.Data)
	}
	// One data point per direction.
	if len(sum.DataPoints) != 2 {
		t.Fatalf("token data points = %d, want 2", len(sum.DataPoints))
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 168 {
		t.Errorf("total tokens = %d, want 168", total)
	}
}

func TestRecordAgentReply(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordAgentReply(ctx, "character", "Thorgrim")
	m.RecordAgentReply(ctx, "character", "Thorgrim")
	m.RecordAgentReply(ctx, "master", "Game Master")

	rm := collect(t, reader)
	replies := findMetric(rm, "loreweave.agent.replies")
	if replies == nil {
		t.Fatal("loreweave.agent.replies not found")
	}
	sum, ok := replies.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("replies data type = %T", replies.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 3 {
		t.Errorf("total replies = %d, want 3", total)
	}
}

func TestDefaultMetrics_ReturnsSameInstance(t *testing.T) {
	a := DefaultMetrics()
	b := DefaultMetrics()
	if a != b {
		t.Error("DefaultMetrics must return the same instance")
	}
}
