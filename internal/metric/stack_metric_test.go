// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewProviderUsesGlobalProvider(t *testing.T) {
	prevProvider := otel.GetMeterProvider()
	recorder := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
	otel.SetMeterProvider(recorder)
	t.Cleanup(func() {
		otel.SetMeterProvider(prevProvider)
	})

	provider := NewProvider(nil)
	require.NotNil(t, provider.Meter())
	assert.Equal(t, recorder, provider.meterProvider)
	assert.Equal(t, []string{instrumentationName}, recorder.called)
}

func TestNewProviderWithCustomProvider(t *testing.T) {
	custom := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
	provider := NewProvider(custom)
	require.NotNil(t, provider.Meter())
	assert.Equal(t, custom, provider.meterProvider)
	assert.Equal(t, []string{instrumentationName}, custom.called)
}

func TestStackMetric(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = meterProvider.Shutdown(ctx)
	})

	live := int64(7)
	stackMetric, err := NewStackMetric(NewProvider(meterProvider).Meter(), func() int64 { return live })
	require.NoError(t, err)

	stackMetric.RecordPush(ctx, 0)
	stackMetric.RecordPush(ctx, 3)
	stackMetric.RecordPop(ctx, false, 1)
	stackMetric.RecordPop(ctx, true, 0)
	stackMetric.RecordPop(ctx, true, 0)

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &data))
	values := collectInt64(data)

	assert.EqualValues(t, 2, values["lfstack_push_count"])
	assert.EqualValues(t, 1, values["lfstack_pop_count"])
	assert.EqualValues(t, 2, values["lfstack_empty_pop_count"])
	assert.EqualValues(t, 4, values["lfstack_cas_retry_count"])
	assert.EqualValues(t, 7, values["lfstack_live_nodes"])

	require.NoError(t, stackMetric.Unregister())
}

func TestStackMetricWithNoopMeter(t *testing.T) {
	stackMetric, err := NewStackMetric(noop.NewMeterProvider().Meter("test"), func() int64 { return 0 })
	require.NoError(t, err)
	assert.NotNil(t, stackMetric.pushCount)
	assert.NotNil(t, stackMetric.popCount)
	assert.NotNil(t, stackMetric.emptyPopCount)
	assert.NotNil(t, stackMetric.casRetryCount)
	assert.NotNil(t, stackMetric.liveNodes)
	require.NoError(t, stackMetric.Unregister())
}

// collectInt64 flattens the collected sums and gauges by instrument name
func collectInt64(data metricdata.ResourceMetrics) map[string]int64 {
	values := make(map[string]int64)
	for _, scope := range data.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch agg := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, point := range agg.DataPoints {
					values[m.Name] += point.Value
				}
			case metricdata.Gauge[int64]:
				for _, point := range agg.DataPoints {
					values[m.Name] = point.Value
				}
			}
		}
	}
	return values
}

type recorderMeterProvider struct {
	otelmetric.MeterProvider
	called []string
}

func (p *recorderMeterProvider) Meter(name string, opts ...otelmetric.MeterOption) otelmetric.Meter {
	p.called = append(p.called, name)
	return p.MeterProvider.Meter(name, opts...)
}
