package aws

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names shared by the services.
const (
	MetricHTTPRequests = "HTTPRequests"
	MetricHTTPErrors   = "HTTPErrors"
	MetricHTTPLatency  = "HTTPLatency"
	MetricHTTP4xx      = "HTTP4xxErrors"
	MetricHTTP5xx      = "HTTP5xxErrors"

	MetricOrdersPlaced     = "OrdersPlaced"
	MetricOrdersRejected   = "OrdersRejected"
	MetricOrderValue       = "OrderValue"
	MetricImportRowsOK     = "ImportRowsSucceeded"
	MetricImportRowsFailed = "ImportRowsFailed"
	MetricImportWarnings   = "ImportImageWarnings"
	MetricCouponsApplied   = "CouponsApplied"
)

// PutMetricData accepts at most this many data points per call.
const metricBatchSize = 1000

// MetricsAPI is the subset of the CloudWatch client used for custom metrics.
type MetricsAPI interface {
	PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsClient publishes custom metrics under one namespace. A nil or
// disabled client accepts every call and sends nothing.
type MetricsClient struct {
	client    MetricsAPI
	namespace string
	enabled   bool
	now       func() time.Time
}

// NewMetricsClient publishes only when CLOUDWATCH_ENABLED=true.
func NewMetricsClient(cfg aws.Config) *MetricsClient {
	return &MetricsClient{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: getEnvDefault("CLOUDWATCH_NAMESPACE", "MishtanStore"),
		enabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		now:       time.Now,
	}
}

// Datum builds one data point. Dimensions are sorted by name so identical
// maps always produce the same series.
func (m *MetricsClient) Datum(name string, value float64, unit types.StandardUnit, dimensions map[string]string) types.MetricDatum {
	names := make([]string, 0, len(dimensions))
	for k := range dimensions {
		names = append(names, k)
	}
	sort.Strings(names)

	dims := make([]types.Dimension, 0, len(names))
	for _, k := range names {
		dims = append(dims, types.Dimension{Name: aws.String(k), Value: aws.String(dimensions[k])})
	}
	ts := time.Now()
	if m != nil && m.now != nil {
		ts = m.now()
	}
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(ts),
		Dimensions: dims,
	}
}

// Put sends data points, splitting them into as many calls as needed.
func (m *MetricsClient) Put(ctx context.Context, data ...types.MetricDatum) error {
	if !m.IsEnabled() {
		return nil
	}
	for len(data) > 0 {
		n := min(len(data), metricBatchSize)
		if _, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: data[:n],
		}); err != nil {
			return fmt.Errorf("failed to put metric data: %w", err)
		}
		data = data[n:]
	}
	return nil
}

// RecordCount adds one to a counter.
func (m *MetricsClient) RecordCount(ctx context.Context, name string, dimensions map[string]string) error {
	return m.Put(ctx, m.Datum(name, 1, types.StandardUnitCount, dimensions))
}

// RecordLatency records d in milliseconds.
func (m *MetricsClient) RecordLatency(ctx context.Context, name string, d time.Duration, dimensions map[string]string) error {
	return m.Put(ctx, m.Datum(name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dimensions))
}

// RecordValue records a unitless value.
func (m *MetricsClient) RecordValue(ctx context.Context, name string, value float64, dimensions map[string]string) error {
	return m.Put(ctx, m.Datum(name, value, types.StandardUnitNone, dimensions))
}

func (m *MetricsClient) IsEnabled() bool {
	return m != nil && m.enabled
}
