package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// CloudWatchLogsAPI is the subset of the CloudWatch Logs client used to ship logs.
type CloudWatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, in *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

const (
	logBatchSize     = 100
	logFlushInterval = 2 * time.Second
)

// CloudWatchLogsClient is a zap sink that buffers log lines and ships them to
// one log stream per process. Lines are sent when the buffer fills, on a
// timer, and on Sync.
type CloudWatchLogsClient struct {
	client  CloudWatchLogsAPI
	group   string
	stream  string
	enabled bool

	mu      sync.Mutex
	pending []types.InputLogEvent
	stop    chan struct{}
	once    sync.Once
}

// NewCloudWatchLogsClient sets up the log group and stream for serviceName.
// Shipping is disabled unless CLOUDWATCH_ENABLED=true.
func NewCloudWatchLogsClient(ctx context.Context, cfg aws.Config, serviceName string) (*CloudWatchLogsClient, error) {
	c := newLogShipper(cloudwatchlogs.NewFromConfig(cfg),
		getEnvDefault("CLOUDWATCH_LOG_GROUP", "/mishtan/services"),
		fmt.Sprintf("%s-%d", serviceName, time.Now().Unix()),
		os.Getenv("CLOUDWATCH_ENABLED") == "true",
	)
	if !c.enabled {
		return c, nil
	}

	retention := int32(14)
	if d, err := strconv.Atoi(os.Getenv("CLOUDWATCH_RETENTION_DAYS")); err == nil && d > 0 {
		retention = int32(d)
	}
	if err := c.setup(ctx, retention); err != nil {
		return nil, err
	}
	go c.flushLoop()
	return c, nil
}

func newLogShipper(api CloudWatchLogsAPI, group, stream string, enabled bool) *CloudWatchLogsClient {
	return &CloudWatchLogsClient{
		client:  api,
		group:   group,
		stream:  stream,
		enabled: enabled,
		stop:    make(chan struct{}),
	}
}

func (c *CloudWatchLogsClient) setup(ctx context.Context, retentionDays int32) error {
	_, err := c.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: aws.String(c.group)})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("failed to create log group: %w", err)
	}
	if _, err := c.client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(c.group),
		RetentionInDays: aws.Int32(retentionDays),
	}); err != nil {
		return fmt.Errorf("failed to set retention policy: %w", err)
	}
	if _, err := c.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(c.group),
		LogStreamName: aws.String(c.stream),
	}); err != nil {
		return fmt.Errorf("failed to create log stream: %w", err)
	}
	return nil
}

// Write queues one encoded entry. It never fails so logging cannot break the
// caller; shipping errors go to stderr.
func (c *CloudWatchLogsClient) Write(p []byte) (int, error) {
	if !c.enabled || len(p) == 0 {
		return len(p), nil
	}
	c.mu.Lock()
	c.pending = append(c.pending, types.InputLogEvent{
		Message:   aws.String(string(p)),
		Timestamp: aws.Int64(time.Now().UnixMilli()),
	})
	full := len(c.pending) >= logBatchSize
	c.mu.Unlock()

	if full {
		c.report(c.flush(context.Background()))
	}
	return len(p), nil
}

// Sync ships everything buffered so far. zap calls it from Logger.Sync.
func (c *CloudWatchLogsClient) Sync() error {
	if !c.enabled {
		return nil
	}
	return c.flush(context.Background())
}

// Close stops the background flusher and ships what is left.
func (c *CloudWatchLogsClient) Close() error {
	c.once.Do(func() { close(c.stop) })
	return c.Sync()
}

func (c *CloudWatchLogsClient) flushLoop() {
	t := time.NewTicker(logFlushInterval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			c.report(c.flush(context.Background()))
		}
	}
}

func (c *CloudWatchLogsClient) flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	for len(batch) > 0 {
		n := min(len(batch), logBatchSize)
		if _, err := c.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  aws.String(c.group),
			LogStreamName: aws.String(c.stream),
			LogEvents:     batch[:n],
		}); err != nil {
			return fmt.Errorf("failed to put log events: %w", err)
		}
		batch = batch[n:]
	}
	return nil
}

func (c *CloudWatchLogsClient) report(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "CloudWatch write error: %v\n", err)
	}
}

// IsEnabled returns whether CloudWatch logging is enabled
func (c *CloudWatchLogsClient) IsEnabled() bool {
	return c.enabled
}
