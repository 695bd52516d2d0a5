package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// SQSAPI is the subset of the SQS client the consumer needs.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// MessageHandler processes one message body. A returned error leaves the
// message on the queue so it becomes visible again after the timeout.
type MessageHandler func(ctx context.Context, body string) error

// SQSConsumer long-polls a queue and deletes messages once handled.
type SQSConsumer struct {
	client   SQSAPI
	queueURL string
	wait     int32
	log      *zap.Logger
}

func NewSQSClient(cfg sdkaws.Config) *sqs.Client {
	return sqs.NewFromConfig(cfg)
}

func NewSQSConsumer(client SQSAPI, queueURL string, log *zap.Logger) *SQSConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQSConsumer{client: client, queueURL: queueURL, wait: 20, log: log}
}

// StartPolling runs until ctx is cancelled.
func (c *SQSConsumer) StartPolling(ctx context.Context, handler MessageHandler) error {
	c.log.Info("SQS consumer started", zap.String("queue", c.queueURL))
	for {
		select {
		case <-ctx.Done():
			c.log.Info("SQS consumer stopped")
			return ctx.Err()
		default:
		}
		if err := c.PollOnce(ctx, handler); err != nil {
			c.log.Error("SQS receive failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
		}
	}
}

// PollOnce receives a single batch and hands every message to handler.
func (c *SQSConsumer) PollOnce(ctx context.Context, handler MessageHandler) error {
	out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            sdkaws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     c.wait,
		VisibilityTimeout:   30,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range out.Messages {
		if msg.Body == nil || msg.ReceiptHandle == nil {
			continue
		}
		if err := handler(ctx, *msg.Body); err != nil {
			c.log.Warn("Message handling failed, leaving for retry",
				zap.String("message_id", sdkaws.ToString(msg.MessageId)),
				zap.Error(err),
			)
			continue
		}
		if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      sdkaws.String(c.queueURL),
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			c.log.Error("Failed to delete SQS message", zap.Error(err))
		}
	}
	return nil
}

// UnwrapSNS returns the inner message when body is an SNS notification
// delivered to SQS without raw delivery, and body unchanged otherwise.
func UnwrapSNS(body string) string {
	var envelope struct {
		Type    string `json:"Type"`
		Message string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return body
	}
	if envelope.Type == "Notification" && envelope.Message != "" {
		return envelope.Message
	}
	return body
}
