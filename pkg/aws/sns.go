package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

// SNSPublisher is what services need to emit domain events.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

var errNoTopic = errors.New("sns topic arn is empty")

type SNSClient struct {
	api SNSAPI
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return &SNSClient{api: sns.NewFromConfig(cfg)}
}

// Publish sends message to the topic. JSON payloads carrying an "event" or
// "event_type" field get it copied into an "event" message attribute so
// queue subscriptions can filter on it.
func (s *SNSClient) Publish(ctx context.Context, topicArn string, message []byte) error {
	if topicArn == "" {
		return errNoTopic
	}
	in := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if name := eventName(message); name != "" {
		in.MessageAttributes = map[string]types.MessageAttributeValue{
			"event": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(name)},
		}
	}

	out, err := s.api.Publish(ctx, in)
	if err != nil {
		return fmt.Errorf("sns publish to %s: %w", topicArn, err)
	}
	zap.L().Debug("sns message published",
		zap.String("topic", topicArn),
		zap.String("message_id", sdkaws.ToString(out.MessageId)),
		zap.Int("bytes", len(message)),
	)
	return nil
}

func eventName(message []byte) string {
	var probe struct {
		Event     string `json:"event"`
		EventType string `json:"event_type"`
	}
	if json.Unmarshal(message, &probe) != nil {
		return ""
	}
	if probe.Event != "" {
		return probe.Event
	}
	return probe.EventType
}

// PublishEvent marshals evt and publishes it. A nil publisher or an empty topic
// is a no-op so services can run without SNS configured.
func PublishEvent(ctx context.Context, p SNSPublisher, topicArn string, evt any) error {
	if p == nil || topicArn == "" {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal sns event: %w", err)
	}
	return p.Publish(ctx, topicArn, body)
}
