package sender

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

// LogSender writes emails to the log instead of delivering them. Used when
// no SMTP server is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) (SendResult, error) {
	s.log.Info("email (not delivered)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	now := time.Now()
	return SendResult{MessageID: "log-" + now.Format("20060102150405.000000000"), SentAt: now}, nil
}
