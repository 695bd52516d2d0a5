package services

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/repository"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/sender"
)

//go:embed templates/*.html
var templateFS embed.FS

// statusMessages lists the status changes customers hear about.
var statusMessages = map[string]struct{ subject, headline string }{
	"confirmed": {"Order %s confirmed", "Your order is confirmed and our kitchen is getting it ready."},
	"shipped":   {"Order %s is on its way", "Your sweets have left our shop and are on their way to you."},
	"delivered": {"Order %s delivered", "Your order has been delivered. We hope you enjoy it!"},
	"cancelled": {"Order %s cancelled", "Your order has been cancelled. If you paid online, the refund will follow."},
}

type NotificationService interface {
	HandleMessage(ctx context.Context, body string) error
	GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
}

type notificationService struct {
	repo     repository.NotificationRepository
	email    sender.EmailSender
	tmpl     *template.Template
	attempts int
	backoff  time.Duration
	log      *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, email sender.EmailSender, log *zap.Logger) (NotificationService, error) {
	return newNotificationService(repo, email, log, time.Second)
}

func newNotificationService(repo repository.NotificationRepository, email sender.EmailSender, log *zap.Logger, backoff time.Duration) (*notificationService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &notificationService{
		repo:     repo,
		email:    email,
		tmpl:     tmpl,
		attempts: 3,
		backoff:  backoff,
		log:      log,
	}, nil
}

type outgoing struct {
	kind     string
	subject  string
	template string
	data     any
}

// HandleMessage turns one queued order event into a customer email. Events
// that need no email, and malformed ones, are acknowledged without sending.
func (s *notificationService) HandleMessage(ctx context.Context, body string) error {
	var evt models.OrderEvent
	if err := json.Unmarshal([]byte(awspkg.UnwrapSNS(body)), &evt); err != nil {
		s.log.Warn("Dropping malformed event", zap.Error(err))
		return nil
	}

	out, ok := compose(evt)
	if !ok {
		return nil
	}
	if evt.Email == "" {
		s.log.Warn("No recipient on event, skipping", zap.String("order_id", evt.OrderID), zap.String("kind", out.kind))
		return nil
	}

	sent, err := s.repo.AlreadySent(ctx, evt.OrderID, out.kind)
	if err != nil {
		return fmt.Errorf("check previous delivery: %w", err)
	}
	if sent {
		s.log.Info("Duplicate event, already notified", zap.String("order_id", evt.OrderID), zap.String("kind", out.kind))
		return nil
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, out.template, out.data); err != nil {
		return fmt.Errorf("template render failed: %w", err)
	}

	entry := &models.NotificationLog{
		UserID:    evt.UserID,
		OrderID:   evt.OrderID,
		Kind:      out.kind,
		Channel:   models.ChannelEmail,
		Recipient: evt.Email,
		Subject:   out.subject,
	}
	s.sendWithRetry(ctx, entry, buf.String())

	if err := s.repo.SaveLog(ctx, entry); err != nil {
		s.log.Error("Failed to save notification log", zap.Error(err))
	}
	return nil
}

func compose(evt models.OrderEvent) (outgoing, bool) {
	switch evt.Event {
	case models.EventOrderCreated:
		return outgoing{
			kind:     models.EventOrderCreated,
			subject:  fmt.Sprintf("We received your order %s", evt.OrderNumber),
			template: "order_created.html",
			data:     evt,
		}, true
	case models.EventOrderStatusChanged:
		msg, ok := statusMessages[evt.To]
		if !ok {
			return outgoing{}, false
		}
		return outgoing{
			kind:     "status:" + evt.To,
			subject:  fmt.Sprintf(msg.subject, evt.OrderNumber),
			template: "order_status.html",
			data: struct {
				OrderNumber string
				Headline    string
			}{evt.OrderNumber, msg.headline},
		}, true
	}
	return outgoing{}, false
}

func (s *notificationService) sendWithRetry(ctx context.Context, entry *models.NotificationLog, body string) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		entry.Attempts = attempt
		if attempt > 1 {
			select {
			case <-ctx.Done():
				entry.Status = models.StatusFailed
				entry.Error = ctx.Err().Error()
				return
			case <-time.After(time.Duration(attempt-1) * s.backoff):
			}
		}

		res, err := s.email.SendEmail(ctx, entry.Recipient, entry.Subject, body)
		if err == nil {
			entry.Status = models.StatusSent
			entry.Error = ""
			s.log.Info("Notification sent",
				zap.String("order_id", entry.OrderID),
				zap.String("kind", entry.Kind),
				zap.String("message_id", res.MessageID),
			)
			return
		}
		lastErr = err
		s.log.Warn("Send attempt failed",
			zap.String("order_id", entry.OrderID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	entry.Status = models.StatusFailed
	entry.Error = lastErr.Error()
}

func (s *notificationService) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return s.repo.GetLogs(ctx, filter)
}
