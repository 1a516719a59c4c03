package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionReceived, n.handleSubmissionReceived)
	n.dispatcher.Subscribe(events.EventSubmissionApproved, n.handleSubmissionDecided)
	n.dispatcher.Subscribe(events.EventSubmissionRejected, n.handleSubmissionDecided)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handlePasswordReset)
	n.dispatcher.Subscribe(events.EventSubscriptionChange, n.handleSubscriptionChanged)
}

func (n *NotificationService) handleSubmissionReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("SubmissionReceived",
		zap.String("kind", event.Kind),
		zap.String("submission_id", event.SubjectID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSubmissionDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("SubmissionDecided",
		zap.String("event_type", string(event.Type)),
		zap.String("kind", event.Kind),
		zap.String("submission_id", event.SubjectID),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event, "")
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordResetRequested", zap.String("user_id", event.SubjectID))
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	return nil
}

func (n *NotificationService) handleSubscriptionChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("SubscriptionChanged", zap.String("customer_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// SendModerationDigest tells admins how many submissions await review.
// Empty backlogs are not reported.
func (n *NotificationService) SendModerationDigest(ctx context.Context, pending map[string]int) {
	total := 0
	for _, count := range pending {
		total += count
	}
	if total == 0 {
		return
	}
	n.logger.Info("ModerationDigest", zap.Int("pending_total", total), zap.Any("pending", pending))
	n.sendWebhookNotificationStub(ctx, events.Event{Type: events.EventModerationDigest, Payload: pending})
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
