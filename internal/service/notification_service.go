package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/voice2action/civic-service/internal/config"
	"github.com/voice2action/civic-service/internal/events"
)

// NotificationService emits citizen/operator notifications for domain events.
// Delivery is stubbed to structured logs plus an optional webhook target.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventIssueCreated, n.handleIssueCreated)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleIssueStatusChanged)
	n.dispatcher.Subscribe(events.EventIssueUpvoted, n.handleIssueUpvoted)
}

func (n *NotificationService) handleIssueCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("IssueCreated",
		zap.String("issue_id", event.IssueID),
		zap.String("tracking_id", event.TrackingID),
		zap.Any("payload", event.Payload))

	// Reports arriving over SMS/IVR get a confirmation with the tracking ID.
	if payload, ok := event.Payload.(events.IssueCreatedPayload); ok && payload.CitizenContact != nil {
		n.sendSMSConfirmationStub(ctx, *payload.CitizenContact, event.TrackingID)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleIssueStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("IssueStatusChanged",
		zap.String("issue_id", event.IssueID),
		zap.String("tracking_id", event.TrackingID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleIssueUpvoted(ctx context.Context, event events.Event) error {
	n.logger.Debug("IssueUpvoted",
		zap.String("issue_id", event.IssueID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendSMSConfirmationStub(ctx context.Context, contact, trackingID string) {
	if strings.TrimSpace(n.cfg.SMSReplyFrom) == "" {
		return
	}
	n.logger.Debug("sendSMSConfirmationStub",
		zap.String("from", n.cfg.SMSReplyFrom),
		zap.String("to", contact),
		zap.String("tracking_id", trackingID))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("issue_id", event.IssueID),
		zap.String("event_type", string(event.Type)))
}
