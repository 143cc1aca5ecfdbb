package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/config"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
)

// NotificationService forwards completed domain events to downstream
// consumers. It only ever sees events published after a confirmed store
// write.
type NotificationService struct {
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to the mutation events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleTicketCommentAdded)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated",
		zap.Int64("ticket_uid", event.TicketUID),
		zap.String("actor_id", event.ActorID))
	n.sendEmailNotificationStub(ctx, event)
	n.forwardToChannel(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketCommentAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCommentAdded",
		zap.Int64("ticket_uid", event.TicketUID),
		zap.String("actor_id", event.ActorID))
	n.forwardToChannel(ctx, event)
	return nil
}

// forwardToChannel fans the event out over Redis pub/sub for consumers
// outside this process (mailers, websocket pushers). Publish failures are
// logged and swallowed: notification delivery never blocks or fails the
// originating request.
func (n *NotificationService) forwardToChannel(ctx context.Context, event events.Event) {
	if n.redis == nil || strings.TrimSpace(n.cfg.EventChannel) == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("event marshal failed", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	if err := n.redis.Publish(ctx, n.cfg.EventChannel, payload); err != nil {
		n.logger.Warn("event publish failed",
			zap.String("channel", n.cfg.EventChannel),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("ticket_uid", event.TicketUID),
		zap.String("event_type", string(event.Type)))
}
