package service

import (
	"context"
	"time"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/pkg/logger"
	"counseling-userservice-be/internal/pkg/mailer"
	"counseling-userservice-be/pkg/events"
	pktNats "counseling-userservice-be/pkg/nats"
)

// LiveDelivery pushes real-time updates to connected consultants.
// Implemented by the websocket hub.
type LiveDelivery interface {
	SendToConsultant(consultantId string, notification dto.LiveNotification)
	BroadcastToAgency(agencyId int64, notification dto.LiveNotification)
}

// INotificationDispatcher fans out after a transition has committed.
// Every method is fire-and-forget: failures are logged and swallowed,
// they never unwind the transition that triggered them.
type INotificationDispatcher interface {
	SessionAssigned(ctx context.Context, session *entity.Session, consultant *entity.Consultant)
	SessionDeactivated(ctx context.Context, session *entity.Session)
	SessionArchived(ctx context.Context, session *entity.Session)
	EnquiryCreated(ctx context.Context, session *entity.Session, username string)
	ChatStarted(ctx context.Context, chat *entity.Chat)
	ChatStopped(ctx context.Context, chat *entity.Chat)
	UserRegistered(ctx context.Context, user *entity.User, session *entity.Session)
}

type notificationDispatcher struct {
	eventPublisher *pktNats.Publisher
	emailService   mailer.IEmailService
	delivery       LiveDelivery
	logger         logger.ILogger
}

func NewNotificationDispatcher(
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	delivery LiveDelivery,
	log logger.ILogger,
) INotificationDispatcher {
	return &notificationDispatcher{
		eventPublisher: eventPublisher,
		emailService:   emailService,
		delivery:       delivery,
		logger:         log,
	}
}

func (d *notificationDispatcher) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if d.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := d.eventPublisher.Publish(ctx, evt); err != nil {
		d.logger.Warn("NotificationDispatcher", "Failed to publish statistics event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func (d *notificationDispatcher) SessionAssigned(ctx context.Context, session *entity.Session, consultant *entity.Consultant) {
	d.publishEvent(ctx, events.TypeAssignSession, map[string]interface{}{
		"session_id":    session.Id,
		"consultant_id": consultant.Id,
		"tenant_id":     session.TenantId,
	})

	if d.emailService != nil && consultant.Email != "" {
		if err := d.emailService.SendAssignmentNotification(consultant.Email, consultant.FullName(), session.UserId); err != nil {
			d.logger.Warn("NotificationDispatcher", "Failed to send assignment mail", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	if d.delivery != nil {
		d.delivery.SendToConsultant(consultant.Id, dto.LiveNotification{
			Type:      "SESSION_ASSIGNED",
			SessionId: session.Id,
			Message:   "A session was assigned to you",
		})
	}
}

func (d *notificationDispatcher) SessionDeactivated(ctx context.Context, session *entity.Session) {
	d.publishEvent(ctx, events.TypeDeactivateSession, map[string]interface{}{
		"session_id": session.Id,
		"tenant_id":  session.TenantId,
	})
}

func (d *notificationDispatcher) SessionArchived(ctx context.Context, session *entity.Session) {
	d.publishEvent(ctx, events.TypeArchiveSession, map[string]interface{}{
		"session_id": session.Id,
		"tenant_id":  session.TenantId,
	})
}

func (d *notificationDispatcher) EnquiryCreated(ctx context.Context, session *entity.Session, username string) {
	d.publishEvent(ctx, events.TypeCreateEnquiry, map[string]interface{}{
		"session_id": session.Id,
		"tenant_id":  session.TenantId,
	})

	if d.delivery != nil && session.AgencyId != nil {
		d.delivery.BroadcastToAgency(*session.AgencyId, dto.LiveNotification{
			Type:      "NEW_ENQUIRY",
			SessionId: session.Id,
			Message:   "A new enquiry is waiting",
		})
	}
}

func (d *notificationDispatcher) ChatStarted(ctx context.Context, chat *entity.Chat) {
	d.publishEvent(ctx, events.TypeStartGroupChat, map[string]interface{}{
		"chat_id":   chat.Id,
		"tenant_id": chat.TenantId,
	})

	if d.delivery != nil {
		for _, agencyId := range chat.AgencyIds {
			d.delivery.BroadcastToAgency(agencyId, dto.LiveNotification{
				Type:    "CHAT_STARTED",
				ChatId:  chat.Id,
				Message: "A group chat has started",
			})
		}
	}
}

func (d *notificationDispatcher) ChatStopped(ctx context.Context, chat *entity.Chat) {
	d.publishEvent(ctx, events.TypeStopGroupChat, map[string]interface{}{
		"chat_id":   chat.Id,
		"tenant_id": chat.TenantId,
	})
}

func (d *notificationDispatcher) UserRegistered(ctx context.Context, user *entity.User, session *entity.Session) {
	d.publishEvent(ctx, events.TypeRegisterUser, map[string]interface{}{
		"user_id":    user.Id,
		"tenant_id":  user.TenantId,
		"session_id": session.Id,
	})
}
