package service

import (
	"context"
	"encoding/json"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/pkg/logger"
	"counseling-userservice-be/internal/pkg/mailer"
	"counseling-userservice-be/internal/repository/specification"
	"counseling-userservice-be/internal/repository/unitofwork"
	"counseling-userservice-be/internal/tenant"
	"counseling-userservice-be/pkg/agencydir"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the in-process enquiry pipeline and fans the
// notification out to the consultants of the enquiry's agency.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	agencyDir    agencydir.Directory
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	agencyDir agencydir.Directory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		agencyDir:    agencyDir,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: enquiry notifications are best-effort and
// must never clog the pipeline with retries.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.EnquiryNotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal enquiry message", map[string]interface{}{"error": err.Error()})
		return
	}

	// The worker goroutine has no request; bind the tenant the enquiry
	// was created under so the consultant lookup is scoped correctly.
	tctx := tenant.WithTenant(ctx, payload.TenantId)

	agencyName := ""
	if agency, err := cs.agencyDir.GetAgency(tctx, payload.AgencyId); err == nil && agency != nil {
		agencyName = agency.Name
	}

	uow := cs.uowFactory.NewUnitOfWork(tctx)
	consultants, err := uow.ConsultantRepository().FindAll(tctx,
		specification.ConsultantsInAgency{AgencyId: payload.AgencyId},
	)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load agency consultants", map[string]interface{}{
			"agency_id": payload.AgencyId,
			"error":     err.Error(),
		})
		return
	}

	sent := 0
	for _, consultant := range consultants {
		if consultant.Absent || consultant.Email == "" {
			continue
		}
		if err := cs.emailService.SendNewEnquiryNotification(consultant.Email, consultant.FullName(), agencyName); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to send enquiry mail", map[string]interface{}{
				"consultant_id": consultant.Id,
				"session_id":    payload.SessionId,
				"error":         err.Error(),
			})
			continue
		}
		sent++
	}

	cs.logger.Info("ConsumerService", "Enquiry notification processed", map[string]interface{}{
		"session_id": payload.SessionId,
		"agency_id":  payload.AgencyId,
		"mails_sent": sent,
	})
}
