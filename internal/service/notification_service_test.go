package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/pkg/mailer"
)

type fakeMailer struct {
	assignmentMails []string
	fail            error
}

func (m *fakeMailer) SendNewEnquiryNotification(_, _, _ string) error { return m.fail }

func (m *fakeMailer) SendAssignmentNotification(toEmail, _, _ string) error {
	if m.fail != nil {
		return m.fail
	}
	m.assignmentMails = append(m.assignmentMails, toEmail)
	return nil
}

func (m *fakeMailer) SendFeedbackNotification(_, _ string) error { return m.fail }

var _ mailer.IEmailService = (*fakeMailer)(nil)

type fakeLiveDelivery struct {
	direct     map[string][]dto.LiveNotification
	broadcasts map[int64][]dto.LiveNotification
}

func newFakeLiveDelivery() *fakeLiveDelivery {
	return &fakeLiveDelivery{
		direct:     make(map[string][]dto.LiveNotification),
		broadcasts: make(map[int64][]dto.LiveNotification),
	}
}

func (d *fakeLiveDelivery) SendToConsultant(consultantId string, n dto.LiveNotification) {
	d.direct[consultantId] = append(d.direct[consultantId], n)
}

func (d *fakeLiveDelivery) BroadcastToAgency(agencyId int64, n dto.LiveNotification) {
	d.broadcasts[agencyId] = append(d.broadcasts[agencyId], n)
}

func TestSessionAssignedNotifiesConsultant(t *testing.T) {
	mail := &fakeMailer{}
	delivery := newFakeLiveDelivery()
	d := NewNotificationDispatcher(nil, mail, delivery, nopLogger{})

	session := &entity.Session{Id: 1, UserId: "asker-1"}
	consultant := &entity.Consultant{Id: "c1", Email: "c1@agency.test", FirstName: "Jo", LastName: "Doe"}
	d.SessionAssigned(context.Background(), session, consultant)

	assert.Equal(t, []string{"c1@agency.test"}, mail.assignmentMails)
	require.Len(t, delivery.direct["c1"], 1)
	assert.Equal(t, "SESSION_ASSIGNED", delivery.direct["c1"][0].Type)
	assert.Equal(t, int64(1), delivery.direct["c1"][0].SessionId)
}

func TestSessionAssignedSwallowsMailFailure(t *testing.T) {
	mail := &fakeMailer{fail: errors.New("smtp timeout")}
	delivery := newFakeLiveDelivery()
	d := NewNotificationDispatcher(nil, mail, delivery, nopLogger{})

	consultant := &entity.Consultant{Id: "c1", Email: "c1@agency.test"}
	d.SessionAssigned(context.Background(), &entity.Session{Id: 1}, consultant)

	// The mail failed but the live push still goes out.
	require.Len(t, delivery.direct["c1"], 1)
}

func TestSessionAssignedSkipsMailWithoutAddress(t *testing.T) {
	mail := &fakeMailer{}
	d := NewNotificationDispatcher(nil, mail, newFakeLiveDelivery(), nopLogger{})

	d.SessionAssigned(context.Background(), &entity.Session{Id: 1}, &entity.Consultant{Id: "c1"})
	assert.Empty(t, mail.assignmentMails)
}

func TestEnquiryCreatedBroadcastsToAgency(t *testing.T) {
	delivery := newFakeLiveDelivery()
	d := NewNotificationDispatcher(nil, nil, delivery, nopLogger{})

	agencyId := int64(5)
	d.EnquiryCreated(context.Background(), &entity.Session{Id: 1, AgencyId: &agencyId}, "asker")

	require.Len(t, delivery.broadcasts[5], 1)
	assert.Equal(t, "NEW_ENQUIRY", delivery.broadcasts[5][0].Type)
}

func TestChatStartedBroadcastsToEveryAgency(t *testing.T) {
	delivery := newFakeLiveDelivery()
	d := NewNotificationDispatcher(nil, nil, delivery, nopLogger{})

	d.ChatStarted(context.Background(), &entity.Chat{Id: 7, AgencyIds: []int64{5, 9}})

	require.Len(t, delivery.broadcasts[5], 1)
	require.Len(t, delivery.broadcasts[9], 1)
	assert.Equal(t, "CHAT_STARTED", delivery.broadcasts[5][0].Type)
	assert.Equal(t, int64(7), delivery.broadcasts[5][0].ChatId)
}
