package entity

import (
	"time"

	"counseling-userservice-be/internal/pkg/apperr"
)

type ChatInterval string

const (
	ChatIntervalWeekly ChatInterval = "WEEKLY"
)

// Chat is a scheduled (possibly weekly repeating) group chat owned by a
// single consultant and attached to one or more agencies.
type Chat struct {
	Id               int64
	TenantId         int64
	Topic            string
	ConsultingTypeId *int
	InitialStartDate time.Time
	StartDate        time.Time
	Duration         int
	Repetitive       bool
	ChatInterval     *ChatInterval
	Active           bool
	MaxParticipants  *int
	GroupId          string
	OwnerId          string
	HintMessage      string
	AgencyIds        []int64
	CreateDate       time.Time
	UpdateDate       time.Time
}

func (c *Chat) IsOwnedBy(consultantId string) bool {
	return c.OwnerId != "" && c.OwnerId == consultantId
}

// NextStart returns the start of the next occurrence, or nil for
// one-off chats. A repetitive chat without an interval is a data
// integrity fault, not a caller error.
func (c *Chat) NextStart() (*time.Time, error) {
	if !c.Repetitive {
		return nil, nil
	}
	if c.ChatInterval == nil || *c.ChatInterval != ChatIntervalWeekly {
		return nil, apperr.Newf(apperr.KindInvalidState,
			"repetitive chat %d does not have a valid interval", c.Id)
	}
	next := c.StartDate.AddDate(0, 0, 7)
	return &next, nil
}
