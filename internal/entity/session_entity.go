package entity

import (
	"time"

	"counseling-userservice-be/internal/pkg/apperr"
)

type RegistrationType string

const (
	RegistrationTypeRegistered RegistrationType = "REGISTERED"
	RegistrationTypeAnonymous  RegistrationType = "ANONYMOUS"
)

// SessionStatus values are persisted as integers and must not be reordered.
type SessionStatus int

const (
	SessionStatusInitial SessionStatus = iota
	SessionStatusNew
	SessionStatusInProgress
	SessionStatusDone
	SessionStatusInArchive
)

func (s SessionStatus) String() string {
	switch s {
	case SessionStatusInitial:
		return "INITIAL"
	case SessionStatusNew:
		return "NEW"
	case SessionStatusInProgress:
		return "IN_PROGRESS"
	case SessionStatusDone:
		return "DONE"
	case SessionStatusInArchive:
		return "IN_ARCHIVE"
	}
	return "UNKNOWN"
}

// Session is a counseling engagement between an advice seeker and a
// consultant. TenantId is set once on creation and never changes.
type Session struct {
	Id                 int64
	TenantId           int64
	UserId             string
	ConsultantId       *string
	ConsultingTypeId   int
	RegistrationType   RegistrationType
	Postcode           string
	AgencyId           *int64
	Status             SessionStatus
	TeamSession        bool
	GroupId            string
	FeedbackGroupId    string
	EnquiryMessageDate *time.Time
	SessionData        map[string]interface{}
	CreateDate         time.Time
	UpdateDate         time.Time
}

func (s *Session) IsAdvisedBy(consultantId string) bool {
	return s.ConsultantId != nil && consultantId != "" && *s.ConsultantId == consultantId
}

func (s *Session) HasFeedbackChat() bool {
	return s.FeedbackGroupId != ""
}

// IsClosed reports whether the session left the active part of its
// lifecycle. Closed sessions accept no further transitions.
func (s *Session) IsClosed() bool {
	return s.Status == SessionStatusDone || s.Status == SessionStatusInArchive
}

// BelongsToAgency reports whether the session is anchored at the given agency.
func (s *Session) BelongsToAgency(agencyId int64) bool {
	return s.AgencyId != nil && *s.AgencyId == agencyId
}

// ValidateAssignable checks the structural invariant that an unassigned
// session may only sit in INITIAL or NEW.
func (s *Session) ValidateAssignable() error {
	if s.ConsultantId == nil && s.Status != SessionStatusInitial && s.Status != SessionStatusNew {
		return apperr.Newf(apperr.KindInvalidState,
			"session %d has status %s but no consultant", s.Id, s.Status)
	}
	return nil
}
