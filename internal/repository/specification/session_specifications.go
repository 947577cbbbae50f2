package specification

import (
	"time"

	"counseling-userservice-be/internal/entity"

	"gorm.io/gorm"
)

// ByStatus filters sessions by lifecycle status.
type ByStatus struct {
	Status entity.SessionStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", int(s.Status))
}

// ByStatusIn filters sessions by a set of statuses.
type ByStatusIn struct {
	Statuses []entity.SessionStatus
}

func (s ByStatusIn) Apply(db *gorm.DB) *gorm.DB {
	values := make([]int, len(s.Statuses))
	for i, st := range s.Statuses {
		values[i] = int(st)
	}
	return db.Where("status IN ?", values)
}

// ByRegistrationType filters by REGISTERED / ANONYMOUS.
type ByRegistrationType struct {
	Type entity.RegistrationType
}

func (s ByRegistrationType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("registration_type = ?", string(s.Type))
}

// ByAgencyIdIn matches sessions anchored at any of the agencies.
type ByAgencyIdIn struct {
	AgencyIds []int64
}

func (s ByAgencyIdIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("agency_id IN ?", s.AgencyIds)
}

// Unassigned matches sessions without a consultant.
type Unassigned struct{}

func (Unassigned) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("consultant_id IS NULL")
}

// ByConsultant matches sessions assigned to the consultant.
type ByConsultant struct {
	ConsultantId string
}

func (s ByConsultant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("consultant_id = ?", s.ConsultantId)
}

// NotConsultant excludes sessions assigned to the consultant.
type NotConsultant struct {
	ConsultantId string
}

func (s NotConsultant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(consultant_id IS NULL OR consultant_id <> ?)", s.ConsultantId)
}

// TeamSessionsOnly matches sessions claimable by the whole team.
type TeamSessionsOnly struct{}

func (TeamSessionsOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_team_session = ?", true)
}

// ByUser matches sessions of an advice seeker.
type ByUser struct {
	UserId string
}

func (s ByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByGroupId matches a session by its remote chat room.
type ByGroupId struct {
	GroupId string
}

func (s ByGroupId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(rc_group_id = ? OR rc_feedback_group_id = ?)", s.GroupId, s.GroupId)
}

// OrderByEnquiryDateAsc orders pending enquiries oldest first, which is
// the order consultants are expected to work them in.
type OrderByEnquiryDateAsc struct{}

func (OrderByEnquiryDateAsc) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("message_date ASC")
}

// UpdatedBefore matches sessions whose last change is older than the cutoff.
type UpdatedBefore struct {
	Cutoff time.Time
}

func (s UpdatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("update_date < ?", s.Cutoff)
}
