package model

import (
	"time"

	"gorm.io/datatypes"
)

type Session struct {
	Id                 int64   `gorm:"primaryKey;autoIncrement"`
	TenantId           int64   `gorm:"index;not null"`
	UserId             string  `gorm:"type:varchar(36);not null;index"`
	ConsultantId       *string `gorm:"type:varchar(36);index"`
	ConsultingTypeId   int     `gorm:"column:consulting_type;not null"`
	RegistrationType   string  `gorm:"type:varchar(20);not null;default:'REGISTERED'"`
	Postcode           string  `gorm:"type:varchar(5);not null"`
	AgencyId           *int64  `gorm:"index"`
	Status             int     `gorm:"not null"`
	TeamSession        bool    `gorm:"column:is_team_session;not null;default:false"`
	GroupId            string  `gorm:"column:rc_group_id;type:varchar(255)"`
	FeedbackGroupId    string  `gorm:"column:rc_feedback_group_id;type:varchar(255)"`
	EnquiryMessageDate *time.Time `gorm:"column:message_date"`
	SessionData        datatypes.JSON
	CreateDate         time.Time `gorm:"autoCreateTime"`
	UpdateDate         time.Time `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "session"
}

func (s *Session) GetTenantId() int64 {
	return s.TenantId
}

func (s *Session) SetTenantId(id int64) {
	s.TenantId = id
}
