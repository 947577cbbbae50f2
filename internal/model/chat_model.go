package model

import "time"

type Chat struct {
	Id               int64   `gorm:"primaryKey;autoIncrement"`
	TenantId         int64   `gorm:"index;not null"`
	Topic            string  `gorm:"type:varchar(255);not null"`
	ConsultingTypeId *int    `gorm:"column:consulting_type"`
	InitialStartDate time.Time `gorm:"not null"`
	StartDate        time.Time `gorm:"not null"`
	Duration         int     `gorm:"not null"`
	Repetitive       bool    `gorm:"column:is_repetitive;not null;default:false"`
	ChatInterval     *string `gorm:"type:varchar(20)"`
	Active           bool    `gorm:"column:is_active;not null;default:false"`
	MaxParticipants  *int
	GroupId          string `gorm:"column:rc_group_id;type:varchar(255)"`
	OwnerId          string `gorm:"column:consultant_id_owner;type:varchar(36);not null;index"`
	HintMessage      string `gorm:"type:text"`
	CreateDate       time.Time `gorm:"autoCreateTime"`
	UpdateDate       time.Time `gorm:"autoUpdateTime"`
}

func (Chat) TableName() string {
	return "chat"
}

func (c *Chat) GetTenantId() int64 {
	return c.TenantId
}

func (c *Chat) SetTenantId(id int64) {
	c.TenantId = id
}

// ChatAgency links a chat to an agency whose consultants may see it.
// Rows are removed explicitly when the parent chat is deleted.
type ChatAgency struct {
	Id       int64 `gorm:"primaryKey;autoIncrement"`
	ChatId   int64 `gorm:"not null;index"`
	AgencyId int64 `gorm:"not null;index"`
	CreateDate time.Time `gorm:"autoCreateTime"`
}

func (ChatAgency) TableName() string {
	return "chat_agency"
}

// ChatUser records a user who joined a chat.
type ChatUser struct {
	Id     int64  `gorm:"primaryKey;autoIncrement"`
	ChatId int64  `gorm:"not null;index"`
	UserId string `gorm:"type:varchar(36);not null;index"`
	CreateDate time.Time `gorm:"autoCreateTime"`
}

func (ChatUser) TableName() string {
	return "chat_user"
}
