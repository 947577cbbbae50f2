package model

import "time"

type Consultant struct {
	Id             string `gorm:"type:varchar(36);primaryKey"`
	TenantId       int64  `gorm:"index;not null"`
	Username       string `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName      string `gorm:"type:varchar(255)"`
	LastName       string `gorm:"type:varchar(255)"`
	Email          string `gorm:"type:varchar(255);not null"`
	ChatUserId     string `gorm:"column:rc_user_id;type:varchar(36)"`
	Absent         bool   `gorm:"column:is_absent;not null;default:false"`
	TeamConsultant bool   `gorm:"column:is_team_consultant;not null;default:false"`
	Agencies       []ConsultantAgency `gorm:"foreignKey:ConsultantId"`
	CreateDate     time.Time `gorm:"autoCreateTime"`
	UpdateDate     time.Time `gorm:"autoUpdateTime"`
}

func (Consultant) TableName() string {
	return "consultant"
}

func (c *Consultant) GetTenantId() int64 {
	return c.TenantId
}

func (c *Consultant) SetTenantId(id int64) {
	c.TenantId = id
}

type ConsultantAgency struct {
	Id           int64  `gorm:"primaryKey;autoIncrement"`
	ConsultantId string `gorm:"type:varchar(36);not null;index"`
	AgencyId     int64  `gorm:"not null;index"`
	CreateDate   time.Time `gorm:"autoCreateTime"`
}

func (ConsultantAgency) TableName() string {
	return "consultant_agency"
}
