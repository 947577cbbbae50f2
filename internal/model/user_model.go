package model

import "time"

type User struct {
	Id           string `gorm:"type:varchar(36);primaryKey"`
	TenantId     int64  `gorm:"index;not null"`
	Username     string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(255)"`
	PasswordHash string `gorm:"type:varchar(255)"`
	ChatUserId   string `gorm:"column:rc_user_id;type:varchar(36)"`
	Anonymous    bool   `gorm:"column:is_anonymous;not null;default:false"`
	LanguageCode string `gorm:"type:varchar(2);not null;default:'de'"`
	CreateDate   time.Time `gorm:"autoCreateTime"`
	UpdateDate   time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "app_user"
}

func (u *User) GetTenantId() int64 {
	return u.TenantId
}

func (u *User) SetTenantId(id int64) {
	u.TenantId = id
}
