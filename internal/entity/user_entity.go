package entity

import "time"

// User is an advice seeker. Anonymous users carry a generated username
// and no email; they are cleaned up by the maintenance scheduler once
// all their sessions are done.
type User struct {
	Id           string
	TenantId     int64
	Username     string
	Email        string
	PasswordHash string
	ChatUserId   string
	Anonymous    bool
	LanguageCode string
	CreateDate   time.Time
	UpdateDate   time.Time
}
