package specification

import "gorm.io/gorm"

// ByOwner matches chats owned by the consultant.
type ByOwner struct {
	ConsultantId string
}

func (s ByOwner) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("consultant_id_owner = ?", s.ConsultantId)
}

// ActiveOnly matches running chats.
type ActiveOnly struct{}

func (ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// InAgencies matches chats attached to any of the agencies through the
// chat_agency link table.
type InAgencies struct {
	AgencyIds []int64
}

func (s InAgencies) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN chat_agency ON chat_agency.chat_id = chat.id").
		Where("chat_agency.agency_id IN ?", s.AgencyIds).
		Distinct()
}

// ByChatGroupId matches a chat by its remote room id.
type ByChatGroupId struct {
	GroupId string
}

func (s ByChatGroupId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("rc_group_id = ?", s.GroupId)
}
