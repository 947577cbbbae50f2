package specification

import "gorm.io/gorm"

// ByConsultantId filters by the identity-provider id.
type ByConsultantId struct {
	Id string
}

func (s ByConsultantId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.Id)
}

// ByUsername filters users or consultants by username.
type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// ConsultantsInAgency matches consultants related to the agency.
type ConsultantsInAgency struct {
	AgencyId int64
}

func (s ConsultantsInAgency) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN consultant_agency ON consultant_agency.consultant_id = consultant.id").
		Where("consultant_agency.agency_id = ?", s.AgencyId).
		Distinct()
}

// AnonymousOnly matches anonymous advice seekers.
type AnonymousOnly struct{}

func (AnonymousOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_anonymous = ?", true)
}
