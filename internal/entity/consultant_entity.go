package entity

import "time"

// Consultant mirrors the identity-provider account of a counselor plus
// the agency relations needed for permission checks.
type Consultant struct {
	Id             string
	TenantId       int64
	Username       string
	FirstName      string
	LastName       string
	Email          string
	ChatUserId     string
	Absent         bool
	TeamConsultant bool
	AgencyIds      []int64
	CreateDate     time.Time
	UpdateDate     time.Time
}

func (c *Consultant) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c *Consultant) IsInAgency(agencyId int64) bool {
	for _, id := range c.AgencyIds {
		if id == agencyId {
			return true
		}
	}
	return false
}
