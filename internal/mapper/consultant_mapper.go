package mapper

import (
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/model"
)

type ConsultantMapper struct{}

func NewConsultantMapper() *ConsultantMapper {
	return &ConsultantMapper{}
}

func (m *ConsultantMapper) ToEntity(c *model.Consultant) *entity.Consultant {
	if c == nil {
		return nil
	}
	agencyIds := make([]int64, 0, len(c.Agencies))
	for _, rel := range c.Agencies {
		agencyIds = append(agencyIds, rel.AgencyId)
	}
	return &entity.Consultant{
		Id:             c.Id,
		TenantId:       c.TenantId,
		Username:       c.Username,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		ChatUserId:     c.ChatUserId,
		Absent:         c.Absent,
		TeamConsultant: c.TeamConsultant,
		AgencyIds:      agencyIds,
		CreateDate:     c.CreateDate,
		UpdateDate:     c.UpdateDate,
	}
}

// ToModel maps the consultant without its agency relations; those are
// maintained through dedicated repository operations.
func (m *ConsultantMapper) ToModel(c *entity.Consultant) *model.Consultant {
	if c == nil {
		return nil
	}
	return &model.Consultant{
		Id:             c.Id,
		TenantId:       c.TenantId,
		Username:       c.Username,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		ChatUserId:     c.ChatUserId,
		Absent:         c.Absent,
		TeamConsultant: c.TeamConsultant,
		CreateDate:     c.CreateDate,
		UpdateDate:     c.UpdateDate,
	}
}

func (m *ConsultantMapper) ToEntities(models []*model.Consultant) []*entity.Consultant {
	entities := make([]*entity.Consultant, len(models))
	for i, c := range models {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
