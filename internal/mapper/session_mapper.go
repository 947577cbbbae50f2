package mapper

import (
	"encoding/json"

	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	var data map[string]interface{}
	if len(s.SessionData) > 0 {
		_ = json.Unmarshal(s.SessionData, &data)
	}
	return &entity.Session{
		Id:                 s.Id,
		TenantId:           s.TenantId,
		UserId:             s.UserId,
		ConsultantId:       s.ConsultantId,
		ConsultingTypeId:   s.ConsultingTypeId,
		RegistrationType:   entity.RegistrationType(s.RegistrationType),
		Postcode:           s.Postcode,
		AgencyId:           s.AgencyId,
		Status:             entity.SessionStatus(s.Status),
		TeamSession:        s.TeamSession,
		GroupId:            s.GroupId,
		FeedbackGroupId:    s.FeedbackGroupId,
		EnquiryMessageDate: s.EnquiryMessageDate,
		SessionData:        data,
		CreateDate:         s.CreateDate,
		UpdateDate:         s.UpdateDate,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	var data datatypes.JSON
	if s.SessionData != nil {
		raw, err := json.Marshal(s.SessionData)
		if err == nil {
			data = datatypes.JSON(raw)
		}
	}
	return &model.Session{
		Id:                 s.Id,
		TenantId:           s.TenantId,
		UserId:             s.UserId,
		ConsultantId:       s.ConsultantId,
		ConsultingTypeId:   s.ConsultingTypeId,
		RegistrationType:   string(s.RegistrationType),
		Postcode:           s.Postcode,
		AgencyId:           s.AgencyId,
		Status:             int(s.Status),
		TeamSession:        s.TeamSession,
		GroupId:            s.GroupId,
		FeedbackGroupId:    s.FeedbackGroupId,
		EnquiryMessageDate: s.EnquiryMessageDate,
		SessionData:        data,
		CreateDate:         s.CreateDate,
		UpdateDate:         s.UpdateDate,
	}
}

func (m *SessionMapper) ToEntities(models []*model.Session) []*entity.Session {
	entities := make([]*entity.Session, len(models))
	for i, s := range models {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
