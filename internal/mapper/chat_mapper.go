package mapper

import (
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}
	var interval *entity.ChatInterval
	if c.ChatInterval != nil {
		i := entity.ChatInterval(*c.ChatInterval)
		interval = &i
	}
	return &entity.Chat{
		Id:               c.Id,
		TenantId:         c.TenantId,
		Topic:            c.Topic,
		ConsultingTypeId: c.ConsultingTypeId,
		InitialStartDate: c.InitialStartDate,
		StartDate:        c.StartDate,
		Duration:         c.Duration,
		Repetitive:       c.Repetitive,
		ChatInterval:     interval,
		Active:           c.Active,
		MaxParticipants:  c.MaxParticipants,
		GroupId:          c.GroupId,
		OwnerId:          c.OwnerId,
		HintMessage:      c.HintMessage,
		CreateDate:       c.CreateDate,
		UpdateDate:       c.UpdateDate,
	}
}

func (m *ChatMapper) ToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}
	var interval *string
	if c.ChatInterval != nil {
		i := string(*c.ChatInterval)
		interval = &i
	}
	return &model.Chat{
		Id:               c.Id,
		TenantId:         c.TenantId,
		Topic:            c.Topic,
		ConsultingTypeId: c.ConsultingTypeId,
		InitialStartDate: c.InitialStartDate,
		StartDate:        c.StartDate,
		Duration:         c.Duration,
		Repetitive:       c.Repetitive,
		ChatInterval:     interval,
		Active:           c.Active,
		MaxParticipants:  c.MaxParticipants,
		GroupId:          c.GroupId,
		OwnerId:          c.OwnerId,
		HintMessage:      c.HintMessage,
		CreateDate:       c.CreateDate,
		UpdateDate:       c.UpdateDate,
	}
}

func (m *ChatMapper) ToEntities(models []*model.Chat) []*entity.Chat {
	entities := make([]*entity.Chat, len(models))
	for i, c := range models {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
