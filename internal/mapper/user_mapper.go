package mapper

import (
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		TenantId:     u.TenantId,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		ChatUserId:   u.ChatUserId,
		Anonymous:    u.Anonymous,
		LanguageCode: u.LanguageCode,
		CreateDate:   u.CreateDate,
		UpdateDate:   u.UpdateDate,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		TenantId:     u.TenantId,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		ChatUserId:   u.ChatUserId,
		Anonymous:    u.Anonymous,
		LanguageCode: u.LanguageCode,
		CreateDate:   u.CreateDate,
		UpdateDate:   u.UpdateDate,
	}
}

func (m *UserMapper) ToEntities(models []*model.User) []*entity.User {
	entities := make([]*entity.User, len(models))
	for i, u := range models {
		entities[i] = m.ToEntity(u)
	}
	return entities
}
