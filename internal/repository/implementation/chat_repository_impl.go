package implementation

import (
	"context"
	"errors"

	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/mapper"
	"counseling-userservice-be/internal/model"
	"counseling-userservice-be/internal/repository/contract"
	"counseling-userservice-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	agencyIds := chat.AgencyIds
	*chat = *r.mapper.ToEntity(m)
	chat.AgencyIds = agencyIds
	return nil
}

func (r *ChatRepositoryImpl) Update(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ToModel(chat)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	agencyIds := chat.AgencyIds
	*chat = *r.mapper.ToEntity(m)
	chat.AgencyIds = agencyIds
	return nil
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Chat{}, id).Error
}

func (r *ChatRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	var m model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	chat := r.mapper.ToEntity(&m)
	agencyIds, err := r.FindAgencyIds(ctx, chat.Id)
	if err != nil {
		return nil, err
	}
	chat.AgencyIds = agencyIds
	return chat, nil
}

func (r *ChatRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Chat{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatRepositoryImpl) AddAgencyLinks(ctx context.Context, chatId int64, agencyIds []int64) error {
	if len(agencyIds) == 0 {
		return nil
	}
	links := make([]model.ChatAgency, 0, len(agencyIds))
	for _, agencyId := range agencyIds {
		links = append(links, model.ChatAgency{ChatId: chatId, AgencyId: agencyId})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *ChatRepositoryImpl) AddUserLink(ctx context.Context, chatId int64, userId string) error {
	link := model.ChatUser{ChatId: chatId, UserId: userId}
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *ChatRepositoryImpl) RemoveUserLink(ctx context.Context, chatId int64, userId string) error {
	return r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatId, userId).
		Delete(&model.ChatUser{}).Error
}

// DeleteDependents removes the agency and participant link rows of a
// chat. Must run inside the same transaction as the parent delete.
func (r *ChatRepositoryImpl) DeleteDependents(ctx context.Context, chatId int64) error {
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatId).
		Delete(&model.ChatAgency{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("chat_id = ?", chatId).
		Delete(&model.ChatUser{}).Error
}

func (r *ChatRepositoryImpl) FindAgencyIds(ctx context.Context, chatId int64) ([]int64, error) {
	var agencyIds []int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatAgency{}).
		Where("chat_id = ?", chatId).
		Pluck("agency_id", &agencyIds).Error
	return agencyIds, err
}

func (r *ChatRepositoryImpl) FindUserIds(ctx context.Context, chatId int64) ([]string, error) {
	var userIds []string
	err := r.db.WithContext(ctx).
		Model(&model.ChatUser{}).
		Where("chat_id = ?", chatId).
		Pluck("user_id", &userIds).Error
	return userIds, err
}

func (r *ChatRepositoryImpl) CountUsers(ctx context.Context, chatId int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatUser{}).
		Where("chat_id = ?", chatId).
		Count(&count).Error
	return count, err
}
