package contract

import (
	"context"

	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/repository/specification"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	Update(ctx context.Context, chat *entity.Chat) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error)

	// Link-table maintenance. Deleting a chat must remove its agency
	// and participant rows in the same transaction; there is no ORM
	// cascade to rely on.
	AddAgencyLinks(ctx context.Context, chatId int64, agencyIds []int64) error
	AddUserLink(ctx context.Context, chatId int64, userId string) error
	RemoveUserLink(ctx context.Context, chatId int64, userId string) error
	DeleteDependents(ctx context.Context, chatId int64) error
	FindAgencyIds(ctx context.Context, chatId int64) ([]int64, error)
	FindUserIds(ctx context.Context, chatId int64) ([]string, error)
	CountUsers(ctx context.Context, chatId int64) (int64, error)
}
