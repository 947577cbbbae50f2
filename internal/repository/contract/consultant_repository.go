package contract

import (
	"context"

	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/repository/specification"
)

type ConsultantRepository interface {
	Create(ctx context.Context, consultant *entity.Consultant) error
	Update(ctx context.Context, consultant *entity.Consultant) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Consultant, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Consultant, error)

	AddAgencyRelation(ctx context.Context, consultantId string, agencyId int64) error
	RemoveAgencyRelation(ctx context.Context, consultantId string, agencyId int64) error
}
