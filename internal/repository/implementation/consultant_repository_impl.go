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

type ConsultantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConsultantMapper
}

func NewConsultantRepository(db *gorm.DB) contract.ConsultantRepository {
	return &ConsultantRepositoryImpl{
		db:     db,
		mapper: mapper.NewConsultantMapper(),
	}
}

func (r *ConsultantRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConsultantRepositoryImpl) Create(ctx context.Context, consultant *entity.Consultant) error {
	m := r.mapper.ToModel(consultant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	for _, agencyId := range consultant.AgencyIds {
		if err := r.AddAgencyRelation(ctx, consultant.Id, agencyId); err != nil {
			return err
		}
	}
	return nil
}

func (r *ConsultantRepositoryImpl) Update(ctx context.Context, consultant *entity.Consultant) error {
	m := r.mapper.ToModel(consultant)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *ConsultantRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Consultant, error) {
	var m model.Consultant
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Agencies"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConsultantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Consultant, error) {
	var models []*model.Consultant
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Consultant{}).Preload("Agencies"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ConsultantRepositoryImpl) AddAgencyRelation(ctx context.Context, consultantId string, agencyId int64) error {
	rel := model.ConsultantAgency{ConsultantId: consultantId, AgencyId: agencyId}
	return r.db.WithContext(ctx).Create(&rel).Error
}

func (r *ConsultantRepositoryImpl) RemoveAgencyRelation(ctx context.Context, consultantId string, agencyId int64) error {
	return r.db.WithContext(ctx).
		Where("consultant_id = ? AND agency_id = ?", consultantId, agencyId).
		Delete(&model.ConsultantAgency{}).Error
}
