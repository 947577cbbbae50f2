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

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, session *entity.Session) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Session{}, id).Error
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var models []*model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Session{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AssignConsultantIfUnclaimed is the optimistic claim: the WHERE clause
// repeats the unclaimed condition so the losing racer affects zero rows
// instead of overwriting the winner.
func (r *SessionRepositoryImpl) AssignConsultantIfUnclaimed(ctx context.Context, sessionId int64, consultantId string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ? AND consultant_id IS NULL AND status = ?", sessionId, int(entity.SessionStatusNew)).
		Updates(map[string]interface{}{
			"consultant_id": consultantId,
			"status":        int(entity.SessionStatusInProgress),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) ReassignConsultant(ctx context.Context, sessionId int64, expectedConsultantId *string, newConsultantId string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ?", sessionId)
	if expectedConsultantId == nil {
		query = query.Where("consultant_id IS NULL")
	} else {
		query = query.Where("consultant_id = ?", *expectedConsultantId)
	}
	res := query.Updates(map[string]interface{}{
		"consultant_id": newConsultantId,
		"status":        int(entity.SessionStatusInProgress),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
