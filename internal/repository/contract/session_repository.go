package contract

import (
	"context"

	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/repository/specification"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// AssignConsultantIfUnclaimed atomically sets the consultant and
	// moves the session to IN_PROGRESS, but only while no consultant is
	// set and the status is still NEW. Returns false when another
	// claimer won the race.
	AssignConsultantIfUnclaimed(ctx context.Context, sessionId int64, consultantId string) (bool, error)

	// ReassignConsultant atomically swaps the assigned consultant, but
	// only while the currently assigned one still matches expected.
	// Returns false when the session moved on concurrently.
	ReassignConsultant(ctx context.Context, sessionId int64, expectedConsultantId *string, newConsultantId string) (bool, error)
}
