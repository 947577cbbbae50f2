package unitofwork

import (
	"context"

	"counseling-userservice-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin
// opens a database transaction; the assignment state machine relies on
// this boundary for its optimistic re-check to be sound.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	ChatRepository() contract.ChatRepository
	ConsultantRepository() contract.ConsultantRepository
	UserRepository() contract.UserRepository
}
