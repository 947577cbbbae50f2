package service

import (
	"context"
	"time"

	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/pkg/logger"
	"counseling-userservice-be/internal/repository/specification"
	"counseling-userservice-be/internal/repository/unitofwork"
	"counseling-userservice-be/internal/tenant"
	"counseling-userservice-be/pkg/chatroom"
	"counseling-userservice-be/pkg/identity"
)

// ISchedulerService runs the cross-tenant maintenance jobs: archiving
// stale DONE sessions and deleting worked-off anonymous accounts. Both
// jobs run under the technical tenant so they see every tenant's rows.
type ISchedulerService interface {
	Start(ctx context.Context)
	RunArchiving(ctx context.Context) error
	RunAnonymousCleanup(ctx context.Context) error
}

type schedulerService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          chatroom.Gateway
	identityProvider identity.Provider
	dispatcher       INotificationDispatcher
	interval         time.Duration
	retention        time.Duration
	logger           logger.ILogger
}

func NewSchedulerService(
	uowFactory unitofwork.RepositoryFactory,
	gateway chatroom.Gateway,
	identityProvider identity.Provider,
	dispatcher INotificationDispatcher,
	interval time.Duration,
	retentionDays int,
	log logger.ILogger,
) ISchedulerService {
	return &schedulerService{
		uowFactory:       uowFactory,
		gateway:          gateway,
		identityProvider: identityProvider,
		dispatcher:       dispatcher,
		interval:         interval,
		retention:        time.Duration(retentionDays) * 24 * time.Hour,
		logger:           log,
	}
}

func (s *schedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *schedulerService) runOnce(ctx context.Context) {
	err := tenant.RunAsTechnical(ctx, func(tctx context.Context) error {
		if err := s.RunArchiving(tctx); err != nil {
			s.logger.Error("SchedulerService", "Archiving run failed", map[string]interface{}{"error": err.Error()})
		}
		if err := s.RunAnonymousCleanup(tctx); err != nil {
			s.logger.Error("SchedulerService", "Anonymous cleanup run failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SchedulerService", "Maintenance run failed", map[string]interface{}{"error": err.Error()})
	}
}

// RunArchiving moves sessions that finished longer than the retention
// period ago from DONE to IN_ARCHIVE.
func (s *schedulerService) RunArchiving(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	cutoff := time.Now().Add(-s.retention)
	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByStatus{Status: entity.SessionStatusDone},
		specification.UpdatedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		session.Status = entity.SessionStatusInArchive
		session.UpdateDate = time.Now()
		if err := uow.SessionRepository().Update(ctx, session); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	for _, session := range sessions {
		s.dispatcher.SessionArchived(ctx, session)
	}

	if len(sessions) > 0 {
		s.logger.Info("SchedulerService", "Archived stale sessions", map[string]interface{}{"count": len(sessions)})
	}
	return nil
}

// RunAnonymousCleanup deletes anonymous accounts whose sessions are all
// closed and older than the retention period, together with their
// sessions, chat rooms and identity accounts.
func (s *schedulerService) RunAnonymousCleanup(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cutoff := time.Now().Add(-s.retention)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.AnonymousOnly{},
		specification.UpdatedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return err
	}

	deleted := 0
	for _, user := range users {
		if err := s.cleanupUser(ctx, user); err != nil {
			s.logger.Warn("SchedulerService", "Failed to clean up anonymous user", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("SchedulerService", "Deleted anonymous users", map[string]interface{}{"count": deleted})
	}
	return nil
}

func (s *schedulerService) cleanupUser(ctx context.Context, user *entity.User) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sessions, err := uow.SessionRepository().FindAll(ctx, specification.ByUser{UserId: user.Id})
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if !session.IsClosed() {
			// Still being worked on; skip the whole account.
			return uow.Commit()
		}
	}

	for _, session := range sessions {
		// Remote rooms are best-effort: a failing chat backend must not
		// keep stale accounts around forever.
		if session.GroupId != "" {
			if err := s.gateway.DeleteGroup(ctx, session.GroupId); err != nil {
				s.logger.Warn("SchedulerService", "Failed to delete chat room", map[string]interface{}{
					"group_id": session.GroupId,
					"error":    err.Error(),
				})
			}
		}
		if session.HasFeedbackChat() {
			if err := s.gateway.DeleteGroup(ctx, session.FeedbackGroupId); err != nil {
				s.logger.Warn("SchedulerService", "Failed to delete feedback room", map[string]interface{}{
					"group_id": session.FeedbackGroupId,
					"error":    err.Error(),
				})
			}
		}
		if err := uow.SessionRepository().Delete(ctx, session.Id); err != nil {
			return err
		}
	}

	if err := uow.UserRepository().Delete(ctx, user.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.identityProvider.DeleteAccount(ctx, user.Id); err != nil {
		s.logger.Warn("SchedulerService", "Failed to delete identity account", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	}
	return nil
}
