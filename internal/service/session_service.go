package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/pkg/apperr"
	"counseling-userservice-be/internal/pkg/logger"
	"counseling-userservice-be/internal/repository/specification"
	"counseling-userservice-be/internal/repository/unitofwork"
	"counseling-userservice-be/pkg/chatroom"
)

type ISessionService interface {
	// ClaimEnquiry lets a consultant take a pending enquiry. Legal only
	// from NEW without an assigned consultant; the losing side of a
	// concurrent claim gets a conflict error.
	ClaimEnquiry(ctx context.Context, consultantId string, sessionId int64) error

	// AssignSession assigns or re-assigns a session to a target
	// consultant on behalf of the caller.
	AssignSession(ctx context.Context, callerId string, req *dto.AssignSessionRequest) error

	// Deactivate moves an active session to DONE. Deactivating an
	// already closed session is a conflict, not a no-op.
	Deactivate(ctx context.Context, callerId string, sessionId int64) error

	// SubmitEnquiry turns an INITIAL session into a pending enquiry:
	// creates the remote chat room, stamps the enquiry date and moves
	// the session to NEW.
	SubmitEnquiry(ctx context.Context, userId string, sessionId int64) error

	ListPendingEnquiries(ctx context.Context, consultantId string, offset, limit int) (*dto.EnquiryListResponse, error)
	ListTeamSessions(ctx context.Context, consultantId string) ([]dto.SessionResponse, error)

	// UpdateGroupKey forwards a new e2e key for the session's room to
	// the chat backend.
	UpdateGroupKey(ctx context.Context, callerId string, req *dto.UpdateGroupKeyRequest) error
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          chatroom.Gateway
	dispatcher       INotificationDispatcher
	publisherService IPublisherService
	feedbackTypeIds  map[int]bool
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	gateway chatroom.Gateway,
	dispatcher INotificationDispatcher,
	publisherService IPublisherService,
	feedbackTypeIds []int,
	log logger.ILogger,
) ISessionService {
	feedback := make(map[int]bool, len(feedbackTypeIds))
	for _, id := range feedbackTypeIds {
		feedback[id] = true
	}
	return &sessionService{
		uowFactory:       uowFactory,
		gateway:          gateway,
		dispatcher:       dispatcher,
		publisherService: publisherService,
		feedbackTypeIds:  feedback,
		logger:           log,
	}
}

func (s *sessionService) ClaimEnquiry(ctx context.Context, consultantId string, sessionId int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().FindOne(ctx, specification.ById{Id: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.Newf(apperr.KindNotFound, "session %d not found", sessionId)
	}

	consultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: consultantId})
	if err != nil {
		return err
	}
	if consultant == nil {
		return apperr.Forbidden("caller is not a consultant")
	}

	if session.IsAdvisedBy(consultantId) {
		// Re-confirming an own assignment is idempotent.
		return uow.Commit()
	}
	if session.ConsultantId != nil {
		return apperr.Newf(apperr.KindConflict, "session %d is already claimed", sessionId)
	}
	if session.Status != entity.SessionStatusNew {
		return apperr.Newf(apperr.KindInvalidState,
			"session %d cannot be claimed from status %s", sessionId, session.Status)
	}
	if session.AgencyId != nil && !consultant.IsInAgency(*session.AgencyId) {
		return apperr.Forbidden("consultant does not belong to the session's agency")
	}

	claimed, err := uow.SessionRepository().AssignConsultantIfUnclaimed(ctx, sessionId, consultantId)
	if err != nil {
		return err
	}
	if !claimed {
		return apperr.Newf(apperr.KindConflict, "session %d was claimed concurrently", sessionId)
	}

	// Gateway calls happen inside the transaction boundary: a failure
	// here rolls the claim back so no consultant-less or half-added
	// state is ever visible.
	if err := s.addConsultantToRooms(ctx, session, consultant); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	session.ConsultantId = &consultantId
	session.Status = entity.SessionStatusInProgress
	s.dispatcher.SessionAssigned(ctx, session, consultant)

	return nil
}

func (s *sessionService) AssignSession(ctx context.Context, callerId string, req *dto.AssignSessionRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().FindOne(ctx, specification.ById{Id: req.SessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.Newf(apperr.KindNotFound, "session %d not found", req.SessionId)
	}
	if session.IsClosed() {
		return apperr.Newf(apperr.KindInvalidState,
			"session %d is closed and cannot be re-assigned", req.SessionId)
	}

	target, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: req.ConsultantId})
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.Newf(apperr.KindNotFound, "consultant %s not found", req.ConsultantId)
	}

	if session.TeamSession {
		if session.AgencyId != nil && !target.IsInAgency(*session.AgencyId) {
			return apperr.Forbidden("target consultant does not belong to the session's agency")
		}
	} else if !session.IsAdvisedBy(callerId) && callerId != req.ConsultantId {
		return apperr.Forbidden("only the assigned consultant may hand over a non-team session")
	}

	if session.IsAdvisedBy(req.ConsultantId) {
		return uow.Commit()
	}

	previous := session.ConsultantId
	var swapped bool
	if previous == nil {
		// First assignment follows the claim rules: only pending
		// enquiries are assignable, and only to a consultant of the
		// session's agency.
		if session.Status != entity.SessionStatusNew {
			return apperr.Newf(apperr.KindInvalidState,
				"session %d cannot be assigned from status %s", req.SessionId, session.Status)
		}
		if session.AgencyId != nil && !target.IsInAgency(*session.AgencyId) {
			return apperr.Forbidden("target consultant does not belong to the session's agency")
		}
		swapped, err = uow.SessionRepository().AssignConsultantIfUnclaimed(ctx, req.SessionId, req.ConsultantId)
	} else {
		swapped, err = uow.SessionRepository().ReassignConsultant(ctx, req.SessionId, previous, req.ConsultantId)
	}
	if err != nil {
		return err
	}
	if !swapped {
		return apperr.Newf(apperr.KindConflict, "session %d was re-assigned concurrently", req.SessionId)
	}

	if previous != nil {
		prevConsultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: *previous})
		if err != nil {
			return err
		}
		if prevConsultant != nil {
			if err := s.removeConsultantFromRooms(ctx, session, prevConsultant); err != nil {
				return err
			}
		}
	}
	if err := s.addConsultantToRooms(ctx, session, target); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	session.ConsultantId = &req.ConsultantId
	session.Status = entity.SessionStatusInProgress
	s.dispatcher.SessionAssigned(ctx, session, target)

	return nil
}

func (s *sessionService) Deactivate(ctx context.Context, callerId string, sessionId int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().FindOne(ctx, specification.ById{Id: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.Newf(apperr.KindNotFound, "session %d not found", sessionId)
	}
	if session.IsClosed() {
		// A second deactivation is a race or a duplicate request, not
		// something to silently absorb.
		return apperr.Newf(apperr.KindConflict, "session %d is already closed", sessionId)
	}
	if !session.IsAdvisedBy(callerId) {
		if !session.TeamSession {
			return apperr.Forbidden("only the assigned consultant may deactivate the session")
		}
		// Team sessions may be closed by any consultant of the
		// session's agency, not by consultants of other agencies.
		caller, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: callerId})
		if err != nil {
			return err
		}
		if caller == nil {
			return apperr.Forbidden("caller is not a consultant")
		}
		if session.AgencyId != nil && !caller.IsInAgency(*session.AgencyId) {
			return apperr.Forbidden("consultant does not belong to the session's agency")
		}
	}

	session.Status = entity.SessionStatusDone
	session.UpdateDate = time.Now()
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.dispatcher.SessionDeactivated(ctx, session)
	return nil
}

func (s *sessionService) SubmitEnquiry(ctx context.Context, userId string, sessionId int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ById{Id: sessionId},
		specification.ByUser{UserId: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.Newf(apperr.KindNotFound, "session %d not found", sessionId)
	}
	if session.Status != entity.SessionStatusInitial {
		return apperr.Newf(apperr.KindConflict,
			"enquiry for session %d was already submitted", sessionId)
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.FilterBy{Field: "id", Value: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.Newf(apperr.KindNotFound, "user %s not found", userId)
	}

	groupId, err := s.gateway.CreateGroup(ctx, roomName(session))
	if err != nil {
		return err
	}
	if err := s.gateway.AddUserToGroup(ctx, groupId, user.ChatUserId); err != nil {
		return err
	}
	session.GroupId = groupId

	if s.feedbackTypeIds[session.ConsultingTypeId] {
		feedbackGroupId, err := s.gateway.CreateGroup(ctx, roomName(session)+"_feedback")
		if err != nil {
			return err
		}
		session.FeedbackGroupId = feedbackGroupId
	}

	now := time.Now()
	session.EnquiryMessageDate = &now
	session.Status = entity.SessionStatusNew
	session.UpdateDate = now
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.dispatcher.EnquiryCreated(ctx, session, user.Username)
	s.publishEnquiryMessage(ctx, session, user.Username)

	return nil
}

func (s *sessionService) publishEnquiryMessage(ctx context.Context, session *entity.Session, username string) {
	if s.publisherService == nil || session.AgencyId == nil {
		return
	}
	msg := dto.EnquiryNotificationMessage{
		SessionId: session.Id,
		AgencyId:  *session.AgencyId,
		TenantId:  session.TenantId,
		Username:  username,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("SessionService", "Failed to marshal enquiry message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("SessionService", "Failed to publish enquiry message", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}

func (s *sessionService) ListPendingEnquiries(ctx context.Context, consultantId string, offset, limit int) (*dto.EnquiryListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	consultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: consultantId})
	if err != nil {
		return nil, err
	}
	if consultant == nil {
		return nil, apperr.Forbidden("caller is not a consultant")
	}
	if len(consultant.AgencyIds) == 0 {
		return &dto.EnquiryListResponse{Sessions: []dto.SessionResponse{}}, nil
	}

	if limit <= 0 {
		limit = 20
	}

	filters := []specification.Specification{
		specification.ByStatus{Status: entity.SessionStatusNew},
		specification.Unassigned{},
		specification.ByAgencyIdIn{AgencyIds: consultant.AgencyIds},
	}

	total, err := uow.SessionRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	sessions, err := uow.SessionRepository().FindAll(ctx, append(filters,
		specification.OrderByEnquiryDateAsc{},
		specification.Pagination{Limit: limit, Offset: offset},
	)...)
	if err != nil {
		return nil, err
	}

	res := &dto.EnquiryListResponse{
		Sessions: make([]dto.SessionResponse, 0, len(sessions)),
		Total:    total,
	}
	for _, session := range sessions {
		res.Sessions = append(res.Sessions, toSessionResponse(session))
	}
	return res, nil
}

func (s *sessionService) ListTeamSessions(ctx context.Context, consultantId string) ([]dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	consultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: consultantId})
	if err != nil {
		return nil, err
	}
	if consultant == nil {
		return nil, apperr.Forbidden("caller is not a consultant")
	}
	if len(consultant.AgencyIds) == 0 {
		return []dto.SessionResponse{}, nil
	}

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.TeamSessionsOnly{},
		specification.ByStatus{Status: entity.SessionStatusInProgress},
		specification.ByAgencyIdIn{AgencyIds: consultant.AgencyIds},
		specification.NotConsultant{ConsultantId: consultantId},
		specification.OrderBy{Field: "update_date", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, toSessionResponse(session))
	}
	return res, nil
}

func (s *sessionService) UpdateGroupKey(ctx context.Context, callerId string, req *dto.UpdateGroupKeyRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ById{Id: req.SessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.Newf(apperr.KindNotFound, "session %d not found", req.SessionId)
	}
	if session.UserId != callerId && !session.IsAdvisedBy(callerId) {
		return apperr.Forbidden("caller is not a participant of the session")
	}
	if session.GroupId == "" {
		return apperr.Newf(apperr.KindInvalidState, "session %d has no chat room", req.SessionId)
	}

	return s.gateway.UpdateGroupKey(ctx, session.GroupId, req.Key)
}

func (s *sessionService) addConsultantToRooms(ctx context.Context, session *entity.Session, consultant *entity.Consultant) error {
	if session.GroupId != "" {
		if err := s.gateway.AddUserToGroup(ctx, session.GroupId, consultant.ChatUserId); err != nil {
			return err
		}
	}
	if session.HasFeedbackChat() {
		if err := s.gateway.AddUserToGroup(ctx, session.FeedbackGroupId, consultant.ChatUserId); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionService) removeConsultantFromRooms(ctx context.Context, session *entity.Session, consultant *entity.Consultant) error {
	if session.GroupId != "" {
		if err := s.gateway.RemoveUserFromGroup(ctx, session.GroupId, consultant.ChatUserId); err != nil {
			return err
		}
	}
	if session.HasFeedbackChat() {
		if err := s.gateway.RemoveUserFromGroup(ctx, session.FeedbackGroupId, consultant.ChatUserId); err != nil {
			return err
		}
	}
	return nil
}

func roomName(session *entity.Session) string {
	return fmt.Sprintf("session-%d", session.Id)
}

func toSessionResponse(session *entity.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Id:               session.Id,
		UserId:           session.UserId,
		ConsultantId:     session.ConsultantId,
		ConsultingTypeId: session.ConsultingTypeId,
		RegistrationType: string(session.RegistrationType),
		Postcode:         session.Postcode,
		AgencyId:         session.AgencyId,
		Status:           session.Status.String(),
		TeamSession:      session.TeamSession,
		GroupId:          session.GroupId,
		FeedbackGroupId:  session.FeedbackGroupId,
		MessageDate:      session.EnquiryMessageDate,
		CreateDate:       session.CreateDate,
	}
}
