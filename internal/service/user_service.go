package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/pkg/apperr"
	"counseling-userservice-be/internal/pkg/logger"
	"counseling-userservice-be/internal/repository/specification"
	"counseling-userservice-be/internal/repository/unitofwork"
	"counseling-userservice-be/internal/tenant"
	"counseling-userservice-be/pkg/agencydir"
	"counseling-userservice-be/pkg/identity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	// Register creates an advice-seeker account plus its initial
	// session anchored at the chosen agency.
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterResponse, error)

	// RegisterAnonymous creates a throwaway account with a generated
	// username. Anonymous users are cleaned up by the maintenance job
	// once their sessions are done.
	RegisterAnonymous(ctx context.Context, req *dto.RegisterAnonymousRequest) (*dto.RegisterResponse, error)
}

type userService struct {
	uowFactory       unitofwork.RepositoryFactory
	identityProvider identity.Provider
	agencyDir        agencydir.Directory
	dispatcher       INotificationDispatcher
	logger           logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	identityProvider identity.Provider,
	agencyDir agencydir.Directory,
	dispatcher INotificationDispatcher,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:       uowFactory,
		identityProvider: identityProvider,
		agencyDir:        agencyDir,
		dispatcher:       dispatcher,
		logger:           log,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterResponse, error) {
	agency, err := s.agencyDir.GetAgency(ctx, req.AgencyId)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, apperr.Newf(apperr.KindBadRequest, "agency %d does not exist", req.AgencyId)
	}
	if agency.ConsultingTypeId != req.ConsultingTypeId {
		return nil, apperr.Newf(apperr.KindBadRequest,
			"agency %d does not offer consulting type %d", req.AgencyId, req.ConsultingTypeId)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FindOne(ctx,
		specification.FilterBy{Field: "username", Value: strings.ToLower(req.Username)},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.KindConflict, "username %s is taken", req.Username)
	}

	accountId, err := s.identityProvider.CreateAccount(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}

	res, err := s.createUserWithSession(ctx, uow, accountId, req, agency)
	if err != nil {
		// The identity account exists but ours won't; remove it again
		// so the username does not stay blocked.
		if delErr := s.identityProvider.DeleteAccount(ctx, accountId); delErr != nil {
			s.logger.Error("UserService", "Failed to clean up identity account", map[string]interface{}{
				"account_id": accountId,
				"error":      delErr.Error(),
			})
		}
		return nil, err
	}

	return res, nil
}

func (s *userService) createUserWithSession(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	accountId string,
	req *dto.RegisterUserRequest,
	agency *agencydir.Agency,
) (*dto.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	languageCode := req.LanguageCode
	if languageCode == "" {
		languageCode = "de"
	}

	now := time.Now()
	user := &entity.User{
		Id:           accountId,
		Username:     strings.ToLower(req.Username),
		Email:        req.Email,
		PasswordHash: string(hash),
		LanguageCode: languageCode,
		CreateDate:   now,
		UpdateDate:   now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	session := &entity.Session{
		UserId:           user.Id,
		ConsultingTypeId: req.ConsultingTypeId,
		RegistrationType: entity.RegistrationTypeRegistered,
		Postcode:         req.Postcode,
		AgencyId:         &agency.Id,
		Status:           entity.SessionStatusInitial,
		TeamSession:      agency.TeamAgency,
		CreateDate:       now,
		UpdateDate:       now,
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.dispatcher.UserRegistered(ctx, user, session)

	return &dto.RegisterResponse{
		UserId:    user.Id,
		SessionId: session.Id,
		Username:  user.Username,
	}, nil
}

func (s *userService) RegisterAnonymous(ctx context.Context, req *dto.RegisterAnonymousRequest) (*dto.RegisterResponse, error) {
	if _, bound := tenant.FromContext(ctx); !bound {
		return nil, apperr.BadRequest("request is not bound to a tenant")
	}

	username := fmt.Sprintf("anonymous-%s", uuid.NewString()[:8])

	accountId, err := s.identityProvider.CreateAccount(ctx, username, "")
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	user := &entity.User{
		Id:         accountId,
		Username:   username,
		Anonymous:  true,
		CreateDate: now,
		UpdateDate: now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	session := &entity.Session{
		UserId:           user.Id,
		ConsultingTypeId: req.ConsultingTypeId,
		RegistrationType: entity.RegistrationTypeAnonymous,
		Status:           entity.SessionStatusInitial,
		CreateDate:       now,
		UpdateDate:       now,
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.dispatcher.UserRegistered(ctx, user, session)

	return &dto.RegisterResponse{
		UserId:    user.Id,
		SessionId: session.Id,
		Username:  username,
	}, nil
}
