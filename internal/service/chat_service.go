package service

import (
	"context"
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

type IChatService interface {
	Create(ctx context.Context, callerId string, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error)
	Update(ctx context.Context, callerId string, req *dto.UpdateChatRequest) error

	// Start creates the remote group and opens the chat.
	Start(ctx context.Context, callerId string, chatId int64) error

	// Stop closes a running chat. Repetitive chats are rescheduled to
	// their next occurrence and their room history wiped; one-off chats
	// are deleted outright.
	Stop(ctx context.Context, callerId string, chatId int64) error

	// Delete removes the chat together with its agency and participant
	// link rows in one transaction.
	Delete(ctx context.Context, callerId string, chatId int64) error

	Join(ctx context.Context, callerId string, chatId int64) error
	Leave(ctx context.Context, callerId string, chatId int64) error
	BanUser(ctx context.Context, callerId string, req *dto.BanUserRequest) error
	UnbanUser(ctx context.Context, callerId string, req *dto.BanUserRequest) error

	Get(ctx context.Context, chatId int64) (*dto.ChatResponse, error)
	ListForConsultant(ctx context.Context, consultantId string) ([]dto.ChatResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    chatroom.Gateway
	dispatcher INotificationDispatcher
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	gateway chatroom.Gateway,
	dispatcher INotificationDispatcher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		gateway:    gateway,
		dispatcher: dispatcher,
		logger:     log,
	}
}

func (c *chatService) Create(ctx context.Context, callerId string, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	consultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: callerId})
	if err != nil {
		return nil, err
	}
	if consultant == nil {
		return nil, apperr.Forbidden("caller is not a consultant")
	}
	for _, agencyId := range req.AgencyIds {
		if !consultant.IsInAgency(agencyId) {
			return nil, apperr.Newf(apperr.KindForbidden,
				"consultant does not belong to agency %d", agencyId)
		}
	}

	startDate, err := parseChatStart(req.StartDate, req.StartTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chat := &entity.Chat{
		Topic:            req.Topic,
		InitialStartDate: startDate,
		StartDate:        startDate,
		Duration:         req.Duration,
		Repetitive:       req.Repetitive,
		MaxParticipants:  req.MaxParticipants,
		HintMessage:      req.HintMessage,
		OwnerId:          callerId,
		AgencyIds:        req.AgencyIds,
		CreateDate:       now,
		UpdateDate:       now,
	}
	if req.Repetitive {
		interval := entity.ChatIntervalWeekly
		chat.ChatInterval = &interval
	}

	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}
	if err := uow.ChatRepository().AddAgencyLinks(ctx, chat.Id, req.AgencyIds); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateChatResponse{ChatId: chat.Id}, nil
}

func (c *chatService) Update(ctx context.Context, callerId string, req *dto.UpdateChatRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	chat, err := c.ownedChat(ctx, uow, callerId, req.ChatId)
	if err != nil {
		return err
	}
	if chat.Active {
		return apperr.Newf(apperr.KindInvalidState,
			"chat %d is running and cannot be edited", req.ChatId)
	}

	startDate, err := parseChatStart(req.StartDate, req.StartTime)
	if err != nil {
		return err
	}

	chat.Topic = req.Topic
	chat.InitialStartDate = startDate
	chat.StartDate = startDate
	chat.Duration = req.Duration
	chat.UpdateDate = time.Now()
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *chatService) Start(ctx context.Context, callerId string, chatId int64) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	chat, err := c.ownedChat(ctx, uow, callerId, chatId)
	if err != nil {
		return err
	}
	if chat.Active {
		return apperr.Newf(apperr.KindConflict, "chat %d is already running", chatId)
	}

	consultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: callerId})
	if err != nil {
		return err
	}
	if consultant == nil {
		return apperr.Forbidden("caller is not a consultant")
	}

	if chat.GroupId == "" {
		groupId, err := c.gateway.CreateGroup(ctx, fmt.Sprintf("chat-%d", chat.Id))
		if err != nil {
			return err
		}
		chat.GroupId = groupId
	}
	if err := c.gateway.AddUserToGroup(ctx, chat.GroupId, consultant.ChatUserId); err != nil {
		return err
	}

	chat.Active = true
	chat.UpdateDate = time.Now()
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.dispatcher.ChatStarted(ctx, chat)
	return nil
}

func (c *chatService) Stop(ctx context.Context, callerId string, chatId int64) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	chat, err := c.ownedChat(ctx, uow, callerId, chatId)
	if err != nil {
		return err
	}
	if !chat.Active {
		return apperr.Newf(apperr.KindInvalidState, "chat %d is not running", chatId)
	}

	next, err := chat.NextStart()
	if err != nil {
		return err
	}

	if next != nil {
		// Repetitive: wipe the room and park the chat at its next
		// occurrence instead of deleting it.
		if chat.GroupId != "" {
			if err := c.gateway.CleanGroupHistory(ctx, chat.GroupId); err != nil {
				return err
			}
		}
		chat.StartDate = *next
		chat.Active = false
		chat.UpdateDate = time.Now()
		if err := uow.ChatRepository().Update(ctx, chat); err != nil {
			return err
		}
	} else {
		if chat.GroupId != "" {
			if err := c.gateway.DeleteGroup(ctx, chat.GroupId); err != nil {
				return err
			}
		}
		if err := uow.ChatRepository().DeleteDependents(ctx, chat.Id); err != nil {
			return err
		}
		if err := uow.ChatRepository().Delete(ctx, chat.Id); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.dispatcher.ChatStopped(ctx, chat)
	return nil
}

func (c *chatService) Delete(ctx context.Context, callerId string, chatId int64) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	chat, err := c.ownedChat(ctx, uow, callerId, chatId)
	if err != nil {
		return err
	}

	if chat.GroupId != "" {
		if err := c.gateway.DeleteGroup(ctx, chat.GroupId); err != nil {
			return err
		}
	}

	// Link rows first, then the chat itself; both inside the same
	// transaction since the schema has no cascading constraint.
	if err := uow.ChatRepository().DeleteDependents(ctx, chatId); err != nil {
		return err
	}
	if err := uow.ChatRepository().Delete(ctx, chatId); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *chatService) Join(ctx context.Context, callerId string, chatId int64) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	chat, err := c.findChat(ctx, uow, chatId)
	if err != nil {
		return err
	}
	if !chat.Active {
		return apperr.Newf(apperr.KindInvalidState, "chat %d is not running", chatId)
	}

	if chat.MaxParticipants != nil {
		count, err := uow.ChatRepository().CountUsers(ctx, chatId)
		if err != nil {
			return err
		}
		if count >= int64(*chat.MaxParticipants) {
			return apperr.Newf(apperr.KindConflict, "chat %d is full", chatId)
		}
	}

	chatUserId, err := c.chatUserIdOf(ctx, uow, callerId)
	if err != nil {
		return err
	}

	if err := c.gateway.AddUserToGroup(ctx, chat.GroupId, chatUserId); err != nil {
		return err
	}
	if err := uow.ChatRepository().AddUserLink(ctx, chatId, callerId); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *chatService) Leave(ctx context.Context, callerId string, chatId int64) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	chat, err := c.findChat(ctx, uow, chatId)
	if err != nil {
		return err
	}

	chatUserId, err := c.chatUserIdOf(ctx, uow, callerId)
	if err != nil {
		return err
	}

	if chat.GroupId != "" {
		if err := c.gateway.RemoveUserFromGroup(ctx, chat.GroupId, chatUserId); err != nil {
			return err
		}
	}
	if err := uow.ChatRepository().RemoveUserLink(ctx, chatId, callerId); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *chatService) BanUser(ctx context.Context, callerId string, req *dto.BanUserRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := c.ownedChat(ctx, uow, callerId, req.ChatId)
	if err != nil {
		return err
	}
	if !chat.Active || chat.GroupId == "" {
		return apperr.Newf(apperr.KindInvalidState, "chat %d is not running", req.ChatId)
	}

	return c.gateway.MuteUser(ctx, chat.GroupId, req.ChatUserId)
}

func (c *chatService) UnbanUser(ctx context.Context, callerId string, req *dto.BanUserRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := c.ownedChat(ctx, uow, callerId, req.ChatId)
	if err != nil {
		return err
	}
	if !chat.Active || chat.GroupId == "" {
		return apperr.Newf(apperr.KindInvalidState, "chat %d is not running", req.ChatId)
	}

	return c.gateway.UnmuteUser(ctx, chat.GroupId, req.ChatUserId)
}

func (c *chatService) Get(ctx context.Context, chatId int64) (*dto.ChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := c.findChat(ctx, uow, chatId)
	if err != nil {
		return nil, err
	}

	res, err := toChatResponse(chat)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *chatService) ListForConsultant(ctx context.Context, consultantId string) ([]dto.ChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	consultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: consultantId})
	if err != nil {
		return nil, err
	}
	if consultant == nil {
		return nil, apperr.Forbidden("caller is not a consultant")
	}

	var chats []*entity.Chat
	if len(consultant.AgencyIds) > 0 {
		chats, err = uow.ChatRepository().FindAll(ctx,
			specification.InAgencies{AgencyIds: consultant.AgencyIds},
			specification.OrderBy{Field: "start_date", Desc: false},
		)
	} else {
		chats, err = uow.ChatRepository().FindAll(ctx,
			specification.ByOwner{ConsultantId: consultantId},
			specification.OrderBy{Field: "start_date", Desc: false},
		)
	}
	if err != nil {
		return nil, err
	}

	res := make([]dto.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		r, err := toChatResponse(chat)
		if err != nil {
			return nil, err
		}
		res = append(res, *r)
	}
	return res, nil
}

func (c *chatService) findChat(ctx context.Context, uow unitofwork.UnitOfWork, chatId int64) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx, specification.ById{Id: chatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "chat %d not found", chatId)
	}
	return chat, nil
}

func (c *chatService) ownedChat(ctx context.Context, uow unitofwork.UnitOfWork, callerId string, chatId int64) (*entity.Chat, error) {
	chat, err := c.findChat(ctx, uow, chatId)
	if err != nil {
		return nil, err
	}
	if !chat.IsOwnedBy(callerId) {
		return nil, apperr.Forbidden("caller does not own the chat")
	}
	return chat, nil
}

// chatUserIdOf resolves the remote chat handle of a caller that may be
// an advice seeker or a consultant.
func (c *chatService) chatUserIdOf(ctx context.Context, uow unitofwork.UnitOfWork, callerId string) (string, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.FilterBy{Field: "id", Value: callerId})
	if err != nil {
		return "", err
	}
	if user != nil {
		return user.ChatUserId, nil
	}

	consultant, err := uow.ConsultantRepository().FindOne(ctx, specification.ByConsultantId{Id: callerId})
	if err != nil {
		return "", err
	}
	if consultant != nil {
		return consultant.ChatUserId, nil
	}

	return "", apperr.Newf(apperr.KindNotFound, "caller %s is not known", callerId)
}

func parseChatStart(date, clock string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, apperr.Newf(apperr.KindBadRequest,
			"invalid chat start %q %q", date, clock)
	}
	return t, nil
}

func toChatResponse(chat *entity.Chat) (*dto.ChatResponse, error) {
	next, err := chat.NextStart()
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{
		Id:              chat.Id,
		Topic:           chat.Topic,
		StartDate:       chat.StartDate,
		Duration:        chat.Duration,
		Repetitive:      chat.Repetitive,
		Active:          chat.Active,
		MaxParticipants: chat.MaxParticipants,
		GroupId:         chat.GroupId,
		OwnerId:         chat.OwnerId,
		AgencyIds:       chat.AgencyIds,
		NextStart:       next,
	}, nil
}
