package controller

import (
	"strconv"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/pkg/serverutils"
	"counseling-userservice-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Join(ctx *fiber.Ctx) error
	Leave(ctx *fiber.Ctx) error
	BanUser(ctx *fiber.Ctx) error
	UnbanUser(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", serverutils.RequireRole(serverutils.RoleConsultant), c.Create)
	h.Get("", serverutils.RequireRole(serverutils.RoleConsultant), c.List)
	h.Get(":id", c.Get)
	h.Put(":id", serverutils.RequireRole(serverutils.RoleConsultant), c.Update)
	h.Post(":id/start", serverutils.RequireRole(serverutils.RoleConsultant), c.Start)
	h.Post(":id/stop", serverutils.RequireRole(serverutils.RoleConsultant), c.Stop)
	h.Delete(":id", serverutils.RequireRole(serverutils.RoleConsultant), c.Delete)
	h.Post(":id/join", c.Join)
	h.Post(":id/leave", c.Leave)
	h.Post(":id/ban", serverutils.RequireRole(serverutils.RoleConsultant), c.BanUser)
	h.Post(":id/unban", serverutils.RequireRole(serverutils.RoleConsultant), c.UnbanUser)
}

func (c *chatController) Create(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)

	var req dto.CreateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Create(ctx.UserContext(), caller.Id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat created", res))
}

func (c *chatController) Update(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ChatId = chatId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.Update(ctx.UserContext(), caller.Id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Chat updated", nil))
}

func (c *chatController) Get(ctx *fiber.Ctx) error {
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.Get(ctx.UserContext(), chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat", res))
}

func (c *chatController) List(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)

	res, err := c.chatService.ListForConsultant(ctx.UserContext(), caller.Id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chats", res))
}

func (c *chatController) Start(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Start(ctx.UserContext(), caller.Id, chatId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Chat started", nil))
}

func (c *chatController) Stop(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Stop(ctx.UserContext(), caller.Id, chatId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Chat stopped", nil))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Delete(ctx.UserContext(), caller.Id, chatId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Chat deleted", nil))
}

func (c *chatController) Join(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Join(ctx.UserContext(), caller.Id, chatId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Joined chat", nil))
}

func (c *chatController) Leave(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Leave(ctx.UserContext(), caller.Id, chatId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Left chat", nil))
}

func (c *chatController) BanUser(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.BanUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ChatId = chatId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.BanUser(ctx.UserContext(), caller.Id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("User banned", nil))
}

func (c *chatController) UnbanUser(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	chatId, err := chatIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.BanUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ChatId = chatId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.UnbanUser(ctx.UserContext(), caller.Id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("User unbanned", nil))
}

func chatIdParam(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid chat id")
	}
	return id, nil
}
