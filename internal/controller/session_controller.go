package controller

import (
	"strconv"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/pkg/serverutils"
	"counseling-userservice-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	ListEnquiries(ctx *fiber.Ctx) error
	ClaimEnquiry(ctx *fiber.Ctx) error
	AssignSession(ctx *fiber.Ctx) error
	Deactivate(ctx *fiber.Ctx) error
	SubmitEnquiry(ctx *fiber.Ctx) error
	ListTeamSessions(ctx *fiber.Ctx) error
	UpdateGroupKey(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("enquiries", serverutils.RequireRole(serverutils.RoleConsultant), c.ListEnquiries)
	h.Get("team", serverutils.RequireRole(serverutils.RoleConsultant), c.ListTeamSessions)
	h.Post(":id/claim", serverutils.RequireRole(serverutils.RoleConsultant), c.ClaimEnquiry)
	h.Post(":id/assign", serverutils.RequireRole(serverutils.RoleConsultant), c.AssignSession)
	h.Post(":id/deactivate", serverutils.RequireRole(serverutils.RoleConsultant), c.Deactivate)
	h.Post(":id/enquiry", c.SubmitEnquiry)
	h.Put(":id/group-key", c.UpdateGroupKey)
}

func (c *sessionController) ListEnquiries(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	offset := ctx.QueryInt("offset", 0)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.sessionService.ListPendingEnquiries(ctx.UserContext(), caller.Id, offset, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Pending enquiries", res))
}

func (c *sessionController) ClaimEnquiry(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.sessionService.ClaimEnquiry(ctx.UserContext(), caller.Id, sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Enquiry claimed", nil))
}

func (c *sessionController) AssignSession(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.AssignSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sessionService.AssignSession(ctx.UserContext(), caller.Id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session assigned", nil))
}

func (c *sessionController) Deactivate(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.sessionService.Deactivate(ctx.UserContext(), caller.Id, sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session deactivated", nil))
}

func (c *sessionController) SubmitEnquiry(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.sessionService.SubmitEnquiry(ctx.UserContext(), caller.Id, sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Enquiry submitted", nil))
}

func (c *sessionController) ListTeamSessions(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)

	res, err := c.sessionService.ListTeamSessions(ctx.UserContext(), caller.Id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Team sessions", res))
}

func (c *sessionController) UpdateGroupKey(ctx *fiber.Ctx) error {
	caller, _ := serverutils.AuthUserFromCtx(ctx)
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateGroupKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sessionService.UpdateGroupKey(ctx.UserContext(), caller.Id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Group key updated", nil))
}

func sessionIdParam(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return id, nil
}
