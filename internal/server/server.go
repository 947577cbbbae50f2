package server

import (
	"log"

	"counseling-userservice-be/internal/bootstrap"
	"counseling-userservice-be/internal/config"
	"counseling-userservice-be/internal/pkg/serverutils"
	"counseling-userservice-be/internal/repository/specification"
	"counseling-userservice-be/internal/tenant"
	wshub "counseling-userservice-be/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, tenantId, agencyId",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Tenant binding must run before any route touching the database.
	app.Use(tenant.Middleware(container.TenantChain, cfg.Tenancy.Enabled))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.UserController.RegisterRoutes(api)
	c.SessionController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)

	registerLiveRoutes(app, c)
}

// registerLiveRoutes exposes the websocket endpoint consultants use for
// live enquiry notifications.
func registerLiveRoutes(app *fiber.App, c *bootstrap.Container) {
	live := app.Group("/live")
	live.Use(serverutils.JwtMiddleware)
	live.Use(serverutils.RequireRole(serverutils.RoleConsultant))

	live.Use(func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			caller, _ := serverutils.AuthUserFromCtx(ctx)

			consultant, err := c.UowFactory.NewUnitOfWork(ctx.UserContext()).
				ConsultantRepository().
				FindOne(ctx.UserContext(), specification.ByConsultantId{Id: caller.Id})
			if err != nil {
				return err
			}
			if consultant == nil {
				return fiber.NewError(fiber.StatusForbidden, "caller is not a consultant")
			}

			ctx.Locals("agency_ids", consultant.AgencyIds)
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	live.Get("/", websocket.New(func(conn *websocket.Conn) {
		consultantId, _ := conn.Locals("auth_user").(serverutils.AuthUser)
		agencyIds, _ := conn.Locals("agency_ids").([]int64)
		wshub.ServeWs(c.WebSocketHub, conn, consultantId.Id, agencyIds)
	}))
}
