package bootstrap

import (
	"context"
	"log"
	"time"

	"counseling-userservice-be/internal/config"
	"counseling-userservice-be/internal/controller"
	"counseling-userservice-be/internal/pkg/logger"
	"counseling-userservice-be/internal/pkg/mailer"
	"counseling-userservice-be/internal/repository/unitofwork"
	"counseling-userservice-be/internal/service"
	"counseling-userservice-be/internal/tenant"
	"counseling-userservice-be/internal/websocket"
	"counseling-userservice-be/pkg/agencydir"
	"counseling-userservice-be/pkg/chatroom"
	"counseling-userservice-be/pkg/identity"
	"counseling-userservice-be/pkg/tenantdir"

	pktNats "counseling-userservice-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	ChatController    controller.IChatController
	UserController    controller.IUserController

	// Background services (exposed for main.go to run)
	ConsumerService  service.IConsumerService
	SchedulerService service.ISchedulerService

	// Tenant resolution for the request middleware
	TenantChain *tenant.Chain

	// WebSockets
	WebSocketHub *websocket.Hub

	// Repositories, for the websocket endpoint's agency lookup
	UowFactory unitofwork.RepositoryFactory

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.BaseURL,
	)

	// 2. External collaborators
	chatGateway := chatroom.NewClient(
		cfg.ChatRoom.BaseURL,
		cfg.ChatRoom.AdminId,
		cfg.ChatRoom.AdminToken,
	)
	identityProvider := identity.NewClient(
		cfg.Identity.BaseURL,
		cfg.Identity.TokenURL,
		cfg.Identity.ClientId,
		cfg.Identity.ClientSecret,
	)
	agencyDir := agencydir.NewClient(cfg.Directory.AgencyServiceURL)
	tenantDir := tenantdir.NewClient(cfg.Directory.TenantServiceURL)

	// 3. Tenant resolution: header, then subdomain, then agency header.
	tenantChain := tenant.NewChain(
		tenant.HeaderResolver{},
		tenant.SubdomainResolver{BaseDomain: cfg.Tenancy.BaseDomain, Tenants: tenantDir},
		tenant.AgencyResolver{Agencies: agencyDir},
	)

	// 4. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis is optional; without it the websocket hub is instance-local.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// 5. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. Services
	dispatcher := service.NewNotificationDispatcher(natsPub, emailService, wsHub, sysLogger)

	publisherService := service.NewPublisherService(pubSub, cfg.App.EnquiryTopicName)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EnquiryTopicName,
		uowFactory,
		emailService,
		agencyDir,
		sysLogger,
	)

	sessionService := service.NewSessionService(
		uowFactory,
		chatGateway,
		dispatcher,
		publisherService,
		cfg.App.FeedbackTypeIds,
		sysLogger,
	)
	chatService := service.NewChatService(uowFactory, chatGateway, dispatcher, sysLogger)
	userService := service.NewUserService(uowFactory, identityProvider, agencyDir, dispatcher, sysLogger)

	schedulerService := service.NewSchedulerService(
		uowFactory,
		chatGateway,
		identityProvider,
		dispatcher,
		time.Duration(cfg.Scheduler.IntervalMinutes)*time.Minute,
		cfg.Scheduler.RetentionDays,
		sysLogger,
	)

	// 7. Controllers
	sessionController := controller.NewSessionController(sessionService)
	chatController := controller.NewChatController(chatService)
	userController := controller.NewUserController(userService)

	return &Container{
		SessionController: sessionController,
		ChatController:    chatController,
		UserController:    userController,
		ConsumerService:   consumerService,
		SchedulerService:  schedulerService,
		TenantChain:       tenantChain,
		WebSocketHub:      wsHub,
		UowFactory:        uowFactory,
		Logger:            sysLogger,
	}
}
