package main

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/api"
	croncontrol "github.com/paymenu/grouppay/internal/api/cron"
	v1 "github.com/paymenu/grouppay/internal/api/v1"
	"github.com/paymenu/grouppay/internal/auth"
	"github.com/paymenu/grouppay/internal/cache"
	"github.com/paymenu/grouppay/internal/config"
	"github.com/paymenu/grouppay/internal/domain/account"
	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/enduser"
	"github.com/paymenu/grouppay/internal/domain/group"
	"github.com/paymenu/grouppay/internal/domain/holiday"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/notification"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	"github.com/paymenu/grouppay/internal/domain/scheduledjob"
	"github.com/paymenu/grouppay/internal/email"
	"github.com/paymenu/grouppay/internal/gateway"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/repository"
	"github.com/paymenu/grouppay/internal/service"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/paymenu/grouppay/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// @title GroupPay API
// @version 1.0
// @description Recurring billing gateway
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			providePostgresClient,

			// Payment provider
			gateway.NewClient,

			// Email provider
			email.NewClient,

			// Repositories
			repository.NewAccountRepository,
			repository.NewGroupRepository,
			repository.NewRecurrenceRepository,
			repository.NewEndUserRepository,
			repository.NewChargeRepository,
			repository.NewInvoiceRepository,
			repository.NewHolidayRepository,
			repository.NewNotificationRepository,
			repository.NewScheduledJobRepository,

			// Auth
			auth.NewService,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			provideServiceParams,

			service.NewGroupService,
			service.NewRecurrenceService,
			service.NewEndUserService,
			service.NewChargeService,
			service.NewInvoiceService,
			service.NewHolidayService,
			service.NewNotificationSettingService,
			service.NewNotifier,
			service.NewSweepService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			initValidator,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func initValidator() {
	validator.NewValidator()
}

func providePostgresClient(cfg *config.Configuration, log *logger.Logger) (postgres.IClient, error) {
	return postgres.NewDB(cfg, log)
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	db postgres.IClient,
	c cache.Cache,
	gatewayClient gateway.Client,
	accountRepo account.Repository,
	groupRepo group.Repository,
	recurrenceRepo recurrence.Repository,
	endUserRepo enduser.Repository,
	chargeRepo charge.Repository,
	invoiceRepo invoice.Repository,
	holidayRepo holiday.Repository,
	notificationRepo notification.Repository,
	jobRepo scheduledjob.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		DB:               db,
		AccountRepo:      accountRepo,
		GroupRepo:        groupRepo,
		RecurrenceRepo:   recurrenceRepo,
		EndUserRepo:      endUserRepo,
		ChargeRepo:       chargeRepo,
		InvoiceRepo:      invoiceRepo,
		HolidayRepo:      holidayRepo,
		NotificationRepo: notificationRepo,
		JobRepo:          jobRepo,
		Gateway:          gatewayClient,
		Cache:            c,
	}
}

func provideHandlers(
	logger *logger.Logger,
	authService *auth.Service,
	groupService service.GroupService,
	recurrenceService service.RecurrenceService,
	endUserService service.EndUserService,
	chargeService service.ChargeService,
	invoiceService service.InvoiceService,
	holidayService service.HolidayService,
	notificationService service.NotificationSettingService,
	sweepService service.SweepService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(logger),
		Auth:       v1.NewAuthHandler(authService, logger),
		Group:      v1.NewGroupHandler(groupService, logger),
		Recurrence: v1.NewRecurrenceHandler(recurrenceService, logger),
		EndUser:    v1.NewEndUserHandler(endUserService, chargeService, logger),
		Payment:    v1.NewPaymentHandler(invoiceService, logger),
		Settings:   v1.NewSettingsHandler(holidayService, notificationService, logger),
		CronSweep:  croncontrol.NewSweepHandler(sweepService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, authService *auth.Service) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, authService)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	sweepService service.SweepService,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startSweeper(lc, sweepService, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeSweeper:
		startSweeper(lc, sweepService, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startSweeper(
	lc fx.Lifecycle,
	sweepService service.SweepService,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	scheduler := cron.New()
	schedule := cfg.Sweep.GetSchedule()

	_, err := scheduler.AddFunc(schedule, func() {
		ctx := context.Background()
		if err := sweepService.UpdateChargeExpirations(ctx); err != nil {
			log.Errorw("expiration sweep failed", "error", err)
		}
		if err := sweepService.SendExpirationNotifications(ctx); err != nil {
			log.Errorw("notification sweep failed", "error", err)
		}
	})
	if err != nil {
		log.Fatalf("Invalid sweep schedule %q: %v", schedule, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting sweep scheduler", "schedule", schedule)
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping sweep scheduler...")
			stopCtx := scheduler.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
}
