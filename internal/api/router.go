package api

import (
	"github.com/gin-gonic/gin"
	cronapi "github.com/paymenu/grouppay/internal/api/cron"
	v1 "github.com/paymenu/grouppay/internal/api/v1"
	"github.com/paymenu/grouppay/internal/auth"
	"github.com/paymenu/grouppay/internal/config"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/rest/middleware"
)

type Handlers struct {
	Health     *v1.HealthHandler
	Auth       *v1.AuthHandler
	Group      *v1.GroupHandler
	Recurrence *v1.RecurrenceHandler
	EndUser    *v1.EndUserHandler
	Payment    *v1.PaymentHandler
	Settings   *v1.SettingsHandler
	CronSweep  *cronapi.SweepHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger, authService *auth.Service) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")

	// Token exchange authenticates via the api key header itself
	v1Group.POST("/auth/token", handlers.Auth.Token)

	// The provider posts status notifications without credentials, the
	// transaction ID is the only correlation
	v1Group.POST("/gateway/payments/payment_postback", handlers.Payment.PaymentPostback)

	// External scheduler entrypoints
	cron := v1Group.Group("/cron")
	{
		sweep := cron.Group("/sweep")
		sweep.POST("/expirations", handlers.CronSweep.UpdateChargeExpirations)
		sweep.POST("/notifications", handlers.CronSweep.SendExpirationNotifications)
	}

	private := v1Group.Group("/gateway")
	private.Use(middleware.AuthenticateMiddleware(authService, log))
	registerGatewayRoutes(private, handlers)

	return router
}

func registerGatewayRoutes(router *gin.RouterGroup, handlers Handlers) {
	groups := router.Group("/groups")
	{
		groups.POST("/create_group", handlers.Group.CreateGroup)
		groups.GET("/list_groups", handlers.Group.ListGroups)
		groups.DELETE("/:id", handlers.Group.DeleteGroup)

		groups.POST("/create_recurrence", handlers.Recurrence.CreateRecurrence)
		groups.POST("/edit_recurrence", handlers.Recurrence.EditRecurrence)
		groups.GET("/list_recurrences", handlers.Recurrence.ListRecurrences)
		groups.POST("/assign_recurrence_group", handlers.Group.AssignRecurrence)
		groups.POST("/remove_recurrence_group", handlers.Group.RemoveRecurrence)

		groups.POST("/create_end_user", handlers.EndUser.CreateEndUser)
		groups.GET("/list_end_users", handlers.EndUser.ListEndUsers)
		groups.GET("/list_end_user_charges", handlers.EndUser.ListEndUserCharges)
		groups.POST("/end_users/:id/card", handlers.EndUser.AttachCard)
		groups.POST("/create_charge", handlers.EndUser.CreateCharge)
	}

	payments := router.Group("/payments")
	{
		payments.POST("/pay_invoice", handlers.Payment.PayInvoice)
		payments.POST("/skip_invoice", handlers.Payment.SkipInvoice)
		payments.POST("/force_invoice_amount", handlers.Payment.ForceInvoiceAmount)
		payments.POST("/remove_forced_invoice_amount", handlers.Payment.RemoveForcedInvoiceAmount)
		payments.POST("/close_charge", handlers.Payment.CloseCharge)
		payments.GET("/invoices/:id", handlers.Payment.GetInvoice)
	}

	settings := router.Group("/settings")
	{
		settings.POST("/create_holiday", handlers.Settings.CreateHoliday)
		settings.GET("/list_holidays", handlers.Settings.ListHolidays)
		settings.DELETE("/holidays/:id", handlers.Settings.DeleteHoliday)

		settings.POST("/create_notification", handlers.Settings.CreateNotificationSetting)
		settings.GET("/list_notifications", handlers.Settings.ListNotificationSettings)
		settings.DELETE("/notifications/:id", handlers.Settings.DeleteNotificationSetting)
	}
}
