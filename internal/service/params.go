package service

import (
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
	"github.com/paymenu/grouppay/internal/gateway"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	AccountRepo      account.Repository
	GroupRepo        group.Repository
	RecurrenceRepo   recurrence.Repository
	EndUserRepo      enduser.Repository
	ChargeRepo       charge.Repository
	InvoiceRepo      invoice.Repository
	HolidayRepo      holiday.Repository
	NotificationRepo notification.Repository
	JobRepo          scheduledjob.Repository

	// Collaborators
	Gateway gateway.Client
	Cache   cache.Cache
}
