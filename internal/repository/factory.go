package repository

import (
	"github.com/paymenu/grouppay/internal/domain/account"
	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/enduser"
	"github.com/paymenu/grouppay/internal/domain/group"
	"github.com/paymenu/grouppay/internal/domain/holiday"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/notification"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	"github.com/paymenu/grouppay/internal/domain/scheduledjob"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	postgresRepo "github.com/paymenu/grouppay/internal/repository/postgres"
)

func NewAccountRepository(db postgres.IClient, logger *logger.Logger) account.Repository {
	return postgresRepo.NewAccountRepository(db, logger)
}

func NewGroupRepository(db postgres.IClient, logger *logger.Logger) group.Repository {
	return postgresRepo.NewGroupRepository(db, logger)
}

func NewRecurrenceRepository(db postgres.IClient, logger *logger.Logger) recurrence.Repository {
	return postgresRepo.NewRecurrenceRepository(db, logger)
}

func NewEndUserRepository(db postgres.IClient, logger *logger.Logger) enduser.Repository {
	return postgresRepo.NewEndUserRepository(db, logger)
}

func NewChargeRepository(db postgres.IClient, logger *logger.Logger) charge.Repository {
	return postgresRepo.NewChargeRepository(db, logger)
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewHolidayRepository(db postgres.IClient, logger *logger.Logger) holiday.Repository {
	return postgresRepo.NewHolidayRepository(db, logger)
}

func NewNotificationRepository(db postgres.IClient, logger *logger.Logger) notification.Repository {
	return postgresRepo.NewNotificationRepository(db, logger)
}

func NewScheduledJobRepository(db postgres.IClient, logger *logger.Logger) scheduledjob.Repository {
	return postgresRepo.NewScheduledJobRepository(db, logger)
}
