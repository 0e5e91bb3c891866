package testutil

import (
	"context"
	"time"

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
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/postgres"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/paymenu/grouppay/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	AccountRepo      account.Repository
	GroupRepo        group.Repository
	RecurrenceRepo   recurrence.Repository
	EndUserRepo      enduser.Repository
	ChargeRepo       charge.Repository
	InvoiceRepo      invoice.Repository
	HolidayRepo      holiday.Repository
	NotificationRepo notification.Repository
	JobRepo          scheduledjob.Repository
}

// BaseServiceTestSuite provides common functionality for all service test
// suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	gateway *MockGatewayClient
	db      postgres.IClient
	cache   cache.Cache
	logger  *logger.Logger
	config  *config.Configuration
	now     time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	validator.NewValidator()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		AccountRepo:      NewInMemoryAccountStore(),
		GroupRepo:        NewInMemoryGroupStore(),
		RecurrenceRepo:   NewInMemoryRecurrenceStore(),
		EndUserRepo:      NewInMemoryEndUserStore(),
		ChargeRepo:       NewInMemoryChargeStore(),
		InvoiceRepo:      NewInMemoryInvoiceStore(),
		HolidayRepo:      NewInMemoryHolidayStore(),
		NotificationRepo: NewInMemoryNotificationStore(),
		JobRepo:          NewInMemoryScheduledJobStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.gateway = NewMockGatewayClient()
	s.cache = cache.NewInMemoryCache()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.AccountRepo.(*InMemoryAccountStore).Clear()
	s.stores.GroupRepo.(*InMemoryGroupStore).Clear()
	s.stores.RecurrenceRepo.(*InMemoryRecurrenceStore).Clear()
	s.stores.EndUserRepo.(*InMemoryEndUserStore).Clear()
	s.stores.ChargeRepo.(*InMemoryChargeStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.HolidayRepo.(*InMemoryHolidayStore).Clear()
	s.stores.NotificationRepo.(*InMemoryNotificationStore).Clear()
	s.stores.JobRepo.(*InMemoryScheduledJobStore).Clear()
	s.gateway.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetGateway returns the mock payment provider
func (s *BaseServiceTestSuite) GetGateway() *MockGatewayClient {
	return s.gateway
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
