package service

import (
	"github.com/paymenu/grouppay/internal/testutil"
)

// newTestParams wires the common service dependencies from a base suite
func newTestParams(base *testutil.BaseServiceTestSuite) ServiceParams {
	stores := base.GetStores()
	return ServiceParams{
		Logger:           base.GetLogger(),
		Config:           base.GetConfig(),
		DB:               base.GetDB(),
		AccountRepo:      stores.AccountRepo,
		GroupRepo:        stores.GroupRepo,
		RecurrenceRepo:   stores.RecurrenceRepo,
		EndUserRepo:      stores.EndUserRepo,
		ChargeRepo:       stores.ChargeRepo,
		InvoiceRepo:      stores.InvoiceRepo,
		HolidayRepo:      stores.HolidayRepo,
		NotificationRepo: stores.NotificationRepo,
		JobRepo:          stores.JobRepo,
		Gateway:          base.GetGateway(),
		Cache:            base.GetCache(),
	}
}
