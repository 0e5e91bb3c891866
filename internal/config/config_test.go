package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepConfigDefaults(t *testing.T) {
	var c SweepConfig
	assert.Equal(t, "0 4 * * *", c.GetSchedule())
	assert.Equal(t, 16, c.GetBatchSize())

	c = SweepConfig{Schedule: "30 2 * * *", BatchSize: 4}
	assert.Equal(t, "30 2 * * *", c.GetSchedule())
	assert.Equal(t, 4, c.GetBatchSize())
}

func TestGatewayConfigTimeout(t *testing.T) {
	var c GatewayConfig
	assert.Equal(t, 30*time.Second, c.Timeout())

	c.TimeoutSeconds = 5
	assert.Equal(t, 5*time.Second, c.Timeout())
}

func TestPostgresGetDSN(t *testing.T) {
	c := PostgresConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "grouppay",
		DBName:  "grouppay",
		SSLMode: "disable",
	}
	assert.Equal(t,
		"user=grouppay password= dbname=grouppay host=localhost port=5432 sslmode=disable",
		c.GetDSN())
}

func TestPostgresConnMaxLifetimeDefault(t *testing.T) {
	var c PostgresConfig
	assert.Equal(t, 30*time.Minute, c.GetConnMaxLifetime())
}
