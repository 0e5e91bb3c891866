package types

type RunMode string

const (
	// ModeLocal runs the API server and the in-process daily sweeper together
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server; sweeps are triggered via the cron endpoints
	ModeAPI RunMode = "api"
	// ModeSweeper runs just the scheduled sweep loop
	ModeSweeper RunMode = "sweeper"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
