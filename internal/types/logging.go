package types

// LogLevel is the logging level of the application
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunMode is the deployment mode of the application
type RunMode string

const (
	ModeLocal RunMode = "local"
	ModeDev   RunMode = "dev"
	ModeProd  RunMode = "prod"
)
