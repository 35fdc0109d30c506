package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry fully
	// prefixed variable names so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Session store backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendDB     = "db"
)
