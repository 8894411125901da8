package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "TEAMOPS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "TEAMOPS_APP_ENV"
	EnvPort       = "TEAMOPS_APP_PORT"
	EnvDBDSN      = "TEAMOPS_DB_DSN"
	EnvDBHost     = "TEAMOPS_DB_HOST"
	EnvDBUser     = "TEAMOPS_DB_USER"
	EnvDBName     = "TEAMOPS_DB_NAME"
	EnvRedisURL   = "TEAMOPS_REDIS_URL"
	EnvJWTSecret  = "TEAMOPS_JWT_SECRET"
	EnvJWTIssuer  = "TEAMOPS_JWT_ISSUER"
	EnvJWTExpMins = "TEAMOPS_JWT_EXPIRATION_MINUTES"
	EnvGCSBucket  = "TEAMOPS_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
