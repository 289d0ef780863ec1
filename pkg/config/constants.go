package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "STOREFRONT_APP_ENV"
	EnvPort      = "STOREFRONT_APP_PORT"
	EnvDBDSN     = "STOREFRONT_DB_DSN"
	EnvDBHost    = "STOREFRONT_DB_HOST"
	EnvDBUser    = "STOREFRONT_DB_USER"
	EnvDBName    = "STOREFRONT_DB_NAME"
	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvJWTSecret = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer = "STOREFRONT_JWT_ISSUER"

	EnvResetCooldown = "STOREFRONT_IDENTITY_RESET_COOLDOWN"
	EnvSMTPHost      = "STOREFRONT_SMTP_HOST"
	EnvUseSQLite     = "STOREFRONT_USE_SQLITE"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:storefront.db?_foreign_keys=on"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
