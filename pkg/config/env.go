package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix mostly documents intent.
const EnvPrefix = "GEARBOX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv          = "GEARBOX_APP_ENV"
	EnvPort            = "GEARBOX_APP_PORT"
	EnvDBDSN           = "GEARBOX_DB_DSN"
	EnvDBHost          = "GEARBOX_DB_HOST"
	EnvDBUser          = "GEARBOX_DB_USER"
	EnvDBName          = "GEARBOX_DB_NAME"
	EnvRedisURL        = "GEARBOX_REDIS_URL"
	EnvSessionKeyFile  = "GEARBOX_SESSION_KEY_FILE"
	EnvSessionIssuer   = "GEARBOX_SESSION_ISSUER"
	EnvVehiclesCSV     = "GEARBOX_SEED_VEHICLES_CSV"
	EnvBrandsFile      = "GEARBOX_SEED_BRANDS_FILE"
	EnvPartTypesFile   = "GEARBOX_SEED_PART_TYPES_FILE"
	EnvAdminEmailsFile = "GEARBOX_ADMIN_EMAILS_FILE"
	EnvAnthropicAPIKey = "GEARBOX_ANTHROPIC_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
