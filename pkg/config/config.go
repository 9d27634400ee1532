package config

// Config is the root configuration, populated from the environment.
type Config struct {
	App  AppConfig
	Mail MailConfig
	// Routing maps message ids ("{category}_{key}"), categories, or the
	// "default-system" entry to backend strategy names.
	Routing map[string]string `env:"MAIL_ROUTING" envSeparator:"," envKeyValSeparator:":"`
	Redis   RedisConfig
	SQS     SQSConfig
}

// AppConfig identifies the site the mail is composed for.
type AppConfig struct {
	Name string `env:"APP_NAME" envDefault:"mailflow"`
	// BaseURL is the absolute site URL without a trailing slash, used to
	// absolutize link footnotes.
	BaseURL string `env:"APP_URL"`
	// BasePath is the path prefix site-local links start with.
	BasePath string `env:"APP_BASE_PATH" envDefault:"/"`
}

// MailConfig holds sender defaults and SMTP transport settings.
type MailConfig struct {
	// SiteMail is the site-wide sender address; FromAddress is the
	// fallback when it is unset.
	SiteMail    string `env:"MAIL_SITE_ADDRESS"`
	FromAddress string `env:"MAIL_FROM_ADDRESS"`
	FromName    string `env:"MAIL_FROM_NAME"`

	Host       string `env:"MAIL_HOST"`
	Port       string `env:"MAIL_PORT" envDefault:"587"`
	Username   string `env:"MAIL_USERNAME"`
	Password   string `env:"MAIL_PASSWORD"`
	Encryption string `env:"MAIL_ENCRYPTION"` // "ssl" for implicit TLS

	// ResendKey enables the "resend" backend strategy.
	ResendKey string `env:"RESEND_API_KEY"`

	// SpoolKey is the Redis list the "spool" strategy pushes to.
	SpoolKey string `env:"MAIL_SPOOL_KEY" envDefault:"mail:spool"`
}

// RedisConfig holds configuration for the Redis connection backing the
// spool and the scheduler lock.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// SQSConfig holds configuration for the SQS connection backing the
// "sqs-spool" strategy.
type SQSConfig struct {
	Region   string `env:"SQS_REGION"`
	QueueUrl string `env:"SQS_QUEUE_URL"`
	Profile  string `env:"SQS_PROFILE"` // Optional AWS profile
}
