package config

import (
	"github.com/courieros/courierstack/internal/logger"
	"github.com/courieros/courierstack/internal/tracing"
)

type AppConfig struct {
	APIPort string `env:"PORT" envDefault:"12333"`
	// ActionBaseURL is the public base URL embedded in reminder bodies as the
	// self-service "mark as treated" link.
	ActionBaseURL string `env:"ACTION_BASE_URL,required"`
	Logger        *logger.Config
	Tracing       *tracing.JaegerConfig
}

type KoboConfig struct {
	BaseURL  string `env:"KOBO_BASE_URL,required"`
	APIToken string `env:"KOBO_API_TOKEN,required"`
	FormUID  string `env:"KOBO_FORM_UID,required"`
}

type CourierDatabaseConfig struct {
	Host            string `env:"COURIER_POSTGRES_HOST,required"`
	Port            string `env:"COURIER_POSTGRES_PORT,required"`
	User            string `env:"COURIER_POSTGRES_USER,required"`
	DBName          string `env:"COURIER_POSTGRES_DB_NAME,required"`
	Password        string `env:"COURIER_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"COURIER_POSTGRES_DB_MAX_CONN"`
	MaxIdleConn     int    `env:"COURIER_POSTGRES_DB_MAX_IDLE_CONN"`
	ConnMaxLifetime int    `env:"COURIER_POSTGRES_DB_CONN_MAX_LIFETIME"`
	LogLevel        string `env:"COURIER_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"COURIER_POSTGRES_SSL_MODE" envDefault:"require"`
}

type SMTPConfig struct {
	Host        string `env:"SMTP_HOST,required"`
	Port        int    `env:"SMTP_PORT" envDefault:"587"`
	Username    string `env:"SMTP_USERNAME,required"`
	Password    string `env:"SMTP_PASSWORD,required"`
	FromAddress string `env:"SMTP_FROM_ADDRESS,required"`
}

// ArchiveStorageConfig configures the optional raw-payload audit archive.
// Archival is skipped entirely when the bucket is left empty.
type ArchiveStorageConfig struct {
	Region          string `env:"ARCHIVE_AWS_REGION" envDefault:"eu-west-1"`
	AccessKeyID     string `env:"ARCHIVE_AWS_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"ARCHIVE_AWS_ACCESS_KEY_SECRET"`
	Bucket          string `env:"ARCHIVE_BUCKET_NAME"`
}
