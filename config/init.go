package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/courieros/courierstack/internal/logger"
	"github.com/courieros/courierstack/internal/tracing"
)

type Config struct {
	AppConfig             *AppConfig
	Logger                *logger.Config
	Tracing               *tracing.JaegerConfig
	KoboConfig            *KoboConfig
	CourierDatabaseConfig *CourierDatabaseConfig
	SMTPConfig            *SMTPConfig
	ArchiveStorageConfig  *ArchiveStorageConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:             &AppConfig{},
		Logger:                &logger.Config{},
		Tracing:               &tracing.JaegerConfig{},
		KoboConfig:            &KoboConfig{},
		CourierDatabaseConfig: &CourierDatabaseConfig{},
		SMTPConfig:            &SMTPConfig{},
		ArchiveStorageConfig:  &ArchiveStorageConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading courierstack config: %v", err)
	}

	config.AppConfig.Logger = config.Logger
	config.AppConfig.Tracing = config.Tracing

	return config, nil
}
