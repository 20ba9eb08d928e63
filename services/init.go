package services

import (
	"github.com/courieros/courierstack/config"
	"github.com/courieros/courierstack/interfaces"
	"github.com/courieros/courierstack/internal/logger"
	"github.com/courieros/courierstack/internal/normalize"
	"github.com/courieros/courierstack/internal/repository"
	"github.com/courieros/courierstack/services/kobo"
	"github.com/courieros/courierstack/services/reminder"
	"github.com/courieros/courierstack/services/smtp"
	"github.com/courieros/courierstack/services/storage"
	syncservice "github.com/courieros/courierstack/services/sync"
)

type Services struct {
	FormSource      interfaces.FormSource
	SMTPService     interfaces.SMTPService
	ArchiveStorage  interfaces.ArchiveStorage
	SyncService     interfaces.SyncService
	ReminderService interfaces.ReminderService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) *Services {
	normalizer := normalize.NewNormalizer(normalize.DefaultTables())

	formSource := kobo.NewKoboService(cfg.KoboConfig)
	smtpService := smtp.NewSMTPService(cfg.SMTPConfig)
	archiveStorage := storage.NewArchiveStorageService(cfg.ArchiveStorageConfig)

	return &Services{
		FormSource:      formSource,
		SMTPService:     smtpService,
		ArchiveStorage:  archiveStorage,
		SyncService:     syncservice.NewSyncService(log, formSource, repos, normalizer, archiveStorage),
		ReminderService: reminder.NewReminderService(log, repos, smtpService, cfg.AppConfig, cfg.SMTPConfig),
	}
}
