package cron_config

type Config struct {
	// Register synchronization from the form source, hourly
	CronScheduleRegisterSync string `env:"CRON_SCHEDULE_REGISTER_SYNC" envDefault:"0 0 * * * *"`
	// Reminder dispatch, daily at 07:00
	CronScheduleReminderDispatch string `env:"CRON_SCHEDULE_REMINDER_DISPATCH" envDefault:"0 0 7 * * *"`
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
}
