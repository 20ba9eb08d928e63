package main

import (
	"context"
	"log"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/courieros/courierstack/config"
	"github.com/courieros/courierstack/internal/database"
	"github.com/courieros/courierstack/internal/logger"
	"github.com/courieros/courierstack/internal/repository"
	"github.com/courieros/courierstack/internal/tracing"
	"github.com/courieros/courierstack/server"
	"github.com/courieros/courierstack/services"
)

func main() {
	app := &cli.App{
		Name:  "courierstack",
		Usage: "courier register synchronization and reminder dispatch",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Run database migrations",
				Action: runMigrate,
			},
			{
				Name:   "sync",
				Usage:  "Run one register synchronization pass and exit",
				Action: runSync,
			},
			{
				Name:   "remind",
				Usage:  "Run one reminder dispatch pass and exit",
				Action: runRemind,
			},
			{
				Name:      "remind-one",
				Usage:     "Send a reminder for a single register reference and exit",
				ArgsUsage: "<reference>",
				Action:    runRemindOne,
			},
			{
				Name:   "server",
				Usage:  "Start the application server with scheduled jobs",
				Action: runServer,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initConfigAndDB() (*config.Config, *gorm.DB) {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}
	if cfg == nil {
		log.Fatalf("config is empty")
	}

	courierDB, err := database.InitCourierDatabase(&database.DatabaseConfig{
		DBName:          cfg.CourierDatabaseConfig.DBName,
		Host:            cfg.CourierDatabaseConfig.Host,
		Port:            cfg.CourierDatabaseConfig.Port,
		User:            cfg.CourierDatabaseConfig.User,
		Password:        cfg.CourierDatabaseConfig.Password,
		MaxConn:         cfg.CourierDatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.CourierDatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.CourierDatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.CourierDatabaseConfig.LogLevel,
		SSLMode:         cfg.CourierDatabaseConfig.SSLMode,
	})
	if err != nil {
		log.Fatalf("Courier database initialization failed: %v", err)
	}

	return cfg, courierDB
}

// initServices builds the one-shot command runtime. The returned cleanup
// flushes the tracer.
func initServices(cfg *config.Config, courierDB *gorm.DB) (*services.Services, logger.Logger, func()) {
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		log.Fatalf("Could not initialize jaeger tracer: %s", err.Error())
	}
	opentracing.SetGlobalTracer(tracer)

	repos := repository.InitRepositories(courierDB)
	svcs := services.InitServices(cfg, appLogger, repos)

	cleanup := func() {
		if closer != nil {
			closer.Close()
		}
	}
	return svcs, appLogger, cleanup
}

func runMigrate(c *cli.Context) error {
	cfg, courierDB := initConfigAndDB()

	if err := repository.MigrateCourierDB(cfg.CourierDatabaseConfig, courierDB); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database migration completed successfully")
	return nil
}

func runSync(c *cli.Context) error {
	cfg, courierDB := initConfigAndDB()
	svcs, appLogger, cleanup := initServices(cfg, courierDB)
	defer cleanup()

	rows, err := svcs.SyncService.RunSync(context.Background())
	if err != nil {
		return err
	}
	appLogger.Infof("Register sync completed, %d rows affected", rows)
	return nil
}

func runRemind(c *cli.Context) error {
	cfg, courierDB := initConfigAndDB()
	svcs, appLogger, cleanup := initServices(cfg, courierDB)
	defer cleanup()

	if err := svcs.ReminderService.RunDispatch(context.Background()); err != nil {
		return err
	}
	appLogger.Info("Reminder dispatch completed")
	return nil
}

func runRemindOne(c *cli.Context) error {
	reference := c.Args().First()
	if reference == "" {
		return cli.Exit("Usage: courierstack remind-one <reference>", 1)
	}

	cfg, courierDB := initConfigAndDB()
	svcs, appLogger, cleanup := initServices(cfg, courierDB)
	defer cleanup()

	if err := svcs.ReminderService.SendOne(context.Background(), reference); err != nil {
		return err
	}
	appLogger.Infof("Reminder sent for reference %s", reference)
	return nil
}

func runServer(c *cli.Context) error {
	cfg, courierDB := initConfigAndDB()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("CourierStack starting up...")

	srv, err := server.NewServer(cfg, courierDB)
	if err != nil {
		log.Fatalf("Server setup failed: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server startup failed: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
