package cron

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"

	"github.com/courieros/courierstack/config"
	cron_config "github.com/courieros/courierstack/internal/cron/config"
	"github.com/courieros/courierstack/internal/logger"
	"github.com/courieros/courierstack/internal/tracing"
	"github.com/courieros/courierstack/services"
)

// CONSTANTS
const (
	// GroupCourier is the group for courier register jobs
	GroupCourier = "courier"

	// LeaseDuration is how long a lease lasts before needing renewal
	LeaseDuration = 15 * time.Second
	// RenewDeadline is how long a leader has to renew its lease
	RenewDeadline = 10 * time.Second
	// RetryPeriod is how long to wait between leadership attempts
	RetryPeriod = 2 * time.Second
)

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupCourier: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg      *config.Config
	log      logger.Logger
	cron     *cronv3.Cron
	k8s      kubernetes.Interface
	stopCh   chan struct{}
	stopOnce sync.Once
	jobIDs   map[string]cronv3.EntryID
	services *services.Services
}

func NewCronManager(cfg *config.Config, log logger.Logger, k8s kubernetes.Interface, svcs *services.Services) *CronManager {
	return &CronManager{
		cfg:      cfg,
		log:      log,
		k8s:      k8s,
		stopCh:   make(chan struct{}),
		jobIDs:   make(map[string]cronv3.EntryID),
		services: svcs,
	}
}

// Start initializes and starts the cron manager with leader election
// If k8s is nil, it will start in local mode without leader election
func (cm *CronManager) Start(podName, namespace string) error {
	// If k8s client is nil or we're in local development, start in local mode
	if cm.k8s == nil || os.Getenv("LOCAL_DEV") == "true" {
		cm.log.Info("Starting cron manager in local mode")
		cm.StartCron()
		return nil
	}

	// Create the leader election lock
	lock := &resourcelock.LeaseLock{
		LeaseMeta: metav1.ObjectMeta{
			Name:      "courierstack-cron-leader",
			Namespace: namespace,
		},
		Client: cm.k8s.CoordinationV1(),
		LockConfig: resourcelock.ResourceLockConfig{
			Identity: podName,
		},
	}

	// Channel to track leader election errors
	errCh := make(chan error, 1)

	// Start leader election
	go func() {
		le, err := leaderelection.NewLeaderElector(leaderelection.LeaderElectionConfig{
			Lock:            lock,
			ReleaseOnCancel: true,
			LeaseDuration:   LeaseDuration,
			RenewDeadline:   RenewDeadline,
			RetryPeriod:     RetryPeriod,
			Callbacks: leaderelection.LeaderCallbacks{
				OnStartedLeading: func(ctx context.Context) {
					cm.StartCron()
				},
				OnStoppedLeading: func() {
					cm.log.Info("Leader lost - stopping crons")
					cm.Stop()
				},
				OnNewLeader: func(identity string) {
					cm.log.Infof("New leader elected: %s", identity)
				},
			},
		})
		if err != nil {
			errCh <- err
			return
		}

		ctx := context.Background()
		le.Run(ctx)
	}()

	// Wait briefly to see if leader election fails immediately
	select {
	case err := <-errCh:
		cm.log.Warnf("Leader election failed, falling back to local mode: %v", err)
		cm.StartCron()
	case <-time.After(5 * time.Second):
		// Leader election seems to be working, continue normally
	}

	return nil
}

// Stop gracefully stops the cron manager. Safe to call more than once: losing
// leadership stops the crons, and server shutdown stops them again.
func (cm *CronManager) Stop() {
	cm.stopOnce.Do(func() {
		if cm.cron != nil {
			cm.log.Info("Stopping cron manager")
			ctx := cm.cron.Stop()
			// Wait for jobs to finish
			<-ctx.Done()
		}
		close(cm.stopCh)
	})
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	// Load cron config from environment variables
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	// Register heartbeat job
	if cronConfig.CronScheduleHeartbeat != "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from pod: %s", podName)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	// Register register-sync job
	if cronConfig.CronScheduleRegisterSync != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleRegisterSync, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupCourier].Lock()
			defer jobLocks.locks[GroupCourier].Unlock()
			cm.runRegisterSync()
		})
		if err != nil {
			cm.log.Fatalf("Could not add register sync cron job: %v", err)
		}
		cm.jobIDs["register_sync"] = id
		cm.log.Infof("Registered register sync job with schedule: %s", cronConfig.CronScheduleRegisterSync)
	}

	// Register reminder-dispatch job
	if cronConfig.CronScheduleReminderDispatch != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleReminderDispatch, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupCourier].Lock()
			defer jobLocks.locks[GroupCourier].Unlock()
			cm.runReminderDispatch()
		})
		if err != nil {
			cm.log.Fatalf("Could not add reminder dispatch cron job: %v", err)
		}
		cm.jobIDs["reminder_dispatch"] = id
		cm.log.Infof("Registered reminder dispatch job with schedule: %s", cronConfig.CronScheduleReminderDispatch)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	// Create a new cron with seconds field enabled and panic recovery
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

func (cm *CronManager) runRegisterSync() {
	cm.log.Info("Running scheduled register sync")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.runRegisterSync")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	rows, err := cm.services.SyncService.RunSync(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Scheduled register sync failed: %v", err)
		return
	}

	cm.log.Infof("Scheduled register sync completed, %d rows affected", rows)
}

func (cm *CronManager) runReminderDispatch() {
	cm.log.Info("Running scheduled reminder dispatch")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.runReminderDispatch")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	if err := cm.services.ReminderService.RunDispatch(ctx); err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Scheduled reminder dispatch failed: %v", err)
		return
	}

	cm.log.Info("Scheduled reminder dispatch completed")
}
