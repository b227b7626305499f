package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/backup"
	"github.com/mrlokans/bookstore/internal/logging"
)

// BackupRunner takes one backup and applies retention.
type BackupRunner interface {
	Run() (backup.Result, error)
}

// BackupScheduler runs periodic backups alongside the interactive shell.
type BackupScheduler struct {
	runner   BackupRunner
	schedule string
	log      *logrus.Logger

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.RWMutex
	isRunning   bool
	isBackingUp bool
	cancelFunc  context.CancelFunc
}

// NewBackupScheduler creates a scheduler for the given 5-field cron
// schedule. An empty schedule leaves the scheduler disabled.
func NewBackupScheduler(runner BackupRunner, schedule string, log *logrus.Logger) *BackupScheduler {
	if log == nil {
		log = logging.Discard()
	}
	return &BackupScheduler{
		runner:   runner,
		schedule: schedule,
		log:      log,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Enabled reports whether a schedule is configured.
func (s *BackupScheduler) Enabled() bool {
	return s.schedule != ""
}

// Start begins the scheduler if a schedule is configured. Cancelling ctx
// stops it.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.Enabled() {
		s.log.Debug("backup scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runBackup)
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.WithFields(logrus.Fields{
		"schedule":    s.schedule,
		"description": DescribeSchedule(s.schedule),
	}).Info("backup scheduler: started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running backup to complete.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// runBackup takes mu, so wait without holding it.
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	if cancel != nil {
		cancel()
	}

	s.log.Info("backup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next backup will occur, or nil when the
// scheduler is not running.
func (s *BackupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	t := entry.Next
	return &t
}

func (s *BackupScheduler) runBackup() {
	s.mu.Lock()
	if s.isBackingUp {
		s.mu.Unlock()
		s.log.Warn("scheduled backup: skipped (already running)")
		return
	}
	s.isBackingUp = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isBackingUp = false
		s.mu.Unlock()
	}()

	startTime := time.Now()
	result, err := s.runner.Run()
	if err != nil {
		s.log.WithError(err).Error("scheduled backup failed")
		return
	}

	s.log.WithFields(logrus.Fields{
		"path":     result.Path,
		"pruned":   len(result.Pruned),
		"duration": time.Since(startTime).Round(time.Millisecond),
	}).Info("scheduled backup completed")
}
