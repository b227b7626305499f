package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/backup"
	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/exporters"
	"github.com/mrlokans/bookstore/internal/importers"
	"github.com/mrlokans/bookstore/internal/logging"
	"github.com/mrlokans/bookstore/internal/scheduler"
)

// ShellCommand runs the interactive bookstore menu against the configured
// database. Flags override the environment configuration.
type ShellCommand struct {
	DatabasePath   string
	BackupDir      string
	ExportDir      string
	BackupSchedule string

	In  io.Reader
	Out io.Writer
}

func NewShellCommand() *ShellCommand {
	return &ShellCommand{In: os.Stdin, Out: os.Stdout}
}

func (cmd *ShellCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the database file (default: $DATABASE_PATH or "+config.DefaultDatabasePath+")")
	fs.StringVar(&cmd.BackupDir, "backup-dir", "", "Directory for database backups (default: $BACKUP_DIR or "+config.DefaultBackupDir+")")
	fs.StringVar(&cmd.ExportDir, "export-dir", "", "Directory for CSV export and import (default: $EXPORT_DIR or "+config.DefaultExportDir+")")
	fs.StringVar(&cmd.BackupSchedule, "backup-schedule", "", "Cron schedule for periodic backups, e.g. \"0 * * * *\" (default: $BACKUP_SCHEDULE, disabled)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [shell] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage the book catalog through an interactive menu.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ShellCommand) Run() error {
	cfg := config.NewConfig()
	cmd.applyOverrides(cfg)

	log := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	logging.WithFields(log, logrus.Fields{"session": uuid.New().String()})

	db, err := database.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.WithField("path", cfg.Database.Path).Info("database opened")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cmd.run(ctx, cfg, db, log)
}

func (cmd *ShellCommand) run(ctx context.Context, cfg *config.Config, db *database.Database, log *logrus.Logger) error {
	svc := catalog.NewService(books.NewRepository(db.DB), log)
	manager := backup.NewManager(backup.Config{
		SourcePath: cfg.Database.Path,
		Dir:        cfg.Backup.Dir,
		Retention:  cfg.Backup.Retention,
	}, log)

	shell := NewShell(Services{
		Catalog:  svc,
		Exporter: exporters.NewCSVExporter(svc, cfg.Export.Dir, cfg.Export.FileName),
		Importer: importers.NewCSVImporter(svc, cfg.Export.Dir),
		Backups:  manager,
	}, cmd.In, cmd.Out, log)

	svc.OnMutation(manager.MutationHook(shell.ReportBackup))

	sched := scheduler.NewBackupScheduler(manager, cfg.Backup.Schedule, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	if next := sched.NextRun(); next != nil {
		fmt.Fprintf(cmd.Out, "Periodic backups enabled (%s). Next run: %s\n",
			scheduler.DescribeSchedule(cfg.Backup.Schedule), next.Format("2006-01-02 15:04"))
	}

	done := make(chan error, 1)
	go func() {
		done <- shell.Run(ctx)
	}()

	return cmd.wait(ctx, done, shutdownGrace)
}

// shutdownGrace bounds how long an interrupted session waits for the command
// in progress before the database is closed.
const shutdownGrace = 5 * time.Second

// wait returns the shell's result. After an interrupt it still waits up to
// grace for the running command to finish, so that no write is cut off by
// closing the database. A shell blocked on input does not finish and is
// abandoned when grace expires.
func (cmd *ShellCommand) wait(ctx context.Context, done <-chan error, grace time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(cmd.Out, "\nInterrupted, closing the database.")

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return nil
	}
}

func (cmd *ShellCommand) applyOverrides(cfg *config.Config) {
	if cmd.DatabasePath != "" {
		cfg.Database.Path = cmd.DatabasePath
	}
	if cmd.BackupDir != "" {
		cfg.Backup.Dir = cmd.BackupDir
	}
	if cmd.ExportDir != "" {
		cfg.Export.Dir = cmd.ExportDir
	}
	if cmd.BackupSchedule != "" {
		cfg.Backup.Schedule = cmd.BackupSchedule
	}
}
