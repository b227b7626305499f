package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Backup
		Export
		Log
	}

	Database struct {
		Path string
	}
	Backup struct {
		Dir       string
		Retention int    // Number of backups kept after each backup (default: 5)
		Schedule  string // Cron format, empty disables periodic backups
	}
	Export struct {
		Dir      string
		FileName string
	}
	Log struct {
		Level  string // trace, debug, info, warn, error
		Format string // "text" or "json"
		File   string // Optional log file, rotated by size
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("backup_retention", DefaultBackupRetention)
	v.SetDefault("backup_schedule", "")
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("export_file_name", DefaultExportFileName)

	// Logging stays quiet by default so it does not interleave with the menu
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")

	cfg := &Config{
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Backup: Backup{
			Dir:       v.GetString("BACKUP_DIR"),
			Retention: v.GetInt("BACKUP_RETENTION"),
			Schedule:  v.GetString("BACKUP_SCHEDULE"),
		},
		Export: Export{
			Dir:      v.GetString("EXPORT_DIR"),
			FileName: v.GetString("EXPORT_FILE_NAME"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			File:   v.GetString("LOG_FILE"),
		},
	}

	if cfg.Backup.Retention < 1 {
		cfg.Backup.Retention = DefaultBackupRetention
	}

	return cfg
}
