package config

// Default locations, relative to the working directory
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./bookstore.db"

	// DefaultBackupDir is where timestamped database copies are written
	DefaultBackupDir = "./backups"

	// DefaultBackupRetention is how many backups are kept after pruning
	DefaultBackupRetention = 5

	// DefaultExportDir holds export files and is the lookup directory for imports
	DefaultExportDir = "./exports"

	// DefaultExportFileName is the fixed name of the export file
	DefaultExportFileName = "books_export.csv"
)
