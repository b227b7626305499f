package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookstore/internal/backup"
	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/cli"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/exporters"
	"github.com/mrlokans/bookstore/internal/importers"
	"github.com/mrlokans/bookstore/internal/scheduler"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Catalog store
var _ catalog.Repository = (*books.Repository)(nil)

// =============================================================================
// Services
// =============================================================================

// BookReader/BookImporter implementations
var _ exporters.BookReader = (*catalog.Service)(nil)
var _ importers.BookImporter = (*catalog.Service)(nil)

// Backup runners
var _ scheduler.BackupRunner = (*backup.Manager)(nil)

// =============================================================================
// Interactive Shell
// =============================================================================

var _ cli.Catalog = (*catalog.Service)(nil)
var _ cli.Exporter = (*exporters.CSVExporter)(nil)
var _ cli.Importer = (*importers.CSVImporter)(nil)
var _ cli.Backups = (*backup.Manager)(nil)
