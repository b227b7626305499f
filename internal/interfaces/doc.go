// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.Repository: durable book storage (internal/catalog/service.go),
//     implemented by books.Repository
//
// ## Catalog Consumers
//
//   - exporters.BookReader: books to export (internal/exporters/generic.go)
//   - exporters.BookExporter: writes a batch of books somewhere (internal/exporters/generic.go)
//   - importers.BookImporter: persists a parsed batch (internal/importers/pipeline.go)
//   - cli.Catalog, cli.Exporter, cli.Importer, cli.Backups: what the menu drives
//     (internal/cli/shell.go)
//
// ## Mutation Observers
//
//   - catalog.Hook: called after every insert, update and delete and before an
//     import. backup.Manager.MutationHook builds the hook that takes a backup.
//   - scheduler.BackupRunner: periodic backups (internal/scheduler/backup.go)
//
// # Adding a New Export Format
//
//  1. Implement BookExporter in internal/exporters/
//
//     type JSONExporter struct {
//         reader BookReader
//         path   string
//     }
//
//     func (e *JSONExporter) Export(books []entities.Book) (ExportResult, error)
//
//     var _ BookExporter = (*JSONExporter)(nil)
//
//  2. Add a Command to internal/cli/commands.go and register its handler in
//     NewShell
//
// # Adding a New Mutation Observer
//
// Register a hook on the catalog service when the shell is assembled:
//
//	svc.OnMutation(func(ev catalog.Event) {
//	    log.WithField("kind", ev.Kind).Info("catalog changed")
//	})
//
// Hooks run synchronously; a panic inside a hook is recovered and logged.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
