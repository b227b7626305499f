// Command generate_demo creates a demo catalog with public domain books and
// exports it to CSV.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db] [-export-dir path]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/exporters"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	defaultDemoExportDir    = "./demo/exports"
)

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	exportDir := flag.String("export-dir", defaultDemoExportDir, "directory for the demo CSV export")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	result, err := generate(*dbPath, *exportDir)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Exported %d books to %s", result.BooksProcessed, result.Path)
	log.Println("Demo database generated successfully!")
}

// generate recreates the demo database at dbPath, fills it with demoBooks and
// exports it to exportDir.
func generate(dbPath, exportDir string) (exporters.ExportResult, error) {
	// Delete existing demo database to start fresh
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return exporters.ExportResult{}, fmt.Errorf("failed to remove existing demo database: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return exporters.ExportResult{}, fmt.Errorf("failed to create demo database directory: %w", err)
	}

	db, err := database.NewDatabase(dbPath, nil)
	if err != nil {
		return exporters.ExportResult{}, fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	svc := catalog.NewService(books.NewRepository(db.DB), nil)

	for _, b := range demoBooks() {
		saved, err := svc.AddBook(b.Title, b.Author, b.Year, b.Price)
		if err != nil {
			log.Printf("Failed to save book %s: %v", b.Title, err)
			continue
		}
		log.Printf("Saved: #%d %s by %s (%d)", saved.ID, saved.Title, saved.Author, saved.Year)
	}

	exporter := exporters.NewCSVExporter(svc, exportDir, config.DefaultExportFileName)
	result, err := exporter.ExportAll()
	if err != nil {
		return exporters.ExportResult{}, fmt.Errorf("failed to export demo catalog: %w", err)
	}
	return result, nil
}

func demoBooks() []entities.Book {
	return []entities.Book{
		{Title: "Meditations", Author: "Marcus Aurelius", Year: 180, Price: 9.99},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813, Price: 12.50},
		{Title: "Emma", Author: "Jane Austen", Year: 1815, Price: 11.00},
		{Title: "Moby-Dick", Author: "Herman Melville", Year: 1851, Price: 15.75},
		{Title: "On the Origin of Species", Author: "Charles Darwin", Year: 1859, Price: 18.20},
		{Title: "Alice's Adventures in Wonderland", Author: "Lewis Carroll", Year: 1865, Price: 8.40},
		{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Year: 1866, Price: 14.90},
		{Title: "The Adventures of Sherlock Holmes", Author: "Arthur Conan Doyle", Year: 1892, Price: 10.00},
		{Title: "The Time Machine", Author: "H. G. Wells", Year: 1895, Price: 7.25},
		{Title: "The War of the Worlds", Author: "H. G. Wells", Year: 1898, Price: 7.25},
	}
}
