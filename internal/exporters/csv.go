package exporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mrlokans/bookstore/internal/entities"
)

// CSVHeader is the first row of every export file.
var CSVHeader = []string{"ID", "Title", "Author", "Year", "Price"}

// CSVExporter writes the whole catalog to a single CSV file inside its
// export directory, replacing any previous export.
type CSVExporter struct {
	reader   BookReader
	dir      string
	fileName string
}

func NewCSVExporter(reader BookReader, dir, fileName string) *CSVExporter {
	return &CSVExporter{reader: reader, dir: dir, fileName: fileName}
}

// Path returns where the export file is written.
func (e *CSVExporter) Path() string {
	return filepath.Join(e.dir, e.fileName)
}

// ExportAll reads every book from the catalog and exports it.
func (e *CSVExporter) ExportAll() (ExportResult, error) {
	books, err := e.reader.ListBooks()
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to read books: %w", err)
	}
	return e.Export(books)
}

// Export writes books to the export file.
func (e *CSVExporter) Export(books []entities.Book) (ExportResult, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	path := e.Path()
	f, err := os.Create(path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export file: %w", err)
	}

	if err := WriteBooksCSV(f, books); err != nil {
		f.Close()
		return ExportResult{}, fmt.Errorf("failed to write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("failed to close export file: %w", err)
	}

	return ExportResult{Path: path, BooksProcessed: len(books)}, nil
}

// WriteBooksCSV writes the header and one row per book. Prices are written
// with two decimal places.
func WriteBooksCSV(w io.Writer, books []entities.Book) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}

	for _, b := range books {
		row := []string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.Title,
			b.Author,
			strconv.Itoa(b.Year),
			b.FormattedPrice(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

var _ BookExporter = (*CSVExporter)(nil)
