package importers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/entities"
)

// ErrFileNotFound is returned when the requested import file does not exist
// in the export directory. It is joined with the underlying fs error.
var ErrFileNotFound = errors.New("import file not found")

// BookImporter persists a parsed batch. catalog.Service implements it and
// fires its import hooks before load is called.
type BookImporter interface {
	Import(load func() ([]entities.Book, error)) (int, error)
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  []RowError `json:"skipped"`
}

// CSVImporter reads import files from a single directory.
type CSVImporter struct {
	importer BookImporter
	dir      string
}

func NewCSVImporter(importer BookImporter, dir string) *CSVImporter {
	return &CSVImporter{importer: importer, dir: dir}
}

// ImportFile imports the named file from the importer's directory. Only bare
// file names are accepted.
func (i *CSVImporter) ImportFile(name string) (ImportResult, error) {
	path, err := i.resolve(name)
	if err != nil {
		return ImportResult{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ImportResult{}, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return ImportResult{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	var skipped []RowError
	n, err := i.importer.Import(func() ([]entities.Book, error) {
		books, rowErrs, err := ParseBooksCSV(f)
		skipped = rowErrs
		return books, err
	})
	if err != nil {
		return ImportResult{Skipped: skipped}, fmt.Errorf("import of %s aborted: %w", name, err)
	}

	return ImportResult{Imported: n, Skipped: skipped}, nil
}

func (i *CSVImporter) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", &catalog.InputError{Field: "file name", Message: "must not be empty"}
	case name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return "", &catalog.InputError{Field: "file name", Value: name, Message: "must be a plain file name"}
	}
	return filepath.Join(i.dir, name), nil
}
