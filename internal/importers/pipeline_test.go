package importers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/exporters"
)

func setupService(t *testing.T, name string) (*catalog.Service, *[]catalog.Event) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), name), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := catalog.NewService(books.NewRepository(db.DB), nil)
	events := &[]catalog.Event{}
	svc.OnMutation(func(ev catalog.Event) {
		*events = append(*events, ev)
	})
	return svc, events
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVImporter_ImportFile(t *testing.T) {
	t.Run("imports rows and reports skipped ones", func(t *testing.T) {
		svc, events := setupService(t, "import.db")
		dir := t.TempDir()
		writeFile(t, dir, "books.csv", "ID,Title,Author,Year,Price\n"+
			"1,A,Author A,2001,1.00\n"+
			"2,B,Author B,2002,2.00\n"+
			"3,C,Author C,2003\n"+
			"4,D,Author D,2004,4.00\n"+
			"5,E,Author E,2005,5.00\n")

		result, err := NewCSVImporter(svc, dir).ImportFile("books.csv")
		require.NoError(t, err)
		assert.Equal(t, 4, result.Imported)
		assert.Equal(t, []RowError{{Line: 4, Fields: 4}}, result.Skipped)

		stored, err := svc.ListBooks()
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "D", "E"}, titles(stored))

		require.Len(t, *events, 1)
		assert.Equal(t, catalog.EventImportStarted, (*events)[0].Kind)
	})

	t.Run("numeric error inserts nothing", func(t *testing.T) {
		svc, events := setupService(t, "abort.db")
		dir := t.TempDir()
		writeFile(t, dir, "bad.csv", "ID,Title,Author,Year,Price\n"+
			"1,A,Author A,2001,1.00\n"+
			"2,B,Author B,2002,two\n")

		_, err := NewCSVImporter(svc, dir).ImportFile("bad.csv")
		require.Error(t, err)
		assert.Equal(t, catalog.KindInput, catalog.Classify(err))

		stored, err := svc.ListBooks()
		require.NoError(t, err)
		assert.Empty(t, stored)

		// The backup hook still sees the attempt.
		assert.Len(t, *events, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		svc, events := setupService(t, "missing.db")

		_, err := NewCSVImporter(svc, t.TempDir()).ImportFile("nope.csv")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFileNotFound))
		assert.Equal(t, catalog.KindIO, catalog.Classify(err))
		assert.Empty(t, *events)
	})

	t.Run("rejects paths", func(t *testing.T) {
		svc, _ := setupService(t, "paths.db")
		importer := NewCSVImporter(svc, t.TempDir())

		for _, name := range []string{"", "..", "../books.csv", "sub/books.csv", `sub\books.csv`, "/etc/passwd"} {
			_, err := importer.ImportFile(name)
			assert.Equal(t, catalog.KindInput, catalog.Classify(err), "name %q", name)
		}
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	source, _ := setupService(t, "source.db")
	seed := []entities.Book{
		{Title: "Dune", Author: "Herbert", Year: 1965, Price: 45},
		{Title: "Sapiens, A Brief History", Author: "Harari", Year: 2011, Price: 20.5},
		{Title: "Emma", Author: "Austen", Year: 1815, Price: 9.99},
		{Title: "  O Guarani ", Author: " Alencar", Year: 1857, Price: 15},
	}
	for _, b := range seed {
		_, err := source.AddBook(b.Title, b.Author, b.Year, b.Price)
		require.NoError(t, err)
	}

	dir := t.TempDir()
	exported, err := exporters.NewCSVExporter(source, dir, "books_export.csv").ExportAll()
	require.NoError(t, err)
	assert.Equal(t, len(seed), exported.BooksProcessed)

	target, _ := setupService(t, "target.db")
	result, err := NewCSVImporter(target, dir).ImportFile("books_export.csv")
	require.NoError(t, err)
	assert.Equal(t, len(seed), result.Imported)
	assert.Empty(t, result.Skipped)

	stored, err := target.ListBooks()
	require.NoError(t, err)
	require.Len(t, stored, len(seed))
	for i, b := range stored {
		assert.Equal(t, seed[i].Title, b.Title)
		assert.Equal(t, seed[i].Author, b.Author)
		assert.Equal(t, seed[i].Year, b.Year)
		assert.InDelta(t, seed[i].Price, b.Price, 0.001)
	}
}

func TestDuneExample(t *testing.T) {
	svc, _ := setupService(t, "dune.db")

	book, err := svc.AddBook("Dune", "Herbert", 1965, 39.90)
	require.NoError(t, err)
	assert.Equal(t, uint(1), book.ID)

	n, err := svc.UpdatePrice("Dune", 45.00)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	dir := t.TempDir()
	result, err := exporters.NewCSVExporter(svc, dir, "books_export.csv").ExportAll()
	require.NoError(t, err)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "ID,Title,Author,Year,Price\n1,Dune,Herbert,1965,45.00\n", string(data))
}
