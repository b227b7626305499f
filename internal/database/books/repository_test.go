package books

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "books.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewRepository(db)
}

func createBook(t *testing.T, repo *Repository, title, author string, year int, price float64) uint {
	t.Helper()
	id, err := repo.CreateBook(&entities.Book{Title: title, Author: author, Year: year, Price: price})
	require.NoError(t, err)
	return id
}

func TestRepository_CreateAndList(t *testing.T) {
	repo := setupTestRepo(t)

	t.Run("first insert gets id 1 and round-trips", func(t *testing.T) {
		id := createBook(t, repo, "Dune", "Herbert", 1965, 39.90)
		assert.Equal(t, uint(1), id)

		books, err := repo.GetAllBooks()
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, entities.Book{ID: 1, Title: "Dune", Author: "Herbert", Year: 1965, Price: 39.90}, books[0])
	})

	t.Run("preset id is ignored", func(t *testing.T) {
		book := &entities.Book{ID: 99, Title: "Emma", Author: "Austen", Year: 1815, Price: 12.5}
		id, err := repo.CreateBook(book)
		require.NoError(t, err)
		assert.Equal(t, uint(2), id)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		createBook(t, repo, "Anathem", "Stephenson", 2008, 20)

		books, err := repo.GetAllBooks()
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, "Dune", books[0].Title)
		assert.Equal(t, "Emma", books[1].Title)
		assert.Equal(t, "Anathem", books[2].Title)
	})
}

func TestRepository_EmptyList(t *testing.T) {
	repo := setupTestRepo(t)

	books, err := repo.GetAllBooks()
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestRepository_IDsAreNotReused(t *testing.T) {
	repo := setupTestRepo(t)
	createBook(t, repo, "A", "X", 2000, 1)
	second := createBook(t, repo, "B", "X", 2000, 1)

	_, err := repo.DeleteBook(second)
	require.NoError(t, err)

	third := createBook(t, repo, "C", "X", 2000, 1)
	assert.Equal(t, uint(3), third)
}

func TestRepository_GetBooksByAuthor(t *testing.T) {
	repo := setupTestRepo(t)
	createBook(t, repo, "Dune", "Herbert", 1965, 39.90)
	createBook(t, repo, "Emma", "Austen", 1815, 12.5)
	createBook(t, repo, "Dune Messiah", "Herbert", 1969, 25)

	t.Run("exact match", func(t *testing.T) {
		books, err := repo.GetBooksByAuthor("Herbert")
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, "Dune", books[0].Title)
		assert.Equal(t, "Dune Messiah", books[1].Title)
	})

	t.Run("partial or differently cased names do not match", func(t *testing.T) {
		for _, author := range []string{"Herb", "herbert", "Frank Herbert"} {
			books, err := repo.GetBooksByAuthor(author)
			require.NoError(t, err)
			assert.Empty(t, books, author)
		}
	})
}

func TestRepository_UpdatePriceByTitle(t *testing.T) {
	t.Run("no matching title changes nothing", func(t *testing.T) {
		repo := setupTestRepo(t)
		createBook(t, repo, "Dune", "Herbert", 1965, 39.90)

		n, err := repo.UpdatePriceByTitle("Emma", 10)
		require.NoError(t, err)
		assert.Zero(t, n)

		book, err := repo.GetBookByID(1)
		require.NoError(t, err)
		assert.Equal(t, 39.90, book.Price)
	})

	t.Run("single match", func(t *testing.T) {
		repo := setupTestRepo(t)
		createBook(t, repo, "Dune", "Herbert", 1965, 39.90)
		createBook(t, repo, "Emma", "Austen", 1815, 12.5)

		n, err := repo.UpdatePriceByTitle("Dune", 45.00)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		dune, err := repo.GetBookByID(1)
		require.NoError(t, err)
		assert.Equal(t, 45.00, dune.Price)

		emma, err := repo.GetBookByID(2)
		require.NoError(t, err)
		assert.Equal(t, 12.5, emma.Price)
	})

	t.Run("every record sharing the title changes", func(t *testing.T) {
		repo := setupTestRepo(t)
		createBook(t, repo, "Dune", "Herbert", 1965, 39.90)
		createBook(t, repo, "Dune", "Herbert", 1984, 15)
		createBook(t, repo, "Emma", "Austen", 1815, 12.5)

		n, err := repo.UpdatePriceByTitle("Dune", 50)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		books, err := repo.GetAllBooks()
		require.NoError(t, err)
		assert.Equal(t, 50.0, books[0].Price)
		assert.Equal(t, 50.0, books[1].Price)
		assert.Equal(t, 12.5, books[2].Price)
	})
}

func TestRepository_DeleteBook(t *testing.T) {
	repo := setupTestRepo(t)
	createBook(t, repo, "Dune", "Herbert", 1965, 39.90)
	createBook(t, repo, "Emma", "Austen", 1815, 12.5)

	t.Run("missing id leaves store unchanged", func(t *testing.T) {
		book, err := repo.DeleteBook(42)
		assert.ErrorIs(t, err, ErrBookNotFound)
		assert.Nil(t, book)

		books, err := repo.GetAllBooks()
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("returns the removed record", func(t *testing.T) {
		book, err := repo.DeleteBook(1)
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)

		_, err = repo.GetBookByID(1)
		assert.ErrorIs(t, err, ErrBookNotFound)

		books, err := repo.GetAllBooks()
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Emma", books[0].Title)
	})
}

func TestRepository_CreateBooks(t *testing.T) {
	t.Run("inserts the whole batch with fresh ids", func(t *testing.T) {
		repo := setupTestRepo(t)
		createBook(t, repo, "Existing", "Someone", 2000, 1)

		n, err := repo.CreateBooks([]entities.Book{
			{ID: 7, Title: "Dune", Author: "Herbert", Year: 1965, Price: 39.90},
			{ID: 8, Title: "Emma", Author: "Austen", Year: 1815, Price: 12.5},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		books, err := repo.GetAllBooks()
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, uint(2), books[1].ID)
		assert.Equal(t, uint(3), books[2].ID)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo := setupTestRepo(t)
		n, err := repo.CreateBooks(nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

// setupMockRepo returns a repository backed by sqlmock so storage failures
// can be injected. The reported SQLite version predates RETURNING support,
// which keeps inserts as plain Exec calls.
func setupMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.ExpectQuery(regexp.QuoteMeta("select sqlite_version()")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.30.0"))

	db, err := gorm.Open(sqlite.New(sqlite.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewRepository(db), mock
}

func TestRepository_StorageErrors(t *testing.T) {
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}

	t.Run("insert failure is wrapped", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectExec("INSERT INTO `books`").WillReturnError(busy)

		id, err := repo.CreateBook(&entities.Book{Title: "Dune", Author: "Herbert", Year: 1965, Price: 39.90})
		require.Error(t, err)
		assert.Zero(t, id)

		var sqliteErr sqlite3.Error
		assert.True(t, errors.As(err, &sqliteErr))
		assert.Equal(t, sqlite3.ErrBusy, sqliteErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update failure is wrapped", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectExec("UPDATE `books` SET `price`").WillReturnError(busy)

		n, err := repo.UpdatePriceByTitle("Dune", 45)
		require.Error(t, err)
		assert.Zero(t, n)
		assert.Contains(t, err.Error(), "failed to update price")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch insert rolls back on failure", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `books`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO `books`").WillReturnError(busy)
		mock.ExpectRollback()

		n, err := repo.CreateBooks([]entities.Book{
			{Title: "Dune", Author: "Herbert", Year: 1965, Price: 39.90},
			{Title: "Emma", Author: "Austen", Year: 1815, Price: 12.5},
		})
		require.Error(t, err)
		assert.Zero(t, n)
		assert.Contains(t, err.Error(), `"Emma"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
