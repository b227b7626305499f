// Package books provides database operations for the book catalog.
//
// This package implements the catalog.Repository interface defined in
// internal/catalog/service.go.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	id, err := repo.CreateBook(&entities.Book{Title: "Dune", Author: "Herbert", Year: 1965, Price: 39.90})
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

// ErrBookNotFound is returned when no book has the requested ID.
var ErrBookNotFound = errors.New("book not found")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a book and returns the ID assigned by the store.
// Any ID already set on book is ignored.
func (r *Repository) CreateBook(book *entities.Book) (uint, error) {
	book.ID = 0
	if err := r.db.Create(book).Error; err != nil {
		return 0, fmt.Errorf("failed to insert book: %w", err)
	}
	return book.ID, nil
}

// CreateBooks inserts a batch of books in a single transaction. Either every
// book is stored or none is.
func (r *Repository) CreateBooks(books []entities.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range books {
			books[i].ID = 0
			if err := tx.Create(&books[i]).Error; err != nil {
				return fmt.Errorf("failed to insert %q: %w", books[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(books), nil
}

// GetAllBooks retrieves all books in insertion order.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// GetBooksByAuthor retrieves the books whose author matches exactly.
func (r *Repository) GetBooksByAuthor(author string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("author = ?", author).Order("id ASC").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a single book.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdatePriceByTitle sets the price of every book with exactly this title and
// returns how many books were changed. Zero is not an error.
func (r *Repository) UpdatePriceByTitle(title string, price float64) (int64, error) {
	result := r.db.Model(&entities.Book{}).Where("title = ?", title).Update("price", price)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update price: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteBook removes a book by ID and returns the removed record.
func (r *Repository) DeleteBook(id uint) (*entities.Book, error) {
	book, err := r.GetBookByID(id)
	if err != nil {
		return nil, err
	}

	if err := r.db.Delete(&entities.Book{}, id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete book %d: %w", id, err)
	}
	return book, nil
}
