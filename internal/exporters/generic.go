package exporters

import "github.com/mrlokans/bookstore/internal/entities"

type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

// BookReader supplies the books to export, in store order.
type BookReader interface {
	ListBooks() ([]entities.Book, error)
}

type ExportResult struct {
	Path           string `json:"path"`
	BooksProcessed int    `json:"books_processed"`
}
