// Package catalog implements the book catalog operations on top of a
// Repository and notifies registered hooks after every mutation.
package catalog

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/logging"
)

// Repository is the durable store behind the catalog.
type Repository interface {
	CreateBook(book *entities.Book) (uint, error)
	CreateBooks(books []entities.Book) (int, error)
	GetAllBooks() ([]entities.Book, error)
	GetBooksByAuthor(author string) ([]entities.Book, error)
	UpdatePriceByTitle(title string, price float64) (int64, error)
	DeleteBook(id uint) (*entities.Book, error)
}

type EventKind string

const (
	EventBookAdded     EventKind = "book_added"
	EventPriceUpdated  EventKind = "price_updated"
	EventBookDeleted   EventKind = "book_deleted"
	EventImportStarted EventKind = "import_started"
)

// Event describes a catalog mutation. EventImportStarted is delivered before
// any imported row is written; every other kind after the change is stored.
type Event struct {
	Kind     EventKind
	BookID   uint
	Title    string
	Affected int64
}

// Hook observes catalog mutations. Hooks run synchronously in registration
// order and cannot fail the operation that triggered them.
type Hook func(Event)

type Service struct {
	repo  Repository
	hooks []Hook
	log   *logrus.Logger
}

func NewService(repo Repository, log *logrus.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{repo: repo, log: log}
}

// OnMutation registers a hook.
func (s *Service) OnMutation(hook Hook) {
	s.hooks = append(s.hooks, hook)
}

// AddBook stores a new book and returns it with its assigned ID.
func (s *Service) AddBook(title, author string, year int, price float64) (*entities.Book, error) {
	if err := requireText("title", title); err != nil {
		return nil, err
	}
	if err := requireText("author", author); err != nil {
		return nil, err
	}

	book := &entities.Book{Title: title, Author: author, Year: year, Price: price}
	if _, err := s.repo.CreateBook(book); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"book_id": book.ID, "title": book.Title}).Info("book added")
	s.notify(Event{Kind: EventBookAdded, BookID: book.ID, Title: book.Title, Affected: 1})
	return book, nil
}

// ListBooks returns every book in insertion order. An empty catalog yields an
// empty slice and no error.
func (s *Service) ListBooks() ([]entities.Book, error) {
	return s.repo.GetAllBooks()
}

// FindByAuthor returns the books whose author matches exactly.
func (s *Service) FindByAuthor(author string) ([]entities.Book, error) {
	return s.repo.GetBooksByAuthor(author)
}

// UpdatePrice changes the price of every book titled exactly title and
// reports how many were changed. Zero matches still counts as success.
func (s *Service) UpdatePrice(title string, price float64) (int64, error) {
	n, err := s.repo.UpdatePriceByTitle(title, price)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"title": title, "price": price, "matched": n}).Info("price updated")
	s.notify(Event{Kind: EventPriceUpdated, Title: title, Affected: n})
	return n, nil
}

// DeleteBook removes the book with the given ID and returns it. A missing ID
// yields ErrNotFound and nothing is deleted.
func (s *Service) DeleteBook(id uint) (*entities.Book, error) {
	book, err := s.repo.DeleteBook(id)
	if errors.Is(err, books.ErrBookNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"book_id": book.ID, "title": book.Title}).Info("book deleted")
	s.notify(Event{Kind: EventBookDeleted, BookID: book.ID, Title: book.Title, Affected: 1})
	return book, nil
}

// Import announces an import to the hooks, then loads the books and stores
// them in one batch. A load error aborts the import before anything is
// written.
func (s *Service) Import(load func() ([]entities.Book, error)) (int, error) {
	s.notify(Event{Kind: EventImportStarted})

	batch, err := load()
	if err != nil {
		return 0, err
	}

	n, err := s.repo.CreateBooks(batch)
	if err != nil {
		return 0, err
	}

	s.log.WithField("count", n).Info("books imported")
	return n, nil
}

func (s *Service) notify(ev Event) {
	for _, hook := range s.hooks {
		s.runHook(hook, ev)
	}
}

func (s *Service) runHook(hook Hook, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("event", ev.Kind).Errorf("mutation hook panicked: %v", r)
		}
	}()
	hook(ev)
}
