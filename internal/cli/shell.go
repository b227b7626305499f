package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/backup"
	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/exporters"
	"github.com/mrlokans/bookstore/internal/importers"
	"github.com/mrlokans/bookstore/internal/logging"
)

// Catalog is the subset of catalog.Service the shell drives.
type Catalog interface {
	AddBook(title, author string, year int, price float64) (*entities.Book, error)
	ListBooks() ([]entities.Book, error)
	FindByAuthor(author string) ([]entities.Book, error)
	UpdatePrice(title string, price float64) (int64, error)
	DeleteBook(id uint) (*entities.Book, error)
}

type Exporter interface {
	ExportAll() (exporters.ExportResult, error)
}

type Importer interface {
	ImportFile(name string) (importers.ImportResult, error)
}

type Backups interface {
	Run() (backup.Result, error)
	List() ([]backup.Info, error)
	Retention() int
}

// Services groups the components the menu options operate on.
type Services struct {
	Catalog  Catalog
	Exporter Exporter
	Importer Importer
	Backups  Backups
}

// errExit ends the loop without being reported.
var errExit = errors.New("exit")

type handler func() error

// Shell is the interactive menu loop.
type Shell struct {
	services Services
	in       *bufio.Scanner
	out      io.Writer
	log      *logrus.Logger
	handlers map[Command]handler

	success *color.Color
	info    *color.Color
	failure *color.Color
	heading *color.Color
}

func NewShell(services Services, in io.Reader, out io.Writer, log *logrus.Logger) *Shell {
	if log == nil {
		log = logging.Discard()
	}
	s := &Shell{
		services: services,
		in:       bufio.NewScanner(in),
		out:      out,
		log:      log,
		success:  color.New(color.FgGreen),
		info:     color.New(color.FgYellow),
		failure:  color.New(color.FgRed),
		heading:  color.New(color.Bold),
	}
	s.handlers = map[Command]handler{
		CommandAdd:          s.addBook,
		CommandListAll:      s.listBooks,
		CommandUpdatePrice:  s.updatePrice,
		CommandDelete:       s.deleteBook,
		CommandSearchAuthor: s.searchAuthor,
		CommandExport:       s.exportCSV,
		CommandImport:       s.importCSV,
		CommandBackup:       s.backupNow,
		CommandExit:         s.exit,
	}
	return s
}

// Run shows the menu and dispatches options until the user exits, the input
// ends, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		s.printMenu()
		line, err := s.prompt("Option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		cmd, ok := ParseCommand(line)
		if !ok {
			s.info.Fprintln(s.out, "Invalid option, please try again.")
			continue
		}

		if err := s.dispatch(cmd); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// ReportBackup prints the outcome of a backup triggered by a catalog
// mutation. It matches the report callback of backup.Manager.MutationHook.
func (s *Shell) ReportBackup(ev catalog.Event, result backup.Result, err error) {
	if err != nil {
		s.failure.Fprintf(s.out, "Backup after %s failed: %v\n", ev.Kind, err)
		return
	}
	s.info.Fprintf(s.out, "Backup created: %s\n", result.Path)
	if len(result.Pruned) > 0 {
		s.info.Fprintf(s.out, "Removed %d old backup(s), keeping the %d most recent.\n",
			len(result.Pruned), s.services.Backups.Retention())
	}
}

// dispatch runs one handler behind a recover boundary. Only input errors
// such as EOF are returned; everything else is reported.
func (s *Shell) dispatch(cmd Command) (err error) {
	h, ok := s.handlers[cmd]
	if !ok {
		s.info.Fprintln(s.out, "Invalid option, please try again.")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("command", cmd.String()).Errorf("handler panicked: %v", r)
			s.failure.Fprintf(s.out, "Unexpected error: %v\n", r)
			err = nil
		}
	}()

	if err := h(); err != nil {
		if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
			return err
		}
		s.reportError(err)
	}
	return nil
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	s.heading.Fprintln(s.out, "Choose an option:")
	for _, c := range Commands {
		fmt.Fprintf(s.out, "%s. %s\n", c.Key(), c)
	}
}

// prompt returns the next input line as typed. Menu keys and numeric fields
// are trimmed where they are parsed.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

func (s *Shell) reportError(err error) {
	switch catalog.Classify(err) {
	case catalog.KindInput:
		s.failure.Fprintf(s.out, "Error: %v\n", err)
	case catalog.KindNotFound:
		s.info.Fprintln(s.out, "Book not found. Check the ID and try again.")
	case catalog.KindIO:
		s.failure.Fprintf(s.out, "File error: %v\n", err)
	case catalog.KindStorage:
		msg := database.Describe(database.ClassifyError(err))
		s.failure.Fprintf(s.out, "Database error: %s (%v)\n", msg, err)
	default:
		s.failure.Fprintf(s.out, "Error: %v\n", err)
	}
	s.log.WithError(err).Debug("command failed")
}

func (s *Shell) addBook() error {
	title, err := s.prompt("Title: ")
	if err != nil {
		return err
	}
	author, err := s.prompt("Author: ")
	if err != nil {
		return err
	}
	yearText, err := s.prompt("Publication year: ")
	if err != nil {
		return err
	}
	priceText, err := s.prompt("Price: ")
	if err != nil {
		return err
	}

	year, err := catalog.ParseYear(yearText)
	if err != nil {
		return err
	}
	price, err := catalog.ParsePrice(priceText)
	if err != nil {
		return err
	}

	book, err := s.services.Catalog.AddBook(title, author, year, price)
	if err != nil {
		return err
	}
	s.success.Fprintf(s.out, "Book added with ID %d.\n", book.ID)
	return nil
}

func (s *Shell) listBooks() error {
	books, err := s.services.Catalog.ListBooks()
	if err != nil {
		return err
	}
	if len(books) == 0 {
		s.info.Fprintln(s.out, "No books found.")
		return nil
	}

	s.heading.Fprintln(s.out, "Books:")
	for _, b := range books {
		fmt.Fprintf(s.out, "ID: %d, Title: %s, Author: %s, Year: %d, Price: %s\n",
			b.ID, b.Title, b.Author, b.Year, b.FormattedPrice())
	}
	return nil
}

func (s *Shell) updatePrice() error {
	title, err := s.prompt("Title of the book to update: ")
	if err != nil {
		return err
	}
	priceText, err := s.prompt("New price: ")
	if err != nil {
		return err
	}

	price, err := catalog.ParsePrice(priceText)
	if err != nil {
		return err
	}

	n, err := s.services.Catalog.UpdatePrice(title, price)
	if err != nil {
		return err
	}
	if n == 0 {
		s.info.Fprintf(s.out, "No book titled %q.\n", title)
		return nil
	}
	s.success.Fprintf(s.out, "Price updated for %d book(s).\n", n)
	return nil
}

func (s *Shell) deleteBook() error {
	idText, err := s.prompt("ID of the book to remove: ")
	if err != nil {
		return err
	}

	id, err := catalog.ParseID(idText)
	if err != nil {
		return err
	}

	book, err := s.services.Catalog.DeleteBook(id)
	if err != nil {
		return err
	}
	s.success.Fprintf(s.out, "Book %q removed.\n", book.Title)
	return nil
}

func (s *Shell) searchAuthor() error {
	author, err := s.prompt("Author: ")
	if err != nil {
		return err
	}

	books, err := s.services.Catalog.FindByAuthor(author)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		s.info.Fprintf(s.out, "No books found for author %s.\n", author)
		return nil
	}

	s.heading.Fprintf(s.out, "Books by %s:\n", author)
	for _, b := range books {
		fmt.Fprintf(s.out, "ID: %d, Title: %s, Year: %d, Price: %s\n",
			b.ID, b.Title, b.Year, b.FormattedPrice())
	}
	return nil
}

func (s *Shell) exportCSV() error {
	result, err := s.services.Exporter.ExportAll()
	if err != nil {
		return err
	}
	s.success.Fprintf(s.out, "Exported %d book(s) to %s.\n", result.BooksProcessed, result.Path)
	return nil
}

func (s *Shell) importCSV() error {
	name, err := s.prompt("CSV file name: ")
	if err != nil {
		return err
	}

	result, err := s.services.Importer.ImportFile(name)
	for _, rowErr := range result.Skipped {
		s.info.Fprintf(s.out, "Skipped %v\n", rowErr)
	}
	if err != nil {
		return err
	}
	s.success.Fprintf(s.out, "Imported %d book(s).\n", result.Imported)
	return nil
}

func (s *Shell) backupNow() error {
	result, err := s.services.Backups.Run()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	s.success.Fprintf(s.out, "Backup created: %s\n", result.Path)
	if len(result.Pruned) > 0 {
		s.info.Fprintf(s.out, "Removed %d old backup(s), keeping the %d most recent.\n",
			len(result.Pruned), s.services.Backups.Retention())
	}

	retained, err := s.services.Backups.List()
	if err != nil {
		return err
	}
	s.heading.Fprintf(s.out, "Retained backups (%d):\n", len(retained))
	for _, b := range retained {
		fmt.Fprintf(s.out, "  %s  %d bytes  %s\n", b.Name, b.Size, b.ModTime.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (s *Shell) exit() error {
	s.success.Fprintln(s.out, "Goodbye!")
	return errExit
}
