package catalog

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
)

// ErrNotFound reports that the targeted book does not exist. It is an
// informational outcome rather than a failure.
var ErrNotFound = errors.New("book not found")

// InputError is a user-input problem detected before the store is touched.
type InputError struct {
	Field   string
	Value   string
	Message string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

// Kind groups errors by how they are reported to the user.
type Kind string

const (
	KindInput    Kind = "input"
	KindNotFound Kind = "not_found"
	KindIO       Kind = "io"
	KindStorage  Kind = "storage"
	KindUnknown  Kind = "unknown"
)

// Classify maps any error returned by this package, the repository, the
// importers or the filesystem to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return KindInput
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, books.ErrBookNotFound) {
		return KindNotFound
	}
	if database.ClassifyError(err) != database.FailureNone {
		return KindStorage
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return KindIO
	}

	return KindUnknown
}
