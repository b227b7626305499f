package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// StorageFailure names a class of SQLite failure the user can act on.
type StorageFailure string

const (
	FailureNone       StorageFailure = ""
	FailureBusy       StorageFailure = "busy"
	FailureReadOnly   StorageFailure = "read_only"
	FailureCorrupt    StorageFailure = "corrupt"
	FailureConstraint StorageFailure = "constraint"
	FailureCantOpen   StorageFailure = "cant_open"
	FailureDiskFull   StorageFailure = "disk_full"
	FailureOther      StorageFailure = "other"
)

var failureMessages = map[StorageFailure]string{
	FailureBusy:       "the database is locked by another process, try again",
	FailureReadOnly:   "the database file is read-only",
	FailureCorrupt:    "the database file is damaged, restore it from the backups directory",
	FailureConstraint: "the record violates a database constraint",
	FailureCantOpen:   "the database file cannot be opened",
	FailureDiskFull:   "the disk is full",
}

// ClassifyError maps an error returned by the SQLite driver to a
// StorageFailure. Errors that do not come from SQLite yield FailureNone.
func ClassifyError(err error) StorageFailure {
	if err == nil {
		return FailureNone
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return FailureNone
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return FailureBusy
	case sqlite3.ErrReadonly, sqlite3.ErrPerm:
		return FailureReadOnly
	case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
		return FailureCorrupt
	case sqlite3.ErrConstraint:
		return FailureConstraint
	case sqlite3.ErrCantOpen:
		return FailureCantOpen
	case sqlite3.ErrFull:
		return FailureDiskFull
	default:
		return FailureOther
	}
}

// Describe returns a short user-facing explanation for a storage failure,
// or an empty string when there is nothing more specific to say.
func Describe(failure StorageFailure) string {
	return failureMessages[failure]
}
