package importers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/entities"
)

// csvColumns is the number of fields in a well-formed row: ID, Title,
// Author, Year, Price.
const csvColumns = 5

// RowError describes a row that was skipped because of its shape.
type RowError struct {
	Line   int    `json:"line"`
	Fields int    `json:"fields"`
	Reason string `json:"reason,omitempty"`
}

func (e RowError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, csvColumns, e.Fields)
}

// ParseBooksCSV parses an export file. The first record is treated as the
// header and skipped. The ID column is ignored so that imported books get
// fresh ids.
//
// Returns the converted books, the rows skipped for their shape, and an error
// if any well-shaped row could not be converted.
func ParseBooksCSV(r io.Reader) ([]entities.Book, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		var parseErr *csv.ParseError
		if !errors.As(err, &parseErr) {
			return nil, nil, fmt.Errorf("failed to read header: %w", err)
		}
	}

	var books []entities.Book
	var skipped []RowError

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, RowError{Line: parseErr.StartLine, Fields: len(record), Reason: parseErr.Err.Error()})
				continue
			}
			return nil, skipped, fmt.Errorf("failed to read import file: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) != csvColumns {
			skipped = append(skipped, RowError{Line: line, Fields: len(record)})
			continue
		}

		book, err := convertRow(record)
		if err != nil {
			return nil, skipped, fmt.Errorf("line %d: %w", line, err)
		}
		books = append(books, book)
	}

	return books, skipped, nil
}

func convertRow(record []string) (entities.Book, error) {
	title, author := record[1], record[2]
	if strings.TrimSpace(title) == "" {
		return entities.Book{}, &catalog.InputError{Field: "title", Message: "must not be empty"}
	}
	if strings.TrimSpace(author) == "" {
		return entities.Book{}, &catalog.InputError{Field: "author", Message: "must not be empty"}
	}

	year, err := catalog.ParseYear(record[3])
	if err != nil {
		return entities.Book{}, err
	}
	price, err := catalog.ParsePrice(record[4])
	if err != nil {
		return entities.Book{}, err
	}

	return entities.Book{Title: title, Author: author, Year: year, Price: price}, nil
}
