package catalog

import (
	"strconv"
	"strings"
)

// ParseYear converts user text into a publication year.
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &InputError{Field: "year", Value: s, Message: "must be a whole number"}
	}
	return year, nil
}

// ParsePrice converts user text into a price. NaN and infinities are rejected.
func ParsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || price != price || price > maxPrice || price < -maxPrice {
		return 0, &InputError{Field: "price", Value: s, Message: "must be a number"}
	}
	return price, nil
}

// ParseID converts user text into a book ID.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &InputError{Field: "id", Value: s, Message: "must be a positive whole number"}
	}
	return uint(id), nil
}

const maxPrice = 1e15

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &InputError{Field: field, Message: "must not be empty"}
	}
	return nil
}
