package entities

import "fmt"

// Book is a single catalog entry.
type Book struct {
	ID     uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title  string  `gorm:"not null;index" json:"title"`
	Author string  `gorm:"not null;index" json:"author"`
	Year   int     `gorm:"not null" json:"year"`
	Price  float64 `gorm:"not null" json:"price"`
}

func (Book) TableName() string {
	return "books"
}

// FormattedPrice renders the price with two decimal places.
func (b Book) FormattedPrice() string {
	return fmt.Sprintf("%.2f", b.Price)
}
