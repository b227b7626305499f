// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and schema migration
//	├── errors.go        # SQLite error classification
//	└── books/           # Book CRUD operations
//
// # Usage
//
//	db, err := database.NewDatabase("./bookstore.db", log)
//	defer db.Close()
//
//	repo := books.NewRepository(db.DB)
//	all, err := repo.GetAllBooks()
//
// The handle is owned by whoever opened it and is passed explicitly to every
// repository; nothing in this package keeps a global connection.
package database
