package database

import (
	"database/sql"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS books (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		genre TEXT NOT NULL,
		description TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reviews (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users (id),
		book_id TEXT NOT NULL REFERENCES books (id),
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, book_id) -- one review per user per book
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_book_id ON reviews (book_id);
	CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews (user_id);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		book_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// Seed populates the catalog with a starter set of books. It is a no-op
// when the books table already has rows, so it is safe to run on every
// startup.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM books").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	sampleBooks := []struct {
		title, author, genre, description string
	}{
		{"The Shadow of the Wind", "Carlos Ruiz Zafón", "Mystery", "A magical tale set in a Barcelona book graveyard."},
		{"The Martian", "Andy Weir", "Sci-Fi", "An astronaut struggles to survive alone on Mars."},
		{"A Gentleman in Moscow", "Amor Towles", "Historical Fiction", "A count is sentenced to house arrest in a luxury hotel."},
		{"Project Hail Mary", "Andy Weir", "Sci-Fi", "A solitary survivor must save Earth from catastrophe."},
		{"Where the Crawdads Sing", "Delia Owens", "Mystery", "A story of a girl who raises herself in the marshes of North Carolina."},
		{"Sapiens: A Brief History of Humankind", "Yuval Noah Harari", "Non-Fiction", "A look at the history of humanity from early times to the present."},
	}

	stmt, err := db.Prepare("INSERT INTO books (id, title, author, genre, description) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range sampleBooks {
		if _, err := stmt.Exec(uuid.New().String(), b.title, b.author, b.genre, b.description); err != nil {
			return err
		}
	}
	return nil
}
