package services

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/models"
	"github.com/google/uuid"
)

// BookServiceProvider defines the interface for catalog services.
type BookServiceProvider interface {
	ListBooks() ([]models.RankedBook, error)
	GetBookByID(id string) (models.Book, error)
	CreateBook(title, author, genre, description string) (models.Book, error)
}

// BookService provides business logic for the book catalog.
type BookService struct {
	db *sql.DB
}

// NewBookService creates a new BookService.
func NewBookService(db *sql.DB) *BookService {
	return &BookService{db: db}
}

// ListBooks retrieves the whole catalog ordered by title, with each book's
// average rating and review count across all users. Books with no reviews
// have a nil average.
func (s *BookService) ListBooks() ([]models.RankedBook, error) {
	query := sq.Select(
		"b.id", "b.title", "b.author", "b.genre", "b.description", "b.created_at",
		"AVG(r.rating) AS avg_rating",
		"COUNT(r.id) AS review_count",
	).
		From("books b").
		LeftJoin("reviews r ON r.book_id = b.id").
		GroupBy("b.id").
		OrderBy("b.title ASC")

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.RankedBook
	for rows.Next() {
		var book models.RankedBook
		var desc sql.NullString
		var avg sql.NullFloat64
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Genre, &desc, &book.CreatedAt, &avg, &book.ReviewCount); err != nil {
			return nil, err
		}
		book.Description = desc.String
		if avg.Valid {
			v := avg.Float64
			book.AvgRating = &v
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// GetBookByID retrieves a single book by its ID.
func (s *BookService) GetBookByID(id string) (models.Book, error) {
	var book models.Book
	var desc sql.NullString
	row := s.db.QueryRow("SELECT id, title, author, genre, description, created_at FROM books WHERE id = ?", id)
	err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Genre, &desc, &book.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Book{}, fmt.Errorf("book with ID %s not found", id)
		}
		return models.Book{}, err
	}
	book.Description = desc.String
	return book, nil
}

// CreateBook adds a new book to the catalog.
func (s *BookService) CreateBook(title, author, genre, description string) (models.Book, error) {
	book := models.Book{
		ID:          uuid.New().String(),
		Title:       title,
		Author:      author,
		Genre:       genre,
		Description: description,
	}

	stmt, err := s.db.Prepare("INSERT INTO books (id, title, author, genre, description) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return models.Book{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(book.ID, book.Title, book.Author, book.Genre, book.Description); err != nil {
		return models.Book{}, err
	}
	return book, nil
}
