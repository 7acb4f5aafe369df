package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service services.BookServiceProvider
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service services.BookServiceProvider) *BookHandler {
	return &BookHandler{service: service}
}

// BookPayload defines the structure for catalog additions.
type BookPayload struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre" validate:"required"`
	Description string `json:"description"`
}

// GetAll handles listing the whole catalog with average ratings.
func (h *BookHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list catalog")
		http.Error(w, "Failed to list books", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

// Get handles retrieving a single book by ID.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	book, err := h.service.GetBookByID(id)
	if err != nil {
		log.Warn().Err(err).Str("book_id", id).Msg("Failed to get book")
		http.Error(w, "Book not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

// Create handles adding a book to the catalog.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload BookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		http.Error(w, "Invalid book payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	book, err := h.service.CreateBook(payload.Title, payload.Author, payload.Genre, payload.Description)
	if err != nil {
		log.Error().Err(err).Str("title", payload.Title).Msg("Failed to create book")
		http.Error(w, "Failed to create book", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}
