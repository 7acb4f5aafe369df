package services

import (
	"database/sql"
	"fmt"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(username, password string) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
	AuthenticateUser(username, password string) (models.User, error)
}

// UserService provides business logic for account management. Accounts are
// never deleted; only the password can change after registration.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s not found", id)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by their handle, including the
// password hash.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s not found", username)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser registers a new account, hashing the password. The username
// must not already be taken.
func (s *UserService) CreateUser(username, password string) (models.User, error) {
	var existing string
	err := s.db.QueryRow("SELECT id FROM users WHERE username = ?", username).Scan(&existing)
	if err == nil {
		return models.User{}, fmt.Errorf("username %s is already taken", username)
	}
	if err != sql.ErrNoRows {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, password_hash) VALUES(?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// UpdatePassword verifies the current password, then hashes and sets a new
// password for a user.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	var storedHash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&storedHash); err != nil {
		return fmt.Errorf("could not find user to update password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), id)
	return err
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
