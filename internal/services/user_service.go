package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindscribe/mindscribe-backend/internal/database"
	"github.com/mindscribe/mindscribe-backend/internal/models"
	"github.com/mindscribe/mindscribe-backend/pkg/utils"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already in use")
)

// RegisterInput carries the raw registration fields. The password is hashed
// before anything is persisted and never stored or logged in the clear.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

const userColumns = `id, created_at, updated_at, first_name, last_name, username, email, password_hash`

// RegisterUser validates registration input in a fixed order (missing fields,
// email format, username uniqueness, email uniqueness) and persists the new
// user with a hashed password. The returned user never carries the raw password.
func RegisterUser(in RegisterInput) (*models.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !utils.ValidateEmail(in.Email) {
		return nil, ErrInvalidEmail
	}

	// Check username uniqueness
	var existing string
	err := database.PostgresDB.QueryRow(`SELECT username FROM users WHERE username = $1`, in.Username).Scan(&existing)
	if err == nil {
		return nil, ErrUsernameTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	// Check email uniqueness
	err = database.PostgresDB.QueryRow(`SELECT email FROM users WHERE email = $1`, in.Email).Scan(&existing)
	if err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashedPassword,
	}

	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, created_at, updated_at, first_name, last_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.CreatedAt, user.UpdatedAt, user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindUserByEmail looks up a user by email. Returns (nil, false, nil) on miss.
func FindUserByEmail(email string) (*models.User, bool, error) {
	return findUser(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindUserByUsername looks up a user by username. Returns (nil, false, nil) on miss.
func FindUserByUsername(username string) (*models.User, bool, error) {
	return findUser(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindUserByID looks up a user by id. Returns (nil, false, nil) on miss.
func FindUserByID(id uuid.UUID) (*models.User, bool, error) {
	return findUser(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func findUser(query string, arg interface{}) (*models.User, bool, error) {
	var user models.User
	err := database.PostgresDB.QueryRow(query, arg).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &user, true, nil
}
