package services_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindscribe/mindscribe-backend/internal/database"
	"github.com/mindscribe/mindscribe-backend/internal/services"
	"github.com/mindscribe/mindscribe-backend/pkg/utils"
)

func setupDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Error mocking DB")

	database.PostgresDB = db
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "Expectations were not met")
		db.Close()
		database.PostgresDB = nil
	})

	return mock
}

func validRegisterInput() services.RegisterInput {
	return services.RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  "alice",
		Email:     "alice@x.com",
		Password:  "pw123",
	}
}

func TestRegisterUserValidationOrder(t *testing.T) {
	// Validation failures must be detected before any database access,
	// so no expectations are registered on the mock.
	testCases := []struct {
		name          string
		mutate        func(*services.RegisterInput)
		expectedError error
	}{
		{
			name:          "Missing first name",
			mutate:        func(in *services.RegisterInput) { in.FirstName = "" },
			expectedError: services.ErrMissingFields,
		},
		{
			name:          "Missing password",
			mutate:        func(in *services.RegisterInput) { in.Password = "" },
			expectedError: services.ErrMissingFields,
		},
		{
			name:          "Invalid email format",
			mutate:        func(in *services.RegisterInput) { in.Email = "not-an-email" },
			expectedError: services.ErrInvalidEmail,
		},
		{
			name: "Missing field wins over bad email",
			mutate: func(in *services.RegisterInput) {
				in.Username = ""
				in.Email = "not-an-email"
			},
			expectedError: services.ErrMissingFields,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setupDB(t)

			in := validRegisterInput()
			tc.mutate(&in)

			user, err := services.RegisterUser(in)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tc.expectedError)
		})
	}
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("SELECT username FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))

	user, err := services.RegisterUser(validRegisterInput())
	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("SELECT username FROM users WHERE username").
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT email FROM users WHERE email").
		WithArgs("alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("alice@x.com"))

	user, err := services.RegisterUser(validRegisterInput())
	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestRegisterUserSuccess(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("SELECT username FROM users WHERE username").
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT email FROM users WHERE email").
		WithArgs("alice@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := services.RegisterUser(validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw123", user.PasswordHash, "stored hash must never equal the raw password")

	valid, err := utils.VerifyPassword("pw123", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestRegisterUserStoreFailure(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("SELECT username FROM users WHERE username").
		WithArgs("alice").
		WillReturnError(errors.New("connection refused"))

	user, err := services.RegisterUser(validRegisterInput())
	assert.Nil(t, user)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrUsernameTaken)
}

func TestFindUserByEmail(t *testing.T) {
	mock := setupDB(t)

	userID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("alice@x.com").
		WillReturnRows(userRow(mock, userID, "alice", "alice@x.com"))

	user, found, err := services.FindUserByEmail("alice@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestFindUserByEmailMiss(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	user, found, err := services.FindUserByEmail("nobody@x.com")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, user)
}

func TestFindUserByID(t *testing.T) {
	mock := setupDB(t)

	userID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(userRow(mock, userID, "alice", "alice@x.com"))

	user, found, err := services.FindUserByID(userID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice@x.com", user.Email)
}

func userRow(mock sqlmock.Sqlmock, id uuid.UUID, username, email string) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows([]string{
		"id", "created_at", "updated_at", "first_name", "last_name", "username", "email", "password_hash",
	}).AddRow(id, now, now, "Alice", "Smith", username, email, "$2a$10$hash")
}
