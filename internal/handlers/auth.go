package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mindscribe/mindscribe-backend/internal/services"
	"github.com/mindscribe/mindscribe-backend/pkg/utils"
)

// Register Request
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Login Request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Auth Response
type AuthResponse struct {
	Message string                 `json:"message"`
	UserID  string                 `json:"userId,omitempty"`
	Token   string                 `json:"token,omitempty"`
	User    map[string]interface{} `json:"user,omitempty"`
}

func writeAuthJSON(w http.ResponseWriter, status int, resp AuthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Register handles user registration
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthJSON(w, http.StatusBadRequest, AuthResponse{Message: "Invalid request body"})
		return
	}

	user, err := services.RegisterUser(services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			writeAuthJSON(w, http.StatusBadRequest, AuthResponse{Message: "All fields are required"})
		case errors.Is(err, services.ErrInvalidEmail):
			writeAuthJSON(w, http.StatusBadRequest, AuthResponse{Message: "Invalid email format"})
		case errors.Is(err, services.ErrUsernameTaken):
			writeAuthJSON(w, http.StatusConflict, AuthResponse{Message: "Username already taken"})
		case errors.Is(err, services.ErrEmailTaken):
			writeAuthJSON(w, http.StatusBadRequest, AuthResponse{Message: "Email already in use."})
		default:
			log.Printf("Registration error: %v", err)
			writeAuthJSON(w, http.StatusInternalServerError, AuthResponse{Message: "Internal Server Error"})
		}
		return
	}

	writeAuthJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully!",
		UserID:  user.ID.String(),
	})
}

// Login handles user login and mints a session token
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthJSON(w, http.StatusBadRequest, AuthResponse{Message: "Invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeAuthJSON(w, http.StatusBadRequest, AuthResponse{Message: "Email and password are required"})
		return
	}

	user, found, err := services.FindUserByEmail(req.Email)
	if err != nil {
		log.Printf("Login error: %v", err)
		writeAuthJSON(w, http.StatusInternalServerError, AuthResponse{Message: "Internal Server Error"})
		return
	}
	if !found {
		writeAuthJSON(w, http.StatusUnauthorized, AuthResponse{Message: "Invalid email."})
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		writeAuthJSON(w, http.StatusUnauthorized, AuthResponse{Message: "Incorrect password."})
		return
	}

	token, err := services.Tokens.Issue(user.ID.String())
	if err != nil {
		log.Printf("Token issue error: %v", err)
		writeAuthJSON(w, http.StatusInternalServerError, AuthResponse{Message: "Internal Server Error"})
		return
	}

	writeAuthJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User: map[string]interface{}{
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
