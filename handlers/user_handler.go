package handlers

import (
	"net/http"
	"strings"
	"time"

	"transporterp/models"
	"transporterp/repository"
	"transporterp/services"
	"transporterp/utils"

	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	Repo      repository.UserRepository
	JWTSecret string
	JWTTTL    time.Duration
}

// Login handler
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &creds); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}

	user, err := h.Repo.GetUserByEmail(r.Context(), strings.TrimSpace(creds.Email))
	if err != nil {
		writeError(w, r, err, "Login failed")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{
			Success: false,
			Message: "Invalid email or password",
		})
		return
	}

	token, expires, err := utils.IssueToken(h.JWTSecret, user.ID, user.Email, user.Role, h.JWTTTL)
	if err != nil {
		writeError(w, r, err, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	user.Password = "" // hide password hash

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}

// CreateUser lets an admin add an account.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}
	user, err := in.ToUser()
	if err != nil {
		writeError(w, r, err, "Invalid user")
		return
	}

	if err := h.Repo.CreateUser(r.Context(), user); err != nil {
		writeError(w, r, err, "Failed to create user")
		return
	}

	user.Password = "" // hide password

	writeJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Message: "User created successfully",
		Data:    user,
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []*models.AppUser{}
	}
	writeData(w, http.StatusOK, users)
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "ok"})
}
