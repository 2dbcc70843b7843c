package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"samakicash/internal/auth"
	"samakicash/internal/domain"
)

type registerRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	UserType domain.UserType `json:"user_type"`
}

type registerResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID   string          `json:"user_id"`
	UserType domain.UserType `json:"user_type"`
	Message  string          `json:"message"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := auth.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		a.error(w, http.StatusBadRequest, "bad_request", "valid email required")
		return
	}
	if req.UserType == "" {
		req.UserType = domain.UserTypeFisher
	}
	if !req.UserType.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "user_type must be fisher, buyer or seller")
		return
	}
	hash, err := a.Hasher.Hash(email, req.Password)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "password required")
		return
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		UserType:     req.UserType,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.Store.InsertUser(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			a.error(w, http.StatusConflict, "conflict", "email already registered")
			return
		}
		a.logger().Error().Err(err).Msg("insert user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create user")
		return
	}
	a.json(w, http.StatusOK, registerResponse{UserID: user.ID, Message: "User created successfully"})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := auth.NormalizeEmail(req.Email)
	hash, err := a.Hasher.Hash(email, req.Password)
	if err != nil || email == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
		return
	}
	user, err := a.Store.FindUserByCredentials(r.Context(), email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
			return
		}
		a.logger().Error().Err(err).Msg("find user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to verify credentials")
		return
	}
	a.json(w, http.StatusOK, loginResponse{UserID: user.ID, UserType: user.UserType, Message: "Login successful"})
}
