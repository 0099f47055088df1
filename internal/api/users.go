package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/propkeeper/internal/logging"
	"github.com/erazemk/propkeeper/internal/model"
	"github.com/erazemk/propkeeper/internal/store"
)

// UsersHandler handles user endpoints.
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Username string  `json:"username" validate:"required,max=64"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"full_name"`
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) error {
	users, err := store.GetUsers(r.Context(), h.DB)
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusOK, users)
	return nil
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest(msgInvalidBody)
	}
	if err := validate(req); err != nil {
		return err
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		return badRequest(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.AddUser(r.Context(), h.DB, req.Username, string(hash), req.FullName)
	if errors.Is(err, store.ErrDuplicate) {
		return conflict("username already exists")
	}
	if err != nil {
		return err
	}

	logging.Ctx(r.Context()).Info().Str("username", user.Username).Msg("user created")
	w.Header().Set("Location", "/api/users/"+url.PathEscape(user.Username))
	jsonResponse(w, http.StatusCreated, user)
	return nil
}

// Get handles GET /api/users/{username}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) error {
	username := chi.URLParam(r, "username")
	if u, err := url.PathUnescape(username); err == nil {
		username = u
	}

	user, err := store.GetUserByUsername(r.Context(), h.DB, username)
	if err != nil {
		return err
	}
	if user == nil {
		return notFound(fmt.Sprintf("user %s not found", username))
	}

	jsonResponse(w, http.StatusOK, user)
	return nil
}
