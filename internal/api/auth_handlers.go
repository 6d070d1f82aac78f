package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/store"
)

// AuthHandlers handles registration, login and session endpoints.
type AuthHandlers struct {
	directory  *auth.Directory
	jwtService *auth.JWTService
}

func NewAuthHandlers(directory *auth.Directory, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		directory:  directory,
		jwtService: jwtService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message,omitempty"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func userResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// Register creates an account and signs the new user in.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.directory.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			respondJSONError(w, "Email already registered", http.StatusConflict)
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondJSONError(w, "Password must be at least 8 characters", http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondJSONError(w, "A valid email address is required", http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.startSession(w, r, user)

	respondJSON(w, http.StatusCreated, AuthResponse{
		User:    userResponse(user),
		Message: "Registration successful",
	})
}

// Login authenticates credentials and starts a session.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	h.startSession(w, r, user)

	respondJSON(w, http.StatusOK, AuthResponse{
		User:    userResponse(user),
		Message: "Login successful",
	})
}

// Logout clears the session cookie and the stored session snapshot.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	_ = h.directory.SetSession(r.Context(), nil)

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me returns the signed-in user.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
}

func (h *AuthHandlers) startSession(w http.ResponseWriter, r *http.Request, user *store.User) {
	token, expiresAt, err := h.jwtService.GenerateToken(*user)
	if err != nil {
		respondJSONError(w, "Could not create session", http.StatusInternalServerError)
		return
	}

	_ = h.directory.SetSession(r.Context(), user)

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}
