package handler

import (
	"errors"
	"net/http"
	"strings"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"
)

const (
	msgUserExists          = "User already exists, please login."
	msgUsernameTaken       = "Username already taken, please choose another."
	msgRegistered          = "Registration successful. Please log in."
	msgLoginSuccess        = "Login successful."
	msgInvalidCredentials  = "Invalid credentials. Please try again."
	msgLoggedOut           = "You have been logged out."
	msgSomethingWentWrong  = "Something went wrong. Please try again."
	msgRegistrationMissing = "Username, email and password are required."
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	auth     domain.AuthService
	sessions *SessionManager
	render   *Renderer
	logger   domain.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(auth domain.AuthService, sessions *SessionManager, render *Renderer, logger domain.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		render:   render,
		logger:   logger,
	}
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "register", PageData{
		Title:   "Register",
		Flashes: h.sessions.Flashes(w, r),
	})
}

// Register creates the account and sends the user to the login form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	input := domain.RegistrationInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	_, err := h.auth.Register(r.Context(), input)
	if err == nil {
		_ = h.sessions.AddFlash(w, r, FlashSuccess, msgRegistered)
		redirect(w, r, "/login")
		return
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		_ = h.sessions.AddFlash(w, r, FlashDanger, msgUserExists)
		redirect(w, r, "/register")
	case errors.Is(err, domain.ErrDuplicateUsername):
		_ = h.sessions.AddFlash(w, r, FlashDanger, msgUsernameTaken)
		redirect(w, r, "/register")
	case apperrors.IsType(err, apperrors.ErrorTypeValidation):
		msg := msgRegistrationMissing
		if appErr, ok := apperrors.As(err); ok && appErr.Message != "" {
			msg = capitalize(appErr.Message) + "."
		}
		h.renderRegister(w, r, http.StatusBadRequest, input, msg)
	default:
		h.logger.Error("Registration failed", err, "request_id", RequestIDFromContext(r.Context()))
		h.renderRegister(w, r, apperrors.GetStatusCode(err), input, msgSomethingWentWrong)
	}
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, input domain.RegistrationInput, msg string) {
	flashes := append(h.sessions.Flashes(w, r), Flash{Category: FlashDanger, Message: msg})
	h.render.Render(w, status, "register", PageData{
		Title:   "Register",
		Flashes: flashes,
		Form:    map[string]string{"username": input.Username, "email": input.Email},
	})
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.UserID(r); ok {
		redirect(w, r, "/dashboard")
		return
	}
	h.render.Render(w, http.StatusOK, "login", PageData{
		Title:   "Login",
		Flashes: h.sessions.Flashes(w, r),
	})
}

// Login verifies the credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	user, err := h.auth.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		status := http.StatusUnauthorized
		msg := msgInvalidCredentials
		if !apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
			h.logger.Error("Login failed", err, "request_id", RequestIDFromContext(r.Context()))
			status = apperrors.GetStatusCode(err)
			msg = msgSomethingWentWrong
		}
		flashes := append(h.sessions.Flashes(w, r), Flash{Category: FlashDanger, Message: msg})
		h.render.Render(w, status, "login", PageData{
			Title:   "Login",
			Flashes: flashes,
			Form:    map[string]string{"email": email},
		})
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.logger.Error("Failed to save session", err, "user_id", user.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	_ = h.sessions.AddFlash(w, r, FlashSuccess, msgLoginSuccess)
	h.logger.Info("User logged in", "user_id", user.ID)
	redirect(w, r, "/dashboard")
}

// Logout clears the session whether or not one exists.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Warn("Failed to clear session", "error", err)
	}
	_ = h.sessions.AddFlash(w, r, FlashInfo, msgLoggedOut)
	redirect(w, r, "/login")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
