package handler

import (
	"net/http"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"
)

// DashboardHandler renders the logged-in landing page.
type DashboardHandler struct {
	auth      domain.AuthService
	documents domain.DocumentService
	sessions  *SessionManager
	render    *Renderer
	logger    domain.Logger
}

func NewDashboardHandler(auth domain.AuthService, documents domain.DocumentService, sessions *SessionManager, render *Renderer, logger domain.Logger) *DashboardHandler {
	return &DashboardHandler{
		auth:      auth,
		documents: documents,
		sessions:  sessions,
		render:    render,
		logger:    logger,
	}
}

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/dashboard")
}

// Dashboard shows the account and its recent uploads.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, "/login")
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			// Account vanished under a live session.
			_ = h.sessions.Logout(w, r)
			_ = h.sessions.AddFlash(w, r, FlashWarning, loginRequiredMessage)
			redirect(w, r, "/login")
			return
		}
		h.logger.Error("Failed to load user", err, "user_id", userID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	docs, err := h.documents.ListRecent(r.Context(), userID)
	if err != nil {
		h.logger.Warn("Failed to list documents", "user_id", userID, "error", err)
		docs = nil
	}

	h.render.Render(w, http.StatusOK, "dashboard", PageData{
		Title:     "Dashboard",
		LoggedIn:  true,
		Flashes:   h.sessions.Flashes(w, r),
		User:      user,
		Documents: docs,
	})
}
