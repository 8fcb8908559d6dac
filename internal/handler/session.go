package handler

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName   = "pdf_summarizer_session"
	sessionUserID = "user_id"
)

// Flash categories, rendered as alert styles.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// SessionManager keeps the logged-in user id and pending flashes in a
// signed cookie.
type SessionManager struct {
	store *sessions.CookieStore
}

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secret string
	MaxAge int
	Secure bool
}

func NewSessionManager(opts SessionOptions) *SessionManager {
	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// session never fails: a cookie that does not verify yields a new, empty
// session, cached for the rest of the request.
func (m *SessionManager) session(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, sessionName)
	return s
}

// UserID returns the logged-in user, if any.
func (m *SessionManager) UserID(r *http.Request) (int64, bool) {
	id, ok := m.session(r).Values[sessionUserID].(int64)
	return id, ok && id > 0
}

// Login records userID in the session. Pending flashes are kept.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	s := m.session(r)
	s.Values[sessionUserID] = userID
	return s.Save(r, w)
}

// Logout drops the user id and keeps the cookie for the logout flash.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.session(r)
	delete(s.Values, sessionUserID)
	return s.Save(r, w)
}

// AddFlash queues a message for the next page.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	s := m.session(r)
	s.AddFlash(Flash{Category: category, Message: message})
	return s.Save(r, w)
}

// Flashes pops all pending messages.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			out = append(out, flash)
		}
	}
	return out
}
