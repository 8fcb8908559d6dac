package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockAuthService struct {
	users       map[int64]*domain.User
	registerErr error
	loginErr    error
	lastInput   domain.RegistrationInput
}

func (m *mockAuthService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.User, error) {
	m.lastInput = input
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	u := &domain.User{ID: int64(len(m.users) + 1), Username: input.Username, Email: input.Email}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	for _, u := range m.users {
		if u.Email == email && password == "pw123" {
			return u, nil
		}
	}
	return nil, apperrors.NewUnauthorizedError("invalid credentials")
}

func (m *mockAuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

type mockDocumentService struct {
	uploadErr error
	uploads   []domain.UploadRequest
	recent    []*domain.DocumentSummary
}

func (m *mockDocumentService) Upload(ctx context.Context, req domain.UploadRequest) (*domain.PDFDocument, error) {
	m.uploads = append(m.uploads, req)
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	owner := req.OwnerID
	return &domain.PDFDocument{ID: int64(len(m.uploads)), OwnerID: &owner, Filename: req.Filename, Data: req.Content, Summary: "This is the summary."}, nil
}

func (m *mockDocumentService) ListRecent(ctx context.Context, ownerID int64) ([]*domain.DocumentSummary, error) {
	return m.recent, nil
}

type testApp struct {
	auth     *mockAuthService
	docs     *mockDocumentService
	sessions *SessionManager
	router   http.Handler
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(NewMockHandlerLogger())
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	return r
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := NewMockHandlerLogger()
	app := &testApp{
		auth:     &mockAuthService{users: map[int64]*domain.User{}},
		docs:     &mockDocumentService{},
		sessions: NewSessionManager(SessionOptions{Secret: testSecret, MaxAge: 3600}),
	}
	render := newTestRenderer(t)
	app.router = NewRouter(
		NewAuthHandler(app.auth, app.sessions, render, logger),
		NewDashboardHandler(app.auth, app.docs, app.sessions, render, logger),
		NewDocumentHandler(app.docs, app.sessions, render, logger, 1<<20),
		RequireAuth(app.sessions),
		logger,
		[]string{"http://localhost:3000"},
	)
	return app
}

func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// loginCookie returns a session cookie for an existing user.
func (a *testApp) loginCookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	if err := a.sessions.Login(rr, req, userID); err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	return lastCookie(t, rr)
}

func lastCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected a session cookie")
	}
	return cookies[len(cookies)-1]
}

func form(values map[string]string) *strings.Reader {
	v := url.Values{}
	for k, val := range values {
		v.Set(k, val)
	}
	return strings.NewReader(v.Encode())
}

func postForm(path string, values map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, form(values))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
