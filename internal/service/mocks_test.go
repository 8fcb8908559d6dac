package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"pdf-summarizer/internal/domain"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, s)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

// MockUserRepository keeps users in memory with unique email and username.
type MockUserRepository struct {
	users     map[string]*domain.User
	nextID    int64
	createErr error
	findErr   error
	creates   int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.creates++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, exists := m.users[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Email] = user
	return user, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type MockDocumentRepository struct {
	docs      []*domain.PDFDocument
	saveErr   error
	lastLimit int
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *domain.PDFDocument) (*domain.PDFDocument, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	doc.ID = int64(len(m.docs) + 1)
	m.docs = append(m.docs, doc)
	return doc, nil
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id int64) (*domain.PDFDocument, error) {
	for _, d := range m.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

func (m *MockDocumentRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.DocumentSummary, error) {
	m.lastLimit = limit
	var out []*domain.DocumentSummary
	for i := len(m.docs) - 1; i >= 0 && len(out) < limit; i-- {
		d := m.docs[i]
		if d.OwnerID != nil && *d.OwnerID == ownerID {
			out = append(out, &domain.DocumentSummary{ID: d.ID, Filename: d.Filename, Summary: d.Summary, PageCount: d.PageCount})
		}
	}
	return out, nil
}

type MockExtractor struct {
	pages []string
	err   error
	calls int
}

func (m *MockExtractor) Extract(ctx context.Context, content []byte) ([]string, error) {
	m.calls++
	return m.pages, m.err
}

type MockSummarizer struct {
	summary  string
	err      error
	calls    int
	lastText string
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	m.calls++
	m.lastText = text
	return m.summary, m.err
}

type MockBlobStorage struct {
	objects map[string][]byte
	putErr  error
	puts    int
}

func NewMockBlobStorage() *MockBlobStorage {
	return &MockBlobStorage{objects: make(map[string][]byte)}
}

func (m *MockBlobStorage) Put(ctx context.Context, key string, data io.Reader) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *MockBlobStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

var errBoom = errors.New("boom")
