package domain

import (
	"context"
	"io"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts the user and fills ID and CreatedAt. Returns ErrDuplicateEmail
	// or ErrDuplicateUsername on a unique violation.
	Create(ctx context.Context, user *User) (*User, error)
	// FindByEmail returns ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

// DocumentRepository persists summarized uploads. Rows are never updated.
type DocumentRepository interface {
	Save(ctx context.Context, doc *PDFDocument) (*PDFDocument, error)
	FindByID(ctx context.Context, id int64) (*PDFDocument, error)
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*DocumentSummary, error)
}

// TextExtractor turns PDF bytes into one text segment per page.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) ([]string, error)
}

// Summarizer produces a short summary of a document's text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// BlobStorage archives the raw upload under a content-addressed key.
type BlobStorage interface {
	Put(ctx context.Context, key string, data io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AuthService covers registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegistrationInput) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
}

// DocumentService runs the upload pipeline.
type DocumentService interface {
	Upload(ctx context.Context, req UploadRequest) (*PDFDocument, error)
	ListRecent(ctx context.Context, ownerID int64) ([]*DocumentSummary, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}
