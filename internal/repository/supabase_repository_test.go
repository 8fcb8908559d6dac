package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdf-summarizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/postgrest-go"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, fields ...interface{})             {}
func (nopLogger) Error(msg string, err error, fields ...interface{}) {}
func (nopLogger) Debug(msg string, fields ...interface{})            {}
func (nopLogger) Warn(msg string, fields ...interface{})             {}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Prefer string
	Body   string
}

func newPostgrestServer(t *testing.T, status int, response string) (*postgrest.Client, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Prefer: r.Header.Get("Prefer"),
			Body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return postgrest.NewClient(srv.URL, "public", nil), &reqs
}

func TestSupabaseUserCreate(t *testing.T) {
	client, reqs := newPostgrestServer(t, http.StatusCreated,
		`[{"id":5,"username":"alice","email":"alice@example.com","password_hash":"hash","created_at":"2024-05-01T12:00:00+00:00"}]`)
	repo := NewSupabaseUserRepository(client, nopLogger{})

	got, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, 2024, got.CreatedAt.Year())

	require.Len(t, *reqs, 1)
	req := (*reqs)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/users"))
	assert.Contains(t, req.Prefer, "return=representation")

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.Body), &sent))
	assert.Equal(t, "alice@example.com", sent["email"])
}

func TestSupabaseUserCreate_Duplicate(t *testing.T) {
	client, _ := newPostgrestServer(t, http.StatusConflict,
		`{"code":"23505","message":"duplicate key value violates unique constraint \"users_email_key\""}`)
	repo := NewSupabaseUserRepository(client, nopLogger{})

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestSupabaseUserFindByEmail(t *testing.T) {
	client, reqs := newPostgrestServer(t, http.StatusOK,
		`[{"id":5,"username":"alice","email":"alice@example.com","password_hash":"hash","created_at":"2024-05-01T12:00:00+00:00"}]`)
	repo := NewSupabaseUserRepository(client, nopLogger{})

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Contains(t, (*reqs)[0].Query, "email=eq.alice%40example.com")
}

func TestSupabaseUserFindByID_NotFound(t *testing.T) {
	client, _ := newPostgrestServer(t, http.StatusOK, `[]`)
	repo := NewSupabaseUserRepository(client, nopLogger{})

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSupabaseDocumentSave_EncodesBytea(t *testing.T) {
	client, reqs := newPostgrestServer(t, http.StatusCreated, `[{"id":3,"uploaded_at":"2024-05-01T12:00:00.123456+00:00"}]`)
	repo := NewSupabaseDocumentRepository(client, nopLogger{})

	owner := int64(5)
	doc, err := repo.Save(context.Background(), &domain.PDFDocument{
		OwnerID:       &owner,
		Filename:      "a.pdf",
		Data:          []byte("%PDF"),
		ContentSHA256: "h",
		PageCount:     1,
		Summary:       "short",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc.ID)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte((*reqs)[0].Body), &sent))
	assert.Equal(t, `\x25504446`, sent["data"])
	assert.Equal(t, float64(5), sent["owner_id"])
	assert.Equal(t, "short", sent["summary"])
}

func TestSupabaseDocumentSave_Error(t *testing.T) {
	client, _ := newPostgrestServer(t, http.StatusBadRequest, `{"code":"22P02","message":"invalid input"}`)
	repo := NewSupabaseDocumentRepository(client, nopLogger{})

	_, err := repo.Save(context.Background(), &domain.PDFDocument{Filename: "a.pdf", Data: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert document")
}

func TestSupabaseDocumentFindByID_DecodesBytea(t *testing.T) {
	client, _ := newPostgrestServer(t, http.StatusOK,
		`[{"id":3,"owner_id":null,"filename":"a.pdf","data":"\\x25504446","content_sha256":"h","page_count":1,"summary":null,"uploaded_at":"2024-05-01T12:00:00+00:00"}]`)
	repo := NewSupabaseDocumentRepository(client, nopLogger{})

	doc, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), doc.Data)
	assert.Nil(t, doc.OwnerID)
	assert.Equal(t, "", doc.Summary)
}

func TestSupabaseDocumentListByOwner(t *testing.T) {
	client, reqs := newPostgrestServer(t, http.StatusOK,
		`[{"id":4,"filename":"b.pdf","page_count":2,"summary":"two","uploaded_at":"2024-05-02T12:00:00+00:00"},
		  {"id":3,"filename":"a.pdf","page_count":1,"summary":null,"uploaded_at":"2024-05-01T12:00:00+00:00"}]`)
	repo := NewSupabaseDocumentRepository(client, nopLogger{})

	got, err := repo.ListByOwner(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Summary)

	q := (*reqs)[0].Query
	assert.Contains(t, q, "owner_id=eq.5")
	assert.Contains(t, q, "limit=10")
	assert.Contains(t, q, "order=uploaded_at.desc")
	assert.NotContains(t, q, "data")
}

func TestDecodeBytea_Invalid(t *testing.T) {
	_, err := decodeBytea("25504446")
	assert.Error(t, err)
}
