package repository

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pdf-summarizer/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

const documentsTable = "pdf_documents"

type supabaseDocumentRow struct {
	ID            int64     `json:"id"`
	OwnerID       *int64    `json:"owner_id"`
	Filename      string    `json:"filename"`
	Data          string    `json:"data"`
	ContentSHA256 string    `json:"content_sha256"`
	PageCount     int       `json:"page_count"`
	Summary       *string   `json:"summary"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// SupabaseDocumentRepository implements domain.DocumentRepository through PostgREST.
type SupabaseDocumentRepository struct {
	client PostgrestClient
	logger domain.Logger
}

// NewSupabaseDocumentRepository creates a new Supabase document repository
func NewSupabaseDocumentRepository(client PostgrestClient, logger domain.Logger) *SupabaseDocumentRepository {
	return &SupabaseDocumentRepository{
		client: client,
		logger: logger,
	}
}

// Save inserts the document; bytea travels as a "\x"-prefixed hex string.
func (r *SupabaseDocumentRepository) Save(ctx context.Context, doc *domain.PDFDocument) (*domain.PDFDocument, error) {
	data := map[string]interface{}{
		"filename":       doc.Filename,
		"data":           encodeBytea(doc.Data),
		"content_sha256": doc.ContentSHA256,
		"page_count":     doc.PageCount,
	}
	if doc.Summary != "" {
		data["summary"] = doc.Summary
	}
	if doc.OwnerID != nil {
		data["owner_id"] = *doc.OwnerID
	}

	body, _, err := r.client.From(documentsTable).
		Insert(data, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	var rows []struct {
		ID         int64     `json:"id"`
		UploadedAt time.Time `json:"uploaded_at"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to insert document: empty response")
	}

	doc.ID = rows[0].ID
	doc.UploadedAt = rows[0].UploadedAt
	return doc, nil
}

// FindByID retrieves a document by ID
func (r *SupabaseDocumentRepository) FindByID(ctx context.Context, id int64) (*domain.PDFDocument, error) {
	body, _, err := r.client.From(documentsTable).
		Select("*", "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var rows []supabaseDocumentRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrDocumentNotFound
	}

	row := rows[0]
	content, err := decodeBytea(row.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document data: %w", err)
	}

	doc := &domain.PDFDocument{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Filename:      row.Filename,
		Data:          content,
		ContentSHA256: row.ContentSHA256,
		PageCount:     row.PageCount,
		UploadedAt:    row.UploadedAt,
	}
	if row.Summary != nil {
		doc.Summary = *row.Summary
	}
	return doc, nil
}

// ListByOwner retrieves the owner's most recent documents, newest first
func (r *SupabaseDocumentRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.DocumentSummary, error) {
	body, _, err := r.client.From(documentsTable).
		Select("id,filename,page_count,summary,uploaded_at", "", false).
		Eq("owner_id", strconv.FormatInt(ownerID, 10)).
		Order("uploaded_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}

	var rows []supabaseDocumentRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := make([]*domain.DocumentSummary, 0, len(rows))
	for _, row := range rows {
		s := &domain.DocumentSummary{
			ID:         row.ID,
			Filename:   row.Filename,
			PageCount:  row.PageCount,
			UploadedAt: row.UploadedAt,
		}
		if row.Summary != nil {
			s.Summary = *row.Summary
		}
		out = append(out, s)
	}
	return out, nil
}

func encodeBytea(b []byte) string {
	return `\x` + hex.EncodeToString(b)
}

func decodeBytea(s string) ([]byte, error) {
	if !strings.HasPrefix(s, `\x`) {
		return nil, fmt.Errorf("unexpected bytea encoding")
	}
	return hex.DecodeString(s[2:])
}
