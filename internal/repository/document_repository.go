package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pdf-summarizer/internal/domain"
)

// PostgresDocumentRepository implements domain.DocumentRepository over database/sql.
type PostgresDocumentRepository struct {
	db DBTX
}

func NewPostgresDocumentRepository(db DBTX) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// Save inserts the row in a single statement; uploaded_at is assigned by the server.
func (r *PostgresDocumentRepository) Save(ctx context.Context, doc *domain.PDFDocument) (*domain.PDFDocument, error) {
	query :=
		`INSERT INTO pdf_documents (filename, data, summary, owner_id, content_sha256, page_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, uploaded_at`

	var owner sql.NullInt64
	if doc.OwnerID != nil {
		owner = sql.NullInt64{Int64: *doc.OwnerID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		doc.Filename, doc.Data, nullString(doc.Summary), owner, doc.ContentSHA256, doc.PageCount).
		Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

func (r *PostgresDocumentRepository) FindByID(ctx context.Context, id int64) (*domain.PDFDocument, error) {
	query :=
		`SELECT id, owner_id, filename, data, content_sha256, page_count, summary, uploaded_at
		 FROM pdf_documents
		 WHERE id = $1`

	var (
		doc     domain.PDFDocument
		owner   sql.NullInt64
		summary sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &owner, &doc.Filename, &doc.Data, &doc.ContentSHA256, &doc.PageCount, &summary, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if owner.Valid {
		doc.OwnerID = &owner.Int64
	}
	doc.Summary = summary.String
	return &doc, nil
}

// ListByOwner returns the owner's most recent uploads without their bytes.
func (r *PostgresDocumentRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.DocumentSummary, error) {
	query :=
		`SELECT id, filename, page_count, summary, uploaded_at
		 FROM pdf_documents
		 WHERE owner_id = $1
		 ORDER BY uploaded_at DESC, id DESC
		 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*domain.DocumentSummary
	for rows.Next() {
		var (
			s       domain.DocumentSummary
			summary sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Filename, &s.PageCount, &summary, &s.UploadedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.Summary = summary.String
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
