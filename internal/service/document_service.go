package service

import (
	"bytes"
	"context"
	"time"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"
)

// RecentDocumentsLimit is how many uploads the dashboard lists.
const RecentDocumentsLimit = 10

type DocumentService struct {
	extractor  domain.TextExtractor
	summarizer domain.Summarizer
	blobs      domain.BlobStorage
	repo       domain.DocumentRepository
	logger     domain.Logger
}

func NewDocumentService(
	extractor domain.TextExtractor,
	summarizer domain.Summarizer,
	blobs domain.BlobStorage,
	repo domain.DocumentRepository,
	logger domain.Logger,
) *DocumentService {
	return &DocumentService{
		extractor:  extractor,
		summarizer: summarizer,
		blobs:      blobs,
		repo:       repo,
		logger:     logger,
	}
}

// Upload validates, extracts, summarizes, archives and persists one PDF.
// Nothing is written unless extraction and summarization both succeed.
func (s *DocumentService) Upload(ctx context.Context, req domain.UploadRequest) (*domain.PDFDocument, error) {
	start := time.Now()

	if req.Filename == "" || len(req.Content) == 0 {
		return nil, apperrors.NewValidationError("no file selected", "file")
	}
	if !domain.IsPDFFilename(req.Filename) {
		return nil, apperrors.NewValidationError("only PDF files are allowed", "file")
	}
	filename := domain.SanitizeFilename(req.Filename)

	pages, err := s.extractor.Extract(ctx, req.Content)
	if err != nil {
		s.logger.Error("PDF extraction failed", err, "filename", filename, "owner_id", req.OwnerID)
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.NewUnsupportedFormatError("failed to read PDF", err)
	}
	s.logger.Debug("PDF extracted", "filename", filename, "pages", len(pages))

	summary, err := s.summarizer.Summarize(ctx, JoinPages(pages))
	if err != nil {
		s.logger.Error("Summarization failed", err, "filename", filename, "owner_id", req.OwnerID, "kind", string(apperrors.TypeOf(err)))
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.NewUpstreamUnavailableError("summarization failed", err)
	}

	hash := domain.ContentHash(req.Content)
	if err := s.archive(ctx, hash, req.Content); err != nil {
		s.logger.Error("Failed to archive PDF", err, "sha256", hash)
		return nil, apperrors.NewStorageError("failed to archive file", err)
	}

	owner := req.OwnerID
	doc := &domain.PDFDocument{
		Filename:      filename,
		Data:          req.Content,
		ContentSHA256: hash,
		PageCount:     len(pages),
		Summary:       summary,
	}
	if owner != 0 {
		doc.OwnerID = &owner
	}

	saved, err := s.repo.Save(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to save document", err, "filename", filename)
		return nil, apperrors.NewStorageError("failed to save document", err)
	}

	s.logger.Info("PDF summarized",
		"document_id", saved.ID,
		"owner_id", req.OwnerID,
		"pages", saved.PageCount,
		"bytes", len(req.Content),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return saved, nil
}

// archive writes the blob once per content hash.
func (s *DocumentService) archive(ctx context.Context, hash string, content []byte) error {
	if s.blobs == nil {
		return nil
	}
	key := domain.BlobKey(hash)
	exists, err := s.blobs.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.blobs.Put(ctx, key, bytes.NewReader(content))
}

// ListRecent returns the owner's latest uploads, newest first.
func (s *DocumentService) ListRecent(ctx context.Context, ownerID int64) ([]*domain.DocumentSummary, error) {
	docs, err := s.repo.ListByOwner(ctx, ownerID, RecentDocumentsLimit)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list documents", err)
	}
	return docs, nil
}
