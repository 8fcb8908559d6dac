package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PDFDocument is a stored upload together with its summary.
type PDFDocument struct {
	ID            int64
	OwnerID       *int64
	Filename      string
	Data          []byte
	ContentSHA256 string
	PageCount     int
	Summary       string
	UploadedAt    time.Time
}

// DocumentSummary is a listing row; it never carries the file bytes.
type DocumentSummary struct {
	ID         int64
	Filename   string
	PageCount  int
	Summary    string
	UploadedAt time.Time
}

// UploadRequest is what the upload handler hands to the pipeline.
type UploadRequest struct {
	OwnerID  int64
	Filename string
	Content  []byte
}

// ContentHash returns the hex sha256 of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BlobKey is the archive key for a document's bytes.
func BlobKey(contentHash string) string {
	return contentHash + ".pdf"
}
