package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"

	"github.com/gen2brain/go-fitz"
)

const pageTimeout = 90 * time.Second

var pdfMagic = []byte("%PDF-")

// PDFProcessor extracts page text with MuPDF.
type PDFProcessor struct {
	logger domain.Logger
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(logger domain.Logger) *PDFProcessor {
	return &PDFProcessor{
		logger: logger,
	}
}

// Extract returns one sanitized text segment per page. Pages without a text
// layer, or whose extraction fails or times out, come back as "".
func (p *PDFProcessor) Extract(ctx context.Context, content []byte) ([]string, error) {
	if !hasPDFMagic(content) {
		return nil, apperrors.NewUnsupportedFormatError("file is not a PDF", domain.ErrNotPDF)
	}

	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, apperrors.NewUnsupportedFormatError("failed to open PDF", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if numPages == 0 {
		return nil, apperrors.NewUnsupportedFormatError("PDF has no pages", nil)
	}
	pages := make([]string, 0, numPages)

	type pageResult struct {
		text string
		err  error
	}

	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var res pageResult
		timer := time.NewTimer(pageTimeout)
		select {
		case res = <-resultCh:
			timer.Stop()
		case <-timer.C:
			p.logger.Warn("PDF page extraction timeout; using empty page", "page", pageNum+1, "total", numPages, "timeout_sec", int(pageTimeout.Seconds()))
			// MuPDF is not safe for concurrent use on one document, so wait
			// for the stuck call before moving on.
			<-resultCh
			pages = append(pages, "")
			continue
		case <-ctx.Done():
			<-resultCh
			timer.Stop()
			return nil, ctx.Err()
		}

		if res.err != nil {
			p.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", res.err)
			pages = append(pages, "")
			continue
		}

		pages = append(pages, sanitizeText(strings.TrimSpace(res.text)))
	}

	return pages, nil
}

func hasPDFMagic(content []byte) bool {
	return bytes.HasPrefix(content, pdfMagic)
}

// sanitizeText removes NUL bytes, control characters other than tab, newline
// and carriage return, and surrogates. Postgres TEXT rejects NUL.
func sanitizeText(text string) string {
	text = strings.ToValidUTF8(text, "")

	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			result.WriteRune(r)
		case r >= 0x7F && r <= 0x9F:
			// C1 controls
		case r >= 0xD800 && r <= 0xDFFF:
		case r > 0x9F && r <= 0x10FFFF:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// JoinPages concatenates page segments in order, skipping empty pages.
func JoinPages(pages []string) string {
	nonEmpty := make([]string, 0, len(pages))
	for _, p := range pages {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}
