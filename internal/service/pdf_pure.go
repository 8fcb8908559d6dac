package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"

	"github.com/ledongthuc/pdf"
)

// PurePDFProcessor extracts page text without cgo.
type PurePDFProcessor struct {
	logger domain.Logger
}

func NewPurePDFProcessor(logger domain.Logger) *PurePDFProcessor {
	return &PurePDFProcessor{logger: logger}
}

// Extract mirrors PDFProcessor.Extract using ledongthuc/pdf.
func (p *PurePDFProcessor) Extract(ctx context.Context, content []byte) (pages []string, err error) {
	if !hasPDFMagic(content) {
		return nil, apperrors.NewUnsupportedFormatError("file is not a PDF", domain.ErrNotPDF)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = apperrors.NewUnsupportedFormatError("failed to parse PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, apperrors.NewUnsupportedFormatError("failed to open PDF", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, apperrors.NewUnsupportedFormatError("PDF has no pages", nil)
	}
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("Failed to extract text from page", "page_num", i, "total", numPages, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, sanitizeText(strings.TrimSpace(text)))
	}

	return pages, nil
}
