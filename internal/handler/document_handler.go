package handler

import (
	"errors"
	"io"
	"net/http"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"
)

const (
	msgUploadSuccess = "File uploaded and summarized successfully."
	msgOnlyPDF       = "Only PDF files are allowed."
	msgNoFile        = "No file selected."
	msgFileTooLarge  = "File is too large."
	msgUploadFailed  = "We could not summarize that file. Please try again."
)

// DocumentHandler serves the upload form and the upload pipeline.
type DocumentHandler struct {
	documents   domain.DocumentService
	sessions    *SessionManager
	render      *Renderer
	logger      domain.Logger
	maxFileSize int64
}

func NewDocumentHandler(documents domain.DocumentService, sessions *SessionManager, render *Renderer, logger domain.Logger, maxFileSize int64) *DocumentHandler {
	return &DocumentHandler{
		documents:   documents,
		sessions:    sessions,
		render:      render,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

func (h *DocumentHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "upload", PageData{
		Title:    "Upload PDF",
		LoggedIn: true,
		Flashes:  h.sessions.Flashes(w, r),
	})
}

// Upload runs the pipeline for the "file" field and renders the summary.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, "/login")
		return
	}

	if h.maxFileSize > 0 {
		// Leave room for the multipart envelope.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderUploadError(w, r, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		h.renderUploadError(w, r, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.renderUploadError(w, r, http.StatusBadRequest, msgNoFile)
		return
	}
	if !domain.IsPDFFilename(header.Filename) {
		h.renderUploadError(w, r, http.StatusBadRequest, msgOnlyPDF)
		return
	}
	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		h.renderUploadError(w, r, http.StatusRequestEntityTooLarge, msgFileTooLarge)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", err, "filename", header.Filename)
		h.renderUploadError(w, r, http.StatusBadRequest, msgUploadFailed)
		return
	}

	doc, err := h.documents.Upload(r.Context(), domain.UploadRequest{
		OwnerID:  userID,
		Filename: header.Filename,
		Content:  content,
	})
	if err != nil {
		h.logger.Error("Upload pipeline failed", err,
			"request_id", RequestIDFromContext(r.Context()),
			"kind", string(apperrors.TypeOf(err)),
			"user_id", userID)
		msg := msgUploadFailed
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			msg = msgOnlyPDF
		}
		h.renderUploadError(w, r, apperrors.GetStatusCode(err), msg)
		return
	}

	flashes := append(h.sessions.Flashes(w, r), Flash{Category: FlashSuccess, Message: msgUploadSuccess})
	h.render.Render(w, http.StatusOK, "upload", PageData{
		Title:    "Upload PDF",
		LoggedIn: true,
		Flashes:  flashes,
		Document: doc,
	})
}

func (h *DocumentHandler) renderUploadError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	flashes := append(h.sessions.Flashes(w, r), Flash{Category: FlashDanger, Message: msg})
	h.render.Render(w, status, "upload", PageData{
		Title:    "Upload PDF",
		LoggedIn: true,
		Flashes:  flashes,
	})
}
