// src/handlers/upload_handler.go
package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/ubextract/src/exporters"
	"github.com/username/ubextract/src/extractor"
	"github.com/username/ubextract/src/logger"
	"github.com/username/ubextract/src/models"
	"github.com/username/ubextract/src/security/validation"
	"github.com/username/ubextract/src/services"
)

const (
	previewRows     = 10
	previewWarnings = 5
	// Room for multipart boundaries and headers on top of the file itself.
	multipartOverhead = 1 << 20
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"amount": models.FormatAmount,
	"pos": func(pos bool) string {
		if pos {
			return "PO"
		}
		return "JO"
	},
}).ParseFS(templateFS, "templates/*.html"))

type UploadHandler struct {
	conversionService  services.ConversionService
	maxUploadSizeBytes int64
}

func NewUploadHandler(service services.ConversionService, maxUploadSizeBytes int64) *UploadHandler {
	return &UploadHandler{
		conversionService:  service,
		maxUploadSizeBytes: maxUploadSizeBytes,
	}
}

type indexPage struct {
	MaxUploadMB int64
}

type downloadLink struct {
	Label string
	URL   string
}

type resultPage struct {
	Conversion   *models.Conversion
	Preview      []models.Transaction
	Downloads    []downloadLink
	Warnings     []models.ParseWarning
	MoreWarnings int
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

func (h *UploadHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", indexPage{MaxUploadMB: h.maxUploadSizeBytes / (1024 * 1024)})
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSizeBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSizeBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadSizeBytes)
		h.renderError(w, r, http.StatusBadRequest,
			fmt.Sprintf("The upload could not be read or the file is too large (max %d MB).", h.maxUploadSizeBytes/(1024*1024)))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		h.renderError(w, r, http.StatusBadRequest, "No file was uploaded. Choose a PDF statement and try again.")
		return
	}
	defer file.Close()

	filename := validation.SanitizeFilename(fileHeader.Filename)
	log = log.With("filename", filename)

	if fileHeader.Size > h.maxUploadSizeBytes {
		log.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", h.maxUploadSizeBytes)
		h.renderError(w, r, http.StatusBadRequest,
			fmt.Sprintf("The file is too large (max %d MB).", h.maxUploadSizeBytes/(1024*1024)))
		return
	}

	// Anything that is not a PDF is reported the same way the extractor
	// reports it, whether it is caught by name, declared type or content.
	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := checkPDFUpload(filename, clientContentType, file); err != nil {
		log.Warn("Upload rejected as not a PDF", "contentType", clientContentType, "error", err)
		h.renderExtractionError(w, r, &extractor.ExtractionError{Kind: extractor.KindNotPDF, Err: err})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded file", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Unexpected error processing PDF")
		return
	}

	log.Info("Processing upload request", "fileSize", len(data))
	conv, err := h.conversionService.Convert(r.Context(), filename, data)
	if err != nil {
		var extractionErr *extractor.ExtractionError
		if errors.As(err, &extractionErr) {
			h.renderExtractionError(w, r, extractionErr)
			return
		}
		log.Error("Conversion failed", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Unexpected error processing PDF")
		return
	}

	page := resultPage{
		Conversion: conv,
		Preview:    conv.Preview(previewRows),
		Warnings:   conv.Warnings,
	}
	if len(page.Warnings) > previewWarnings {
		page.MoreWarnings = len(page.Warnings) - previewWarnings
		page.Warnings = page.Warnings[:previewWarnings]
	}
	for _, out := range exporters.Outputs {
		page.Downloads = append(page.Downloads, downloadLink{
			Label: out.Label,
			URL:   "/downloads/" + conv.ID + "/" + out.Name,
		})
	}
	h.render(w, r, http.StatusOK, "result.html", page)
}

func checkPDFUpload(filename, contentType string, file io.ReadSeeker) error {
	if err := validation.ValidateUploadFilename(filename); err != nil {
		return err
	}
	if err := validation.ValidateClientContentType(contentType); err != nil {
		return err
	}
	return validation.ValidateFileContentByMagicBytes(file)
}

func (h *UploadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "file")

	conv, err := h.conversionService.Get(id)
	if err != nil {
		log.Info("Download requested for unknown conversion", "conversionID", id, "error", err)
		h.renderError(w, r, http.StatusNotFound, "This result has expired. Upload the statement again.")
		return
	}

	file, err := h.conversionService.Render(conv, name)
	if err != nil {
		if errors.Is(err, services.ErrUnknownOutput) {
			h.renderError(w, r, http.StatusNotFound, "Unknown download.")
			return
		}
		log.Error("Failed to render output", "conversionID", id, "file", name, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Unexpected error preparing the download.")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		log.Warn("Error writing download", "file", file.Name, "error", err)
	}
}

func (h *UploadHandler) renderExtractionError(w http.ResponseWriter, r *http.Request, err *extractor.ExtractionError) {
	h.renderError(w, r, http.StatusUnprocessableEntity, err.Kind.Message())
}

func (h *UploadHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error.html", errorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	})
}

// render executes the page into a buffer first so that a template error
// never produces a half-written page.
func (h *UploadHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.FromContext(r.Context()).Error("Error rendering page", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
