package validation

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/username/ubextract/src/extractor"
	"github.com/username/ubextract/src/logger"
)

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
// Browsers and scripts do not agree on a PDF type, so generic binary is accepted
// too; the file signature is checked separately.
var AllowedClientContentTypes = map[string]bool{
	"application/pdf":          true,
	"application/x-pdf":        true,
	"application/octet-stream": true,
	"":                         true,
	"text/csv":                 false,
	"text/plain":               false,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": false,
}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	mediaType := strings.TrimSpace(contentType)
	if mediaType != "" {
		if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = parsed
		}
	}
	if allowed, exists := AllowedClientContentTypes[strings.ToLower(mediaType)]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: file type '%s' is not allowed, upload a PDF statement", ErrValidationFailed, contentType)
	}
	return nil
}

// ValidateFileContentByMagicBytes applies the extractor's PDF signature check to
// the start of the file and rewinds it for the reader that follows.
func ValidateFileContentByMagicBytes(file io.ReadSeeker) error {
	if file == nil {
		return fmt.Errorf("file is nil")
	}

	buffer := make([]byte, extractor.SignatureWindow)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	if n == 0 {
		return fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}
	if !extractor.LooksLikePDF(buffer[:n]) {
		logger.L.Warn("File rejected: PDF signature not found")
		return fmt.Errorf("%w: file does not look like a PDF", ErrValidationFailed)
	}
	return nil
}
