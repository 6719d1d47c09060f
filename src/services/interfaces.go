// src/services/interfaces.go
package services

import (
	"context"
	"errors"

	"github.com/username/ubextract/src/models"
)

// Define common service errors
var (
	ErrConversionNotFound = errors.New("conversion not found or expired")
	ErrUnknownOutput      = errors.New("unknown output file")
	ErrProcessingFailed   = errors.New("statement processing failed")
)

// RenderedFile is one downloadable output of a conversion.
type RenderedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ConversionService turns uploaded statements into transactions and renders
// the downloadable outputs.
type ConversionService interface {
	// Convert extracts, parses and classifies the statement in data. A failure
	// to read the document is returned as *extractor.ExtractionError.
	Convert(ctx context.Context, filename string, data []byte) (*models.Conversion, error)
	// Get returns a previously converted statement by its ID.
	Get(id string) (*models.Conversion, error)
	// Render builds the named output file for a conversion.
	Render(conv *models.Conversion, file string) (*RenderedFile, error)
}
