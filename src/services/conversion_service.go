// src/services/conversion_service.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/ubextract/src/exporters"
	"github.com/username/ubextract/src/extractor"
	"github.com/username/ubextract/src/logger"
	"github.com/username/ubextract/src/metrics"
	"github.com/username/ubextract/src/models"
	"github.com/username/ubextract/src/parsers/unionbank"
	"github.com/username/ubextract/src/processors"
)

const (
	ckConversion           = "conversion_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
	idLength               = 16
)

type conversionServiceImpl struct {
	extractor            *extractor.Extractor
	parser               *unionbank.Parser
	transactionProcessor *processors.TransactionProcessor
	resultCache          *cache.Cache
	metrics              *metrics.Metrics
}

func NewConversionService(
	ext *extractor.Extractor,
	parser *unionbank.Parser,
	transactionProcessor *processors.TransactionProcessor,
	resultCache *cache.Cache,
	m *metrics.Metrics,
) ConversionService {
	return &conversionServiceImpl{
		extractor:            ext,
		parser:               parser,
		transactionProcessor: transactionProcessor,
		resultCache:          resultCache,
		metrics:              m,
	}
}

// ContentID identifies an upload by its bytes so that two different files
// with the same name never share results.
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:idLength]
}

func (s *conversionServiceImpl) Convert(ctx context.Context, filename string, data []byte) (*models.Conversion, error) {
	log := logger.FromContext(ctx)
	id := ContentID(data)
	cacheKey := fmt.Sprintf(ckConversion, id)

	if cached, found := s.resultCache.Get(cacheKey); found {
		conv := *cached.(*models.Conversion)
		conv.Filename = filename
		s.resultCache.SetDefault(cacheKey, &conv)
		log.Info("Returning cached conversion", "conversionID", id, "filename", filename)
		s.metrics.RecordConversion(metrics.OutcomeCached, len(conv.Transactions), len(conv.Warnings), 0)
		return &conv, nil
	}

	start := time.Now()
	doc, err := s.extractor.Extract(ctx, data)
	if err != nil {
		var extractionErr *extractor.ExtractionError
		if errors.As(err, &extractionErr) {
			log.Warn("PDF extraction failed", "filename", filename, "kind", extractionErr.Kind, "error", err)
			s.metrics.RecordConversion(metrics.OutcomeExtractionError, 0, 0, time.Since(start))
			return nil, err
		}
		log.Error("Unexpected error extracting PDF", "filename", filename, "error", err)
		s.metrics.RecordConversion(metrics.OutcomeError, 0, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}

	rawText := s.parser.Clean(doc.Pages)
	result := s.parser.Parse(ctx, rawText)
	txs := s.transactionProcessor.Process(result.Transactions)

	conv := &models.Conversion{
		ID:           id,
		Filename:     filename,
		Pages:        len(doc.Pages),
		RawText:      rawText,
		Transactions: txs,
		NonPOS:       processors.Partition(txs),
		Warnings:     result.Warnings,
		CreatedAt:    time.Now().UTC(),
	}
	s.resultCache.SetDefault(cacheKey, conv)

	log.Info("Statement converted",
		"conversionID", id,
		"filename", filename,
		"pages", conv.Pages,
		"transactions", len(conv.Transactions),
		"nonPOS", len(conv.NonPOS),
		"warnings", len(conv.Warnings))
	s.metrics.RecordConversion(metrics.OutcomeOK, len(conv.Transactions), len(conv.Warnings), time.Since(start))
	return conv, nil
}

func (s *conversionServiceImpl) Get(id string) (*models.Conversion, error) {
	if len(id) != idLength {
		return nil, ErrConversionNotFound
	}
	if cached, found := s.resultCache.Get(fmt.Sprintf(ckConversion, id)); found {
		return cached.(*models.Conversion), nil
	}
	return nil, ErrConversionNotFound
}

func (s *conversionServiceImpl) Render(conv *models.Conversion, file string) (*RenderedFile, error) {
	out, ok := exporters.Lookup(file)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, file)
	}

	var data []byte
	var err error
	switch out.Name {
	case exporters.FileCSV:
		data, err = exporters.CSV(conv.Transactions)
	case exporters.FileNonPOSCSV:
		data, err = exporters.CSV(conv.NonPOS)
	case exporters.FileTXT:
		data = exporters.TXT(conv.RawText)
	case exporters.FileXLSX:
		data, err = exporters.XLSX(conv.Transactions, conv.NonPOS)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, file)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", out.Name, err)
	}
	return &RenderedFile{Name: out.Name, ContentType: out.ContentType, Data: data}, nil
}
