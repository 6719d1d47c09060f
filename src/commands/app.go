package commands

import (
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/username/ubextract/src/config"
	"github.com/username/ubextract/src/extractor"
	"github.com/username/ubextract/src/metrics"
	"github.com/username/ubextract/src/parsers/unionbank"
	"github.com/username/ubextract/src/processors"
	"github.com/username/ubextract/src/services"
)

// newConversionService wires extraction, parsing and classification for the
// configured statement layout. m may be nil.
func newConversionService(cfg *config.AppConfig, m *metrics.Metrics) (services.ConversionService, error) {
	layout, err := unionbank.LoadLayout(cfg.StatementLayoutPath)
	if err != nil {
		return nil, fmt.Errorf("loading statement layout: %w", err)
	}

	resultCache := cache.New(cfg.ResultCacheTTL, services.CacheCleanupInterval)

	return services.NewConversionService(
		extractor.New(layout.CellWidth),
		unionbank.NewParser(layout),
		processors.NewTransactionProcessor(layout.POSKeywords),
		resultCache,
		m,
	), nil
}
