package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/ubextract/src/exporters"
	"github.com/username/ubextract/src/extractor"
	"github.com/username/ubextract/src/extractor/testpdf"
	"github.com/username/ubextract/src/metrics"
	"github.com/username/ubextract/src/parsers/unionbank"
	"github.com/username/ubextract/src/processors"
)

func newTestService(t *testing.T) (ConversionService, *metrics.Metrics) {
	t.Helper()
	layout := unionbank.DefaultLayout()
	m := metrics.New()
	svc := NewConversionService(
		extractor.New(layout.CellWidth),
		unionbank.NewParser(layout),
		processors.NewTransactionProcessor(layout.POSKeywords),
		cache.New(DefaultCacheExpiration, CacheCleanupInterval),
		m,
	)
	return svc, m
}

func TestContentID(t *testing.T) {
	faker := gofakeit.New(1)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := ContentID([]byte(faker.Paragraph(1, 3, 10, " ")))
		assert.Len(t, id, 16)
		assert.Regexp(t, `^[0-9a-f]{16}$`, id)
		seen[id] = true
	}
	assert.Len(t, seen, 50)
	assert.Equal(t, ContentID([]byte("same")), ContentID([]byte("same")))
}

func TestConvert_Statement(t *testing.T) {
	svc, _ := newTestService(t)
	data := testpdf.Statement()

	conv, err := svc.Convert(context.Background(), "statement.pdf", data)
	require.NoError(t, err)

	assert.Equal(t, ContentID(data), conv.ID)
	assert.Equal(t, "statement.pdf", conv.Filename)
	assert.Equal(t, 2, conv.Pages)
	require.Len(t, conv.Transactions, testpdf.StatementTransactions)
	assert.Len(t, conv.NonPOS, testpdf.StatementTransactions-testpdf.StatementPOS)
	assert.Len(t, conv.Warnings, testpdf.StatementWarnings)
	assert.NotContains(t, conv.RawText, "KLIENTI:")
	assert.NotContains(t, conv.RawText, "FAQE NR.")

	first := conv.Transactions[0]
	assert.Equal(t, "05-JAN-2024", first.Date)
	assert.Equal(t, "CONAD TIRANA", first.Details)
	assert.Equal(t, "T0012345", first.Terminal)
	assert.True(t, first.POS)

	last := conv.Transactions[3]
	assert.Equal(t, "01/02/2024", last.Date)
	assert.Equal(t, "GROCERY STORE POS", last.Description)
	assert.True(t, last.POS)

	for _, tx := range conv.NonPOS {
		assert.False(t, tx.POS)
	}
}

func TestConvert_CachedByContent(t *testing.T) {
	svc, m := newTestService(t)
	data := testpdf.Statement()

	first, err := svc.Convert(context.Background(), "a.pdf", data)
	require.NoError(t, err)
	second, err := svc.Convert(context.Background(), "b.pdf", data)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "b.pdf", second.Filename)
	assert.Equal(t, first.Transactions, second.Transactions)
	assert.Equal(t, "a.pdf", first.Filename, "earlier result is not mutated")

	series, err := testutil.GatherAndCount(m.Registry(), "ubextract_conversion_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series, "one ok and one cached outcome")
}

func TestConvert_ExtractionError(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Convert(context.Background(), "notes.pdf", []byte("just some text"))
	var extractionErr *extractor.ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, extractor.KindNotPDF, extractionErr.Kind)

	_, err = svc.Get(ContentID([]byte("just some text")))
	assert.ErrorIs(t, err, ErrConversionNotFound)
}

func TestConvert_ZeroTransactions(t *testing.T) {
	svc, _ := newTestService(t)
	data := testpdf.Build([]string{"UNION BANK", "NXJERRJE LLOGARIE", "Nothing to see here"})

	conv, err := svc.Convert(context.Background(), "empty.pdf", data)
	require.NoError(t, err)
	assert.Empty(t, conv.Transactions)

	file, err := svc.Render(conv, exporters.FileCSV)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(exporters.Header, ",")+"\n", string(file.Data))
}

func TestGet(t *testing.T) {
	svc, _ := newTestService(t)
	conv, err := svc.Convert(context.Background(), "statement.pdf", testpdf.Statement())
	require.NoError(t, err)

	got, err := svc.Get(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv, got)

	_, err = svc.Get("0000000000000000")
	assert.ErrorIs(t, err, ErrConversionNotFound)
	_, err = svc.Get("../../etc")
	assert.ErrorIs(t, err, ErrConversionNotFound)
}

func TestRender(t *testing.T) {
	svc, _ := newTestService(t)
	conv, err := svc.Convert(context.Background(), "statement.pdf", testpdf.Statement())
	require.NoError(t, err)

	all, err := svc.Render(conv, exporters.FileCSV)
	require.NoError(t, err)
	assert.Equal(t, exporters.FileCSV, all.Name)
	assert.Contains(t, all.ContentType, "text/csv")
	assert.Equal(t, testpdf.StatementTransactions+1, strings.Count(string(all.Data), "\n"))

	nonPOS, err := svc.Render(conv, exporters.FileNonPOSCSV)
	require.NoError(t, err)
	assert.NotContains(t, string(nonPOS.Data), "GROCERY STORE POS")
	assert.Contains(t, string(all.Data), "GROCERY STORE POS")

	txt, err := svc.Render(conv, exporters.FileTXT)
	require.NoError(t, err)
	assert.Equal(t, conv.RawText, string(txt.Data))

	xlsx, err := svc.Render(conv, exporters.FileXLSX)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx.Data)

	again, err := svc.Render(conv, exporters.FileCSV)
	require.NoError(t, err)
	assert.Equal(t, all.Data, again.Data)

	_, err = svc.Render(conv, "passwords.txt")
	assert.ErrorIs(t, err, ErrUnknownOutput)
}
