// src/extractor/pdf.go
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/username/ubextract/src/logger"
	"golang.org/x/text/unicode/norm"
)

// Kind classifies why a document could not be turned into text.
type Kind string

const (
	KindNotPDF     Kind = "not_pdf"
	KindUnreadable Kind = "unreadable"
	KindEmpty      Kind = "empty"
	KindNoText     Kind = "no_text"
)

// Message is the user-facing explanation for the kind.
func (k Kind) Message() string {
	switch k {
	case KindNotPDF:
		return "The uploaded file is not a PDF document."
	case KindUnreadable:
		return "The PDF could not be read. It may be damaged or encrypted."
	case KindEmpty:
		return "The PDF has no pages."
	case KindNoText:
		return "No text could be extracted from the PDF. Scanned statements are not supported."
	default:
		return "The PDF could not be processed."
	}
}

// ExtractionError is returned when a document yields no usable text.
type ExtractionError struct {
	Kind Kind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Document is the text of a statement, one entry per page in page order.
type Document struct {
	Pages []string
}

// SignatureWindow is how far into a file the "%PDF-" signature may start.
const SignatureWindow = 1024

const (
	// Advance of a monospaced glyph as a fraction of the font size.
	monoAdvance = 0.6
)

var pdfMagic = []byte("%PDF-")

// Extractor renders PDF pages to text, keeping each row's horizontal layout so
// that amounts stay in their columns.
type Extractor struct {
	cellWidth float64
}

// New returns an Extractor. cellWidth is the width of one character column in
// PDF points, used when a text run carries no font size.
func New(cellWidth float64) *Extractor {
	if cellWidth <= 0 {
		cellWidth = 6
	}
	return &Extractor{cellWidth: cellWidth}
}

// LooksLikePDF reports whether the PDF signature appears near the start of data.
func LooksLikePDF(data []byte) bool {
	window := data
	if len(window) > SignatureWindow {
		window = window[:SignatureWindow]
	}
	return bytes.Contains(window, pdfMagic)
}

// Extract returns the text of every page. Pages that fail to render are
// logged and left empty; the call fails only when no page has any text.
func (e *Extractor) Extract(ctx context.Context, data []byte) (doc *Document, err error) {
	log := logger.FromContext(ctx)
	if !LooksLikePDF(data) {
		return nil, &ExtractionError{Kind: KindNotPDF}
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &ExtractionError{Kind: KindUnreadable, Err: fmt.Errorf("pdf reader panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Kind: KindUnreadable, Err: err}
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, &ExtractionError{Kind: KindEmpty}
	}

	doc = &Document{Pages: make([]string, 0, total)}
	hasText := false
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := e.page(reader.Page(i))
		if err != nil {
			log.Warn("Skipping unreadable page", "page", i, "error", err)
			doc.Pages = append(doc.Pages, "")
			continue
		}
		text = norm.NFC.String(text)
		if strings.TrimSpace(text) != "" {
			hasText = true
		}
		doc.Pages = append(doc.Pages, text)
	}

	if !hasText {
		return nil, &ExtractionError{Kind: KindNoText}
	}
	log.Debug("PDF text extracted", "pages", total)
	return doc, nil
}

func (e *Extractor) page(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page panic: %v", r)
		}
	}()
	if p.V.IsNull() {
		return "", nil
	}
	rows, err := p.GetTextByRow()
	if err == nil {
		return e.render(rows), nil
	}
	plain, plainErr := p.GetPlainText(nil)
	if plainErr != nil {
		return "", fmt.Errorf("by row: %v; plain: %w", err, plainErr)
	}
	return plain, nil
}

// render lays rows out top to bottom.
func (e *Extractor) render(rows pdf.Rows) string {
	sorted := make(pdf.Rows, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	lines := make([]string, 0, len(sorted))
	for _, row := range sorted {
		lines = append(lines, e.renderRow(row.Content))
	}
	return strings.Join(lines, "\n")
}

// renderRow places each glyph run at the character column matching its X
// position. Runs that would overlap the text already written are appended.
func (e *Extractor) renderRow(texts pdf.TextHorizontal) string {
	ts := append(pdf.TextHorizontal(nil), texts...)
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].X < ts[j].X })

	var b strings.Builder
	width := 0
	for _, t := range ts {
		if col := e.column(t); col > width {
			b.WriteString(strings.Repeat(" ", col-width))
			width = col
		}
		b.WriteString(t.S)
		width += utf8.RuneCountInString(t.S)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func (e *Extractor) column(t pdf.Text) int {
	cell := e.cellWidth
	if t.FontSize > 0 {
		cell = t.FontSize * monoAdvance
	}
	if t.X <= 0 {
		return 0
	}
	return int(math.Round(t.X / cell))
}
