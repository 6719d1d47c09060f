// Package testpdf builds small text-only PDF files for tests.
package testpdf

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	FontSize   = 10
	pageHeight = 595
	lineHeight = 12
)

// Build returns a PDF with one page per element of pages. Every line is drawn
// at x=0 in 10pt Courier, so character n of a line starts at column n.
func Build(pages ...[]string) []byte {
	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalog := add("")
	pagesObj := add("")
	font := add(courier())

	var kids []string
	for _, lines := range pages {
		content := pageContent(lines)
		stream := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		page := add(fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 842 %d] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, pageHeight, font, stream))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj)
	objects[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalog, xref)
	return buf.Bytes()
}

func courier() string {
	widths := strings.TrimSpace(strings.Repeat("600 ", 126-32+1))
	return "<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding" +
		" /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>"
}

func pageContent(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		y := pageHeight - 20 - i*lineHeight
		fmt.Fprintf(&b, "BT /F1 %d Tf 1 0 0 1 0 %d Tm (%s) Tj ET\n", FontSize, y, escape(line))
	}
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
