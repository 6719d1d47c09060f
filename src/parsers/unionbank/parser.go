// src/parsers/unionbank/parser.go
package unionbank

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/username/ubextract/src/logger"
	"github.com/username/ubextract/src/models"
)

var (
	// A block record opens with the booking date alone on its line.
	blockDatePattern = regexp.MustCompile(`^\d{2}-[A-Z]{3}-\d{4}$`)
	amountPattern    = regexp.MustCompile(`\d[\d,]*\.\d{2}`)
	// Compact records carry date, description and amount (optionally followed
	// by the running balance) on a single line.
	compactPattern = regexp.MustCompile(
		`^(\d{2}[/.]\d{2}[/.]\d{4}|\d{2}-\d{2}-\d{4}|\d{2}-[A-Z]{3}-\d{4})\s+(.*?\S)\s+(-?\d[\d,]*\.\d{2})(?:\s+(-?\d[\d,]*\.\d{2}))?$`,
	)
)

// Warning reasons.
const (
	ReasonUnrecognized = "line does not match a transaction pattern"
	ReasonNoAmounts    = "date line is not followed by an amounts line"
	ReasonNoBalance    = "amounts line has no balance column"
)

// Result is the outcome of parsing one statement's RawText.
type Result struct {
	Transactions []models.Transaction
	Warnings     []models.ParseWarning
}

// Parser turns cleaned statement text into transactions.
type Parser struct {
	layout  *Layout
	cleaner *Cleaner
}

// NewParser creates a parser for the given layout. A nil layout uses the
// embedded default.
func NewParser(layout *Layout) *Parser {
	if layout == nil {
		layout = DefaultLayout()
	}
	return &Parser{layout: layout, cleaner: NewCleaner(layout.HeaderMarkers)}
}

// Layout returns the layout the parser was built with.
func (p *Parser) Layout() *Layout { return p.layout }

// Clean removes page furniture from the extracted pages and returns RawText.
func (p *Parser) Clean(pages []string) string {
	return p.cleaner.CleanPages(pages)
}

// Parse scans RawText line by line. Unmatched lines become warnings; they
// never make the parse fail. Transactions keep document order.
func (p *Parser) Parse(ctx context.Context, rawText string) Result {
	log := logger.FromContext(ctx)
	var res Result
	if rawText == "" {
		return res
	}

	s := &scan{p: p, lines: strings.Split(rawText, "\n")}
	for s.i < len(s.lines) {
		line := s.lines[s.i]
		if tx, ok := p.parseCompact(line, s.i); ok {
			res.Transactions = append(res.Transactions, tx)
			s.i++
			continue
		}
		if !isBlockDate(line) {
			res.Warnings = append(res.Warnings, warning(s.i, line, ReasonUnrecognized))
			s.i++
			continue
		}
		tx, reason := s.block()
		if reason != "" {
			res.Warnings = append(res.Warnings, warning(s.i, line, reason))
			s.i++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	for _, w := range res.Warnings {
		log.Debug("Skipping statement line", "line", w.Line, "reason", w.Reason, "text", w.Text)
	}
	return res
}

func warning(idx int, line, reason string) models.ParseWarning {
	return models.ParseWarning{Line: idx + 1, Text: strings.TrimSpace(line), Reason: reason}
}

func isBlockDate(line string) bool {
	return blockDatePattern.MatchString(strings.TrimSpace(line))
}

func (p *Parser) isRecordStart(line string) bool {
	if isBlockDate(line) {
		return true
	}
	_, ok := p.parseCompact(line, 0)
	return ok
}

func (p *Parser) parseCompact(line string, idx int) (models.Transaction, bool) {
	m := compactPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return models.Transaction{}, false
	}
	desc := strings.TrimSpace(m[2])
	if !strings.ContainsFunc(desc, unicode.IsLetter) {
		return models.Transaction{}, false
	}
	amount := parseAmount(m[3])
	if !amount.Valid {
		return models.Transaction{}, false
	}
	return models.Transaction{
		Line:        idx + 1,
		Date:        m[1],
		Description: desc,
		Amount:      amount,
		Balance:     parseAmount(m[4]),
	}, true
}

// amounts is the split of a block's amounts line.
type amounts struct {
	prefix                 string
	debit, credit, balance decimal.NullDecimal
}

// splitAmounts assigns every amount on the line to a column by the character
// position where it starts. Text before the first amount is the transaction type.
func (p *Parser) splitAmounts(line string) amounts {
	var a amounts
	cols := p.layout.Columns
	locs := amountPattern.FindAllStringIndex(line, -1)
	for _, loc := range locs {
		col := utf8.RuneCountInString(line[:loc[0]])
		value := parseAmount(line[loc[0]:loc[1]])
		switch {
		case col >= cols.Balance:
			a.balance = value
		case col >= cols.Credit:
			a.credit = value
		case col >= cols.Debit:
			a.debit = value
		}
	}
	if len(locs) > 0 {
		a.prefix = strings.TrimSpace(line[:locs[0][0]])
	} else {
		a.prefix = strings.TrimSpace(line)
	}
	return a
}

func parseAmount(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// scan is the cursor over RawText lines used while reading block records.
type scan struct {
	p     *Parser
	lines []string
	i     int
}

func (s *scan) at(idx int) (string, bool) {
	if idx < 0 || idx >= len(s.lines) {
		return "", false
	}
	return s.lines[idx], true
}

func (s *scan) startsRecord(idx int) bool {
	line, ok := s.at(idx)
	return ok && s.p.isRecordStart(line)
}

// nextRecord returns the first index >= from that starts a record, or len(lines).
func (s *scan) nextRecord(from int) int {
	j := from
	for j < len(s.lines) && !s.p.isRecordStart(s.lines[j]) {
		j++
	}
	return j
}

// block reads the record whose date line is at s.i. On success it advances
// s.i past the record; otherwise it returns the warning reason and leaves s.i.
func (s *scan) block() (models.Transaction, string) {
	start := s.i
	amountsLine, ok := s.at(start + 1)
	if !ok || s.startsRecord(start+1) {
		return models.Transaction{}, ReasonNoAmounts
	}
	a := s.p.splitAmounts(amountsLine)
	if !a.balance.Valid {
		return models.Transaction{}, ReasonNoBalance
	}

	tx := models.Transaction{
		Line:        start + 1,
		Date:        strings.TrimSpace(s.lines[start]),
		Description: a.prefix,
		Debit:       a.debit,
		Credit:      a.credit,
		Balance:     a.balance,
	}
	switch {
	case a.debit.Valid:
		tx.Amount = a.debit
	case a.credit.Valid:
		tx.Amount = a.credit
	}

	// Details sit right after the amounts line, or one line later when the
	// transaction type wraps onto a second line.
	detailsAt := -1
	for off := 2; off <= 3; off++ {
		if off == 3 && s.startsRecord(start+2) {
			break
		}
		line, ok := s.at(start + off)
		if !ok {
			break
		}
		if v, found := labelDetails.find(line); found {
			tx.Details = v
			detailsAt = start + off
			if off == 3 {
				tx.Description = strings.TrimSpace(tx.Description + " " + strings.TrimSpace(s.lines[start+2]))
			}
			break
		}
	}

	if tx.Details == "" {
		// Fees and interest carry no details; anything up to the next record
		// belongs to this one.
		s.i = s.nextRecord(start + 2)
		return tx, ""
	}

	next := detailsAt + 1
	if line, ok := s.at(next); ok {
		if v, found := findBeneficiary(line); found {
			parts := []string{}
			if v != "" {
				parts = append(parts, v)
			}
			end := s.nextRecord(next + 1)
			for _, cont := range s.lines[next+1 : end] {
				if cont = strings.TrimSpace(cont); cont != "" {
					parts = append(parts, cont)
				}
			}
			tx.Beneficiary = strings.Join(parts, " ")
			s.i = end
			return tx, ""
		}
		if s.p.isRecordStart(line) {
			s.i = next
			return tx, ""
		}
	}

	// Card transaction: reference, card number, timestamp and terminal follow
	// on consecutive lines.
	fields := []struct {
		l   label
		dst *string
	}{
		{labelReference, &tx.Reference},
		{labelCardNumber, &tx.CardNumber},
		{labelTimestamp, &tx.Timestamp},
		{labelTerminal, &tx.Terminal},
	}
	idx := next
	for _, f := range fields {
		line, ok := s.at(idx)
		if !ok || s.p.isRecordStart(line) {
			break
		}
		*f.dst, _ = f.l.find(line)
		idx++
	}
	s.i = idx
	return tx, ""
}

func findBeneficiary(line string) (string, bool) {
	if v, ok := labelBeneficiary.find(line); ok {
		return v, true
	}
	return labelOrderedBy.find(line)
}
