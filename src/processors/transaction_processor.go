// src/processors/transaction_processor.go
package processors

import (
	"regexp"
	"strings"

	"github.com/username/ubextract/src/models"
)

// TransactionProcessor enriches parsed statement transactions with data that
// is not read directly from a single field.
type TransactionProcessor struct {
	pos *regexp.Regexp
}

// NewTransactionProcessor builds a processor that flags a transaction as POS
// when any keyword occurs as a whole word in its description or details, or
// when the record names a card terminal. Keyword matching ignores case.
func NewTransactionProcessor(posKeywords []string) *TransactionProcessor {
	var alts []string
	for _, k := range posKeywords {
		if k = strings.TrimSpace(k); k != "" {
			alts = append(alts, regexp.QuoteMeta(k))
		}
	}
	if len(alts) == 0 {
		return &TransactionProcessor{}
	}
	return &TransactionProcessor{pos: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)}
}

// IsPOS reports whether the transaction was made at a point of sale. A card
// number alone is not enough: ATM withdrawals carry one too.
func (p *TransactionProcessor) IsPOS(tx models.Transaction) bool {
	if strings.TrimSpace(tx.Terminal) != "" {
		return true
	}
	if p.pos == nil {
		return false
	}
	return p.pos.MatchString(tx.Description) || p.pos.MatchString(tx.Details)
}

// Process sets the POS flag on a copy of txs.
func (p *TransactionProcessor) Process(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		tx.POS = p.IsPOS(tx)
		out[i] = tx
	}
	return out
}

// Partition returns the transactions that are not POS, keeping their order.
func Partition(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.POS {
			out = append(out, tx)
		}
	}
	return out
}
