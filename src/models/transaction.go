// src/models/transaction.go
package models

import "github.com/shopspring/decimal"

// Transaction is one statement row recovered from the extracted text.
// Parsers populate every field except POS, which is set by the processor.
type Transaction struct {
	Line        int                 `json:"line"`        // 1-based RawText line where the record starts
	Date        string              `json:"date"`        // As printed on the statement
	Description string              `json:"description"` // Transaction type or free-text description
	Details     string              `json:"details"`     // "Detajet"
	Beneficiary string              `json:"beneficiary"` // "Perfituesi" / "Me Urdher Te"
	Reference   string              `json:"reference"`   // "Referenca"
	CardNumber  string              `json:"card_number"` // "Nr i Kartes"
	Timestamp   string              `json:"timestamp"`   // "Data/Ora"
	Terminal    string              `json:"terminal"`    // "Terminali"
	Debit       decimal.NullDecimal `json:"debit"`
	Credit      decimal.NullDecimal `json:"credit"`
	Balance     decimal.NullDecimal `json:"balance"`
	Amount      decimal.NullDecimal `json:"amount"` // Debit, else Credit, else the single amount of a compact line
	POS         bool                `json:"pos"`
}

// FormatAmount renders an optional amount with two decimals, or "" when absent.
func FormatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

// ParseWarning marks a RawText line that did not become part of a transaction.
// Warnings are reported to the user but never fail a conversion.
type ParseWarning struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}
