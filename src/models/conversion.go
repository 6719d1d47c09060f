package models

import "time"

// Conversion is everything derived from one uploaded statement.
type Conversion struct {
	ID           string         `json:"id"` // Content hash of the uploaded bytes
	Filename     string         `json:"filename"`
	Pages        int            `json:"pages"`
	RawText      string         `json:"raw_text"`
	Transactions []Transaction  `json:"transactions"`
	NonPOS       []Transaction  `json:"non_pos"`
	Warnings     []ParseWarning `json:"warnings"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Preview returns at most n transactions from the start of the statement.
func (c *Conversion) Preview(n int) []Transaction {
	if n >= len(c.Transactions) {
		return c.Transactions
	}
	return c.Transactions[:n]
}
