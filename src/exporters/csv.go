// src/exporters/csv.go
package exporters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/username/ubextract/src/models"
	"github.com/username/ubextract/src/security/validation"
)

// csvRow is the on-disk column schema shared by the CSV and XLSX outputs.
type csvRow struct {
	Date        string `csv:"Data"`
	Description string `csv:"Pershkrimi"`
	Details     string `csv:"Detajet"`
	Beneficiary string `csv:"Perfituesi"`
	Reference   string `csv:"Referenca"`
	CardNumber  string `csv:"Nr i Kartes"`
	Timestamp   string `csv:"Data/Ora"`
	Terminal    string `csv:"Terminali"`
	Debit       string `csv:"Debi"`
	Credit      string `csv:"Kredi"`
	Balance     string `csv:"Balanca"`
	Amount      string `csv:"Shuma"`
	POS         string `csv:"POS"`
}

// Header is the column order of every tabular output.
var Header = []string{
	"Data", "Pershkrimi", "Detajet", "Perfituesi", "Referenca", "Nr i Kartes",
	"Data/Ora", "Terminali", "Debi", "Kredi", "Balanca", "Shuma", "POS",
}

func posLabel(pos bool) string {
	if pos {
		return "PO"
	}
	return "JO"
}

// toRow formats a transaction for export. Free-text columns are guarded
// against formula injection; amounts are plain decimals.
func toRow(tx models.Transaction) csvRow {
	s := validation.SanitizeForFormulaInjection
	return csvRow{
		Date:        s(tx.Date),
		Description: s(tx.Description),
		Details:     s(tx.Details),
		Beneficiary: s(tx.Beneficiary),
		Reference:   s(tx.Reference),
		CardNumber:  s(tx.CardNumber),
		Timestamp:   s(tx.Timestamp),
		Terminal:    s(tx.Terminal),
		Debit:       models.FormatAmount(tx.Debit),
		Credit:      models.FormatAmount(tx.Credit),
		Balance:     models.FormatAmount(tx.Balance),
		Amount:      models.FormatAmount(tx.Amount),
		POS:         posLabel(tx.POS),
	}
}

func toRows(txs []models.Transaction) []*csvRow {
	rows := make([]*csvRow, 0, len(txs))
	for _, tx := range txs {
		row := toRow(tx)
		rows = append(rows, &row)
	}
	return rows
}

// WriteCSV writes the header and one row per transaction to w.
func WriteCSV(w io.Writer, txs []models.Transaction) error {
	if err := gocsv.Marshal(toRows(txs), w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// CSV returns the CSV document for txs. An empty list yields the header only.
func CSV(txs []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TXT returns the cleaned statement text as the plain-text output.
func TXT(rawText string) []byte {
	return []byte(rawText)
}
