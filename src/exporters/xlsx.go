package exporters

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/ubextract/src/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetAll    = "Te gjitha"
	SheetNonPOS = "Jo POS"
)

// XLSX returns a workbook with the full list and the non-POS list on two sheets.
func XLSX(all, nonPOS []models.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAll); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetNonPOS); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeSheet(f, SheetAll, all); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetNonPOS, nonPOS); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, txs []models.Transaction) error {
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}

	for i, tx := range txs {
		r := toRow(tx)
		values := []interface{}{
			r.Date, r.Description, r.Details, r.Beneficiary, r.Reference, r.CardNumber,
			r.Timestamp, r.Terminal,
			amountCell(tx.Debit), amountCell(tx.Credit), amountCell(tx.Balance), amountCell(tx.Amount),
			r.POS,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// amountCell keeps amounts numeric in the workbook; absent amounts stay blank.
func amountCell(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
