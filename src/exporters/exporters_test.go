package exporters

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/username/ubextract/src/models"
)

const headerLine = "Data,Pershkrimi,Detajet,Perfituesi,Referenca,Nr i Kartes,Data/Ora,Terminali,Debi,Kredi,Balanca,Shuma,POS"

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sample() []models.Transaction {
	return []models.Transaction{
		{
			Line: 1, Date: "05-JAN-2024", Description: "BLERJE NE POS", Details: "CONAD TIRANA",
			Reference: "400512345678", CardNumber: "4111XXXXXXXX1111", Timestamp: "04-01-2024 18:42", Terminal: "T0012345",
			Debit: amount("1250"), Balance: amount("48750"), Amount: amount("1250"), POS: true,
		},
		{
			Line: 8, Date: "10-JAN-2024", Description: "TRANSFERTE HYRESE", Details: "=HYPERLINK(\"x\")",
			Beneficiary: "ARBEN KRASNIQI", Credit: amount("35000"), Balance: amount("83750"), Amount: amount("35000"),
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	out, err := CSV(nil)
	require.NoError(t, err)
	assert.Equal(t, headerLine+"\n", string(out))
	assert.Equal(t, headerLine, strings.Join(Header, ","))
}

func TestCSV_Rows(t *testing.T) {
	out, err := CSV(sample())
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		"05-JAN-2024", "BLERJE NE POS", "CONAD TIRANA", "", "400512345678", "4111XXXXXXXX1111",
		"04-01-2024 18:42", "T0012345", "1250.00", "", "48750.00", "1250.00", "PO",
	}, records[1])
	assert.Equal(t, "'=HYPERLINK(\"x\")", records[2][2])
	assert.Equal(t, "35000.00", records[2][9])
	assert.Equal(t, "JO", records[2][12])
}

func TestCSV_CompactLine(t *testing.T) {
	out, err := CSV([]models.Transaction{{Date: "01/02/2024", Description: "GROCERY STORE POS", Amount: amount("1200"), POS: true}})
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 2)
	assert.Equal(t, "01/02/2024", records[1][0])
	assert.Equal(t, "GROCERY STORE POS", records[1][1])
	assert.Equal(t, "1200.00", records[1][11])
}

func TestCSV_NegativeAmountsAreNotQuoted(t *testing.T) {
	out, err := CSV([]models.Transaction{{Date: "15.03.2024", Description: "REVERSAL", Amount: amount("-250.5")}})
	require.NoError(t, err)
	assert.Equal(t, "-250.50", readCSV(t, out)[1][11])
}

func TestCSV_Deterministic(t *testing.T) {
	a, err := CSV(sample())
	require.NoError(t, err)
	b, err := CSV(sample())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTXT(t *testing.T) {
	assert.Equal(t, []byte("a\nb"), TXT("a\nb"))
	assert.Empty(t, TXT(""))
}

func TestXLSX(t *testing.T) {
	all := sample()
	out, err := XLSX(all, all[1:])
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAll, SheetNonPOS}, f.GetSheetList())

	rows, err := f.GetRows(SheetAll)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "BLERJE NE POS", rows[1][1])
	assert.Equal(t, "'=HYPERLINK(\"x\")", rows[2][2])

	rows, err = f.GetRows(SheetNonPOS)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TRANSFERTE HYRESE", rows[1][1])
}

func TestXLSX_Empty(t *testing.T) {
	out, err := XLSX(nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetNonPOS)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestLookup(t *testing.T) {
	o, ok := Lookup(FileNonPOSCSV)
	require.True(t, ok)
	assert.Contains(t, o.ContentType, "text/csv")

	_, ok = Lookup("../etc/passwd")
	assert.False(t, ok)
}
