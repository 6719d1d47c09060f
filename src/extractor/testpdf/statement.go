package testpdf

import (
	"fmt"
	"strings"
)

// Counts for the fixture returned by StatementPages.
const (
	StatementTransactions = 4
	StatementPOS          = 2
	StatementWarnings     = 1
)

// AmountsRow lays out a statement amounts line with the type text at column 0
// and debit, credit and balance starting at columns 60, 80 and 100.
func AmountsRow(prefix, debit, credit, balance string) string {
	line := []rune(fmt.Sprintf("%-120s", prefix))
	for col, s := range map[int]string{60: debit, 80: credit, 100: balance} {
		copy(line[col:], []rune(s))
	}
	return strings.TrimRight(string(line), " ")
}

// StatementPages is a two-page Union Bank statement: a card purchase, an
// incoming transfer, a monthly fee, one compact-format line and a totals line
// that is not a transaction.
func StatementPages() [][]string {
	return [][]string{
		{
			"UNION BANK                                        NXJERRJE LLOGARIE",
			"KLIENTI: ARBEN KRASNIQI",
			"LLOGARIA: 1234567890 ALL",
			"FAQE NR. 1",
			"DATA  TIPI I TRANSAKSIONIT                                  DEBI                KREDI               BALANCA",
			strings.Repeat("-", 110),
			"05-JAN-2024",
			AmountsRow("BLERJE NE POS", "1,250.00", "", "48,750.00"),
			"Detajet: CONAD TIRANA",
			"Referenca: 400512345678",
			"Nr i Kartes: 4111XXXXXXXX1111",
			"Data/Ora: 04-01-2024 18:42",
			"Terminali: T0012345",
			"10-JAN-2024",
			AmountsRow("TRANSFERTE HYRESE", "", "35,000.00", "83,750.00"),
			"Detajet: PAGA JANAR",
			"Perfituesi: ARBEN KRASNIQI",
		},
		{
			"FAQE NR. 2",
			"31-JAN-2024",
			AmountsRow("Komisione te tjera ne llogari", "150.00", "", "83,600.00"),
			"01/02/2024  GROCERY STORE POS  1,200.00",
			"TOTALI I LEVIZJEVE",
		},
	}
}

// Statement builds the StatementPages fixture as a PDF.
func Statement() []byte {
	return Build(StatementPages()...)
}
