package processors

import (
	"context"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/ubextract/src/extractor/testpdf"
	"github.com/username/ubextract/src/models"
	"github.com/username/ubextract/src/parsers/unionbank"
)

func TestIsPOS(t *testing.T) {
	p := NewTransactionProcessor([]string{"POS"})
	tests := []struct {
		desc, details string
		want          bool
	}{
		{"BLERJE NE POS", "", true},
		{"GROCERY STORE POS", "", true},
		{"blerje ne pos", "", true},
		{"TRANSFERTE", "Pagese POS/CONAD", true},
		{"POSTA SHQIPTARE", "", false},
		{"DEPOSIT", "EXPOSURE", false},
		{"TRANSFERTE", "", false},
	}
	for _, tt := range tests {
		got := p.IsPOS(models.Transaction{Description: tt.desc, Details: tt.details})
		assert.Equal(t, tt.want, got, "%q / %q", tt.desc, tt.details)
	}
}

func TestIsPOS_MultipleKeywordsAndEmpty(t *testing.T) {
	p := NewTransactionProcessor([]string{"POS", " e-commerce "})
	assert.True(t, p.IsPOS(models.Transaction{Description: "Blerje E-COMMERCE"}))

	none := NewTransactionProcessor([]string{"  "})
	assert.False(t, none.IsPOS(models.Transaction{Description: "BLERJE NE POS"}))
}

func TestIsPOS_Terminal(t *testing.T) {
	p := NewTransactionProcessor([]string{"POS"})
	assert.True(t, p.IsPOS(models.Transaction{Description: "BLERJE ME KARTE", Terminal: "T0012345"}))
	assert.False(t, p.IsPOS(models.Transaction{Description: "TERHEQJE ATM", CardNumber: "4111XXXXXXXX1111"}))
	assert.False(t, p.IsPOS(models.Transaction{Description: "TERHEQJE ATM", Terminal: "  "}))
}

func TestProcess_CardBlockWithoutKeyword(t *testing.T) {
	text := strings.Join([]string{
		"05-JAN-2024",
		testpdf.AmountsRow("BLERJE ME KARTE", "1,250.00", "", "48,750.00"),
		"Detajet: CONAD TIRANA",
		"Referenca: 400512345678",
		"Nr i Kartes: 4111XXXXXXXX1111",
		"Data/Ora: 04-01-2024 18:42",
		"Terminali: T0012345",
		"06-JAN-2024",
		testpdf.AmountsRow("TERHEQJE ATM", "2,000.00", "", "46,750.00"),
		"Detajet: ATM BLLOKU",
	}, "\n")

	parser := unionbank.NewParser(nil)
	res := parser.Parse(context.Background(), text)
	require.Len(t, res.Transactions, 2)

	txs := NewTransactionProcessor(parser.Layout().POSKeywords).Process(res.Transactions)
	assert.True(t, txs[0].POS)
	assert.False(t, txs[1].POS)

	rest := Partition(txs)
	require.Len(t, rest, 1)
	assert.Equal(t, "TERHEQJE ATM", rest[0].Description)
}

func TestProcess_DoesNotMutateInput(t *testing.T) {
	in := []models.Transaction{{Description: "BLERJE NE POS"}, {Description: "PAGA"}}
	out := NewTransactionProcessor([]string{"POS"}).Process(in)

	require.Len(t, out, 2)
	assert.True(t, out[0].POS)
	assert.False(t, out[1].POS)
	assert.False(t, in[0].POS)
}

func TestPartition(t *testing.T) {
	faker := gofakeit.New(7)
	p := NewTransactionProcessor([]string{"POS"})

	var txs []models.Transaction
	for i := 0; i < 200; i++ {
		desc := faker.Company()
		if faker.Bool() {
			desc += " POS"
		}
		txs = append(txs, models.Transaction{Line: i + 1, Description: desc})
	}
	txs = p.Process(txs)
	rest := Partition(txs)

	// Non-POS output is an order-preserving subset of the input.
	j := 0
	for _, tx := range txs {
		if tx.POS {
			continue
		}
		require.Less(t, j, len(rest))
		assert.Equal(t, tx, rest[j])
		j++
	}
	assert.Equal(t, len(rest), j)
	for _, tx := range rest {
		assert.False(t, tx.POS)
	}
}

func TestPartition_Empty(t *testing.T) {
	assert.Empty(t, Partition(nil))
}
