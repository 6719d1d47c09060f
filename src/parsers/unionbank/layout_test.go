package unionbank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	require.NoError(t, l.Validate())
	assert.Contains(t, l.HeaderMarkers, "NXJERRJE LLOGARIE")
	assert.Equal(t, []string{"POS"}, l.POSKeywords)
	assert.Equal(t, Columns{Debit: 60, Credit: 80, Balance: 100}, l.Columns)
	assert.Equal(t, 6.0, l.CellWidth)
}

func TestParseLayout_OverridesKeepDefaults(t *testing.T) {
	l, err := ParseLayout([]byte("pos_keywords: [POS, EPOS]\ncolumns:\n  debit: 50\n  credit: 70\n  balance: 95\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"POS", "EPOS"}, l.POSKeywords)
	assert.Equal(t, Columns{Debit: 50, Credit: 70, Balance: 95}, l.Columns)
	assert.Equal(t, DefaultLayout().HeaderMarkers, l.HeaderMarkers)
}

func TestParseLayout_Empty(t *testing.T) {
	l, err := ParseLayout(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), l)
}

func TestParseLayout_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":       "colums:\n  debit: 1\n",
		"empty keywords":    "pos_keywords: []\n",
		"blank keyword":     "pos_keywords: [\"  \"]\n",
		"blank marker":      "header_markers: [\"UNION BANK\", \"\"]\n",
		"unordered columns": "columns:\n  debit: 80\n  credit: 60\n  balance: 100\n",
		"zero cell width":   "cell_width: 0\n",
		"not yaml":          "columns: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLayout([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseLayout_ValidationErrorIsTyped(t *testing.T) {
	_, err := ParseLayout([]byte("cell_width: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestLoadLayout(t *testing.T) {
	l, err := LoadLayout("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), l)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cell_width: 5.5\n"), 0o600))
	l, err = LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, 5.5, l.CellWidth)

	_, err = LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
