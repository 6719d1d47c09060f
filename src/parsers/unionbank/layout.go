package unionbank

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_layout.yaml
var defaultLayoutYAML []byte

// ErrInvalidLayout is returned when a layout file is structurally valid YAML
// but cannot describe a statement.
var ErrInvalidLayout = errors.New("invalid statement layout")

// Columns are the character columns at which amounts start on the amounts line.
type Columns struct {
	Debit   int `yaml:"debit"`
	Credit  int `yaml:"credit"`
	Balance int `yaml:"balance"`
}

// Layout describes the fixed-format details of the printed statement.
type Layout struct {
	HeaderMarkers []string `yaml:"header_markers"`
	POSKeywords   []string `yaml:"pos_keywords"`
	Columns       Columns  `yaml:"columns"`
	CellWidth     float64  `yaml:"cell_width"`
}

// DefaultLayout returns the embedded Union Bank layout.
func DefaultLayout() *Layout {
	l, err := decodeLayout(&Layout{}, defaultLayoutYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded layout: %v", err))
	}
	return l
}

// LoadLayout reads a YAML override from path. Keys missing from the file keep
// their default values. An empty path returns the default layout.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	return ParseLayout(data)
}

// ParseLayout applies YAML data on top of the default layout.
func ParseLayout(data []byte) (*Layout, error) {
	return decodeLayout(DefaultLayout(), data)
}

func decodeLayout(base *Layout, data []byte) (*Layout, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(base); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// Validate checks that the layout can be used by the parser.
func (l *Layout) Validate() error {
	for i, m := range l.HeaderMarkers {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%w: header_markers[%d] is blank", ErrInvalidLayout, i)
		}
	}
	if len(l.POSKeywords) == 0 {
		return fmt.Errorf("%w: pos_keywords must not be empty", ErrInvalidLayout)
	}
	for i, k := range l.POSKeywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: pos_keywords[%d] is blank", ErrInvalidLayout, i)
		}
	}
	c := l.Columns
	if c.Debit < 0 || c.Debit >= c.Credit || c.Credit >= c.Balance {
		return fmt.Errorf("%w: columns must satisfy 0 <= debit < credit < balance (got %d, %d, %d)",
			ErrInvalidLayout, c.Debit, c.Credit, c.Balance)
	}
	if l.CellWidth <= 0 {
		return fmt.Errorf("%w: cell_width must be positive", ErrInvalidLayout)
	}
	return nil
}
