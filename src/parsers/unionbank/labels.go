package unionbank

import (
	"regexp"
	"strings"
	"unicode"
)

// label matches a "Name: value" field. Text extraction sometimes splits a
// word in two ("Detaj et:", "Termi nali:"), so a single stray space is
// accepted between any two letters of the name.
type label struct {
	name string
	re   *regexp.Regexp
}

func newLabel(name string) label {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		b.WriteString(regexp.QuoteMeta(string(r)))
		if i+1 < len(runes) && !unicode.IsSpace(r) && !unicode.IsSpace(runes[i+1]) {
			b.WriteString(" ?")
		}
	}
	return label{name: name, re: regexp.MustCompile(b.String() + `:(.*)`)}
}

// find reports whether the label occurs in line and returns its trimmed value.
func (l label) find(line string) (string, bool) {
	m := l.re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

var (
	labelDetails     = newLabel("Detajet")
	labelBeneficiary = newLabel("Perfituesi")
	labelOrderedBy   = newLabel("Me Urdher Te")
	labelReference   = newLabel("Referenca")
	labelCardNumber  = newLabel("Nr i Kartes")
	labelTimestamp   = newLabel("Data/Ora")
	labelTerminal    = newLabel("Terminali")
)
