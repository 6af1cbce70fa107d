package ast

import (
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

// QuoteIdentifier wraps an identifier in double quotes when necessary:
// when it is not entirely lowercase-alphanumeric-underscore, or when it
// collides with a reserved keyword. Interior quotes are doubled.
func QuoteIdentifier(name string) string {
	if name == "" {
		return name
	}

	needsQuote := keywords.IsReservedKeyword(name)
	if !needsQuote {
		for i := 0; i < len(name); i++ {
			c := name[i]
			if c >= 'a' && c <= 'z' || c == '_' {
				continue
			}
			if c >= '0' && c <= '9' && i > 0 {
				continue
			}
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteIdentifierList quotes and comma-joins a list of identifiers.
func quoteIdentifierList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}
