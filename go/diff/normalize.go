package diff

import (
	"strings"
)

// typeAliases maps PostgreSQL internal and shorthand type spellings to
// their canonical SQL names.
var typeAliases = map[string]string{
	"int":     "integer",
	"int2":    "smallint",
	"int4":    "integer",
	"int8":    "bigint",
	"float4":  "real",
	"float8":  "double precision",
	"bool":    "boolean",
	"dec":     "numeric",
	"decimal": "numeric",
	"varchar": "character varying",
	"char":    "character",
}

// NormalizeTypeName rewrites a data type name to a canonical form so that
// spellings like int4 and integer, or varchar(50) and character
// varying(50), compare equal. A leading schema qualifier is stripped only
// when the prefix before the first dot is alphabetic, leaving numeric
// literals such as 3.14 untouched.
func NormalizeTypeName(name string) string {
	s := collapseSpaces(strings.ToLower(strings.TrimSpace(name)))

	if dot := strings.IndexByte(s, '.'); dot > 0 {
		paren := strings.IndexByte(s, '(')
		if paren < 0 || dot < paren {
			if isAlphabetic(s[:dot]) {
				s = s[dot+1:]
			}
		}
	}

	s = strings.ReplaceAll(s, " without time zone", "")

	// timestamp [(n)] with time zone -> timestamptz [(n)]
	if head, found := strings.CutSuffix(s, " with time zone"); found {
		if rest, ok := strings.CutPrefix(head, "timestamp"); ok {
			s = "timestamptz" + rest
		}
	}

	base := s
	rest := ""
	if i := strings.IndexAny(s, "(["); i >= 0 {
		base, rest = strings.TrimSpace(s[:i]), s[i:]
	}
	if canonical, ok := typeAliases[base]; ok {
		s = canonical + rest
	}
	return s
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '_' {
			return false
		}
	}
	return true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripCast removes a trailing ::typename cast, repeatedly, so that
// 'x'::text and 'x' compare equal. Casts inside parentheses or quotes are
// left alone.
func stripCast(expr string) string {
	s := strings.TrimSpace(expr)
	for {
		i := lastTopLevelCast(s)
		if i < 0 {
			return s
		}
		tail := s[i+2:]
		if tail == "" || !isTypeNameText(tail) {
			return s
		}
		s = strings.TrimSpace(s[:i])
	}
}

// lastTopLevelCast returns the index of the last :: occurring at paren
// depth zero and outside string literals, or -1.
func lastTopLevelCast(s string) int {
	depth := 0
	inQuote := byte(0)
	last := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inQuote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth == 0 && i+1 < len(s) && s[i+1] == ':' {
				last = i
				i++
			}
		}
	}
	return last
}

// isTypeNameText reports whether s looks like a bare type name, so that
// stripCast does not eat operator text that merely contains colons.
func isTypeNameText(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == ' ' || c == '(' || c == ')' || c == '[' || c == ']' || c == ',' || c == '"':
		default:
			return false
		}
	}
	return true
}

// stripOuterParens removes parentheses that enclose the whole
// expression. pg_get_constraintdef wraps CHECK expressions in an extra
// pair that declared DDL usually lacks.
func stripOuterParens(s string) string {
	s = strings.TrimSpace(s)
	for parenWrapped(s) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func parenWrapped(s string) bool {
	if len(s) < 2 || s[0] != '(' {
		return false
	}
	depth := 0
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inQuote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// canonicalExpr strips enclosing parentheses and trailing casts until the
// text stops changing.
func canonicalExpr(s string) string {
	for {
		next := stripCast(stripOuterParens(s))
		if next == s {
			return s
		}
		s = next
	}
}

// exprEquivalent compares two opaque expressions after stripping
// enclosing parentheses and casts, optionally ignoring all whitespace.
// Comparison is case-insensitive since PostgreSQL folds keywords and
// function names.
func exprEquivalent(a, b string, opts Options) bool {
	sa, sb := canonicalExpr(a), canonicalExpr(b)
	if opts.IgnoreWhitespace {
		sa = removeSpaces(sa)
		sb = removeSpaces(sb)
	} else {
		sa = collapseSpaces(sa)
		sb = collapseSpaces(sb)
	}
	return strings.EqualFold(sa, sb)
}

func removeSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// typesEquivalent compares two data type spellings under the configured
// normalization.
func typesEquivalent(a, b string, opts Options) bool {
	if opts.NormalizeTypes {
		return NormalizeTypeName(a) == NormalizeTypeName(b)
	}
	return strings.EqualFold(collapseSpaces(strings.TrimSpace(a)), collapseSpaces(strings.TrimSpace(b)))
}

// nameKey folds an identifier for map lookup per the case-sensitivity
// option.
func nameKey(name string, opts Options) string {
	if opts.CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}
