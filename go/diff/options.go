package diff

// Options controls how the comparison treats names, types and
// expressions.
type Options struct {
	// CaseSensitive compares table and column names exactly. When false
	// (the default), names are matched case-insensitively, matching how
	// PostgreSQL folds unquoted identifiers.
	CaseSensitive bool `mapstructure:"case-sensitive"`

	// NormalizeTypes compares data types through NormalizeTypeName, so
	// int4 matches integer and varchar(50) matches character varying(50).
	NormalizeTypes bool `mapstructure:"normalize-types"`

	// IgnoreWhitespace compares expressions with all whitespace removed.
	IgnoreWhitespace bool `mapstructure:"ignore-whitespace"`

	// IgnoreConstraintNames matches constraints by their definition only,
	// useful when one side carries system-generated names.
	IgnoreConstraintNames bool `mapstructure:"ignore-constraint-names"`
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() Options {
	return Options{
		NormalizeTypes:   true,
		IgnoreWhitespace: true,
	}
}
