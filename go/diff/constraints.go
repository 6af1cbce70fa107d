package diff

import (
	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
)

// flatConstraint is one constraint in the uniform representation used for
// matching: table-level elements and inline column constraints both
// become records with an effective key-column list. The ast node is
// borrowed, never mutated.
type flatConstraint struct {
	con     *ast.Constraint
	column  string // owning column for inline constraints, "" otherwise
	matched bool
}

// keys returns the effective key-column list: the declared list for
// table-level constraints, the owning column for inline ones.
func (f *flatConstraint) keys() []string {
	if f.column != "" {
		return []string{f.column}
	}
	if f.con.Type == ast.ConstrForeign {
		return f.con.FkColumns
	}
	return f.con.Keys
}

// inlineKey reports whether f is a single-column inline PRIMARY KEY or
// UNIQUE constraint, the only forms eligible for one-to-many matching.
func (f *flatConstraint) inlineKey() bool {
	return f.column != "" && (f.con.Type == ast.ConstrPrimary || f.con.Type == ast.ConstrUnique)
}

// flattenConstraints collects every comparable constraint of a table into
// the uniform list: all table-level elements, plus the inline column
// constraints that have table-level equivalents. NOT NULL, DEFAULT,
// GENERATED and IDENTITY stay out; those are compared as column fields.
func flattenConstraints(t *ast.CreateTableStmt) []*flatConstraint {
	var flat []*flatConstraint
	for _, con := range t.TableConstraints() {
		flat = append(flat, &flatConstraint{con: con})
	}
	for _, col := range t.Columns() {
		for _, con := range col.Constraints {
			switch con.Type {
			case ast.ConstrPrimary, ast.ConstrUnique, ast.ConstrForeign, ast.ConstrCheck:
				flat = append(flat, &flatConstraint{con: con, column: col.Name})
			}
		}
	}
	return flat
}

// constraintsEquivalent reports whether two flattened constraints declare
// the same thing, across the inline/table-level form boundary.
func constraintsEquivalent(a, b *flatConstraint, opts Options) bool {
	if a.con.Type != b.con.Type {
		return false
	}
	if !opts.IgnoreConstraintNames && a.con.Name != b.con.Name {
		return false
	}
	if !tristateEqual(a.con.Deferrable, b.con.Deferrable, false) ||
		!tristateEqual(a.con.InitDeferred, b.con.InitDeferred, false) ||
		!tristateEqual(a.con.Enforced, b.con.Enforced, true) {
		return false
	}

	switch a.con.Type {
	case ast.ConstrCheck:
		return a.con.NoInherit == b.con.NoInherit &&
			exprEquivalent(exprText(a.con.Expr), exprText(b.con.Expr), opts)
	case ast.ConstrPrimary, ast.ConstrUnique:
		return sameColumnSet(a.keys(), b.keys(), opts)
	case ast.ConstrForeign:
		return foreignKeysEquivalent(a, b, opts)
	case ast.ConstrExclusion:
		return exclusionsEquivalent(a.con, b.con, opts)
	default:
		return true
	}
}

func foreignKeysEquivalent(a, b *flatConstraint, opts Options) bool {
	if nameKey(a.con.RefTable, opts) != nameKey(b.con.RefTable, opts) {
		return false
	}
	if !sameColumnList(a.keys(), b.keys(), opts) {
		return false
	}
	if !sameColumnList(a.con.RefCols, b.con.RefCols, opts) {
		return false
	}
	if fkMatch(a.con.Match) != fkMatch(b.con.Match) {
		return false
	}
	return keyActionsEqual(a.con.OnUpdate, b.con.OnUpdate, opts) &&
		keyActionsEqual(a.con.OnDelete, b.con.OnDelete, opts)
}

// fkMatch folds an unset match type to MATCH SIMPLE, the PostgreSQL
// default.
func fkMatch(m byte) byte {
	if m == 0 {
		return ast.FKMatchSimple
	}
	return m
}

// keyActionsEqual compares referential actions, treating an omitted
// action as NO ACTION.
func keyActionsEqual(a, b *ast.KeyAction, opts Options) bool {
	actionOf := func(k *ast.KeyAction) byte {
		if k == nil {
			return ast.FKActionNoAction
		}
		return k.Action
	}
	if actionOf(a) != actionOf(b) {
		return false
	}
	var ac, bc []string
	if a != nil {
		ac = a.Columns
	}
	if b != nil {
		bc = b.Columns
	}
	return sameColumnList(ac, bc, opts)
}

func exclusionsEquivalent(a, b *ast.Constraint, opts Options) bool {
	if a.IndexMethod != b.IndexMethod {
		return false
	}
	if len(a.Exclusions) != len(b.Exclusions) {
		return false
	}
	for i := range a.Exclusions {
		if !exprEquivalent(a.Exclusions[i].Element, b.Exclusions[i].Element, opts) ||
			a.Exclusions[i].Operator != b.Exclusions[i].Operator {
			return false
		}
	}
	return exprEquivalent(exprText(a.Where), exprText(b.Where), opts)
}

// tristateEqual compares two tri-state flags; an unspecified side takes
// the given default, so an omitted DEFERRABLE matches an explicit NOT
// DEFERRABLE.
func tristateEqual(a, b *bool, def bool) bool {
	return boolOr(a, def) == boolOr(b, def)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func exprText(e *ast.Expression) string {
	if e == nil {
		return ""
	}
	return e.Text
}

// sameColumnList compares column lists element by element, order
// significant.
func sameColumnList(a, b []string, opts Options) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if nameKey(a[i], opts) != nameKey(b[i], opts) {
			return false
		}
	}
	return true
}

// sameColumnSet compares column lists as sets. Key order affects index
// layout, not constraint identity, so PRIMARY KEY (a, b) matches
// PRIMARY KEY (b, a).
func sameColumnSet(a, b []string, opts Options) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, name := range a {
		set[nameKey(name, opts)]++
	}
	for _, name := range b {
		k := nameKey(name, opts)
		if set[k] == 0 {
			return false
		}
		set[k]--
	}
	return true
}

// matchConstraints runs the full matching pass over both flattened sides,
// marking matched records in place. Direct one-to-one equivalence is
// tried first; composite PRIMARY KEY and UNIQUE table constraints then
// fall back to the one-to-many matcher against inline constraints, in
// both directions.
func matchConstraints(source, target []*flatConstraint, opts Options) {
	for _, tgt := range target {
		for _, src := range source {
			if src.matched {
				continue
			}
			if constraintsEquivalent(src, tgt, opts) {
				src.matched = true
				tgt.matched = true
				break
			}
		}
	}
	for _, tgt := range target {
		if !tgt.matched {
			matchOneToMany(tgt, source, opts)
		}
	}
	for _, src := range source {
		if !src.matched {
			matchOneToMany(src, target, opts)
		}
	}
}

// matchOneToMany resolves a table-level composite PRIMARY KEY or UNIQUE
// constraint against the same number of unmatched single-column inline
// constraints of the same kind on the other side. Column order is not
// significant. On success the whole group is marked matched.
func matchOneToMany(composite *flatConstraint, others []*flatConstraint, opts Options) {
	if composite.column != "" {
		return
	}
	if composite.con.Type != ast.ConstrPrimary && composite.con.Type != ast.ConstrUnique {
		return
	}
	needed := composite.keys()
	if len(needed) == 0 {
		return
	}

	found := make([]*flatConstraint, 0, len(needed))
	remaining := make(map[string]bool, len(needed))
	for _, name := range needed {
		remaining[nameKey(name, opts)] = true
	}
	for _, other := range others {
		if other.matched || !other.inlineKey() || other.con.Type != composite.con.Type {
			continue
		}
		k := nameKey(other.column, opts)
		if remaining[k] {
			delete(remaining, k)
			found = append(found, other)
		}
	}
	if len(remaining) != 0 || len(found) != len(needed) {
		return
	}

	composite.matched = true
	for _, f := range found {
		f.matched = true
	}
}
