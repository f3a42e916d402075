package repository

// PredicateOp tags the variants of the predicate tree.
type PredicateOp uint8

const (
	// OpTrue matches every row.
	OpTrue PredicateOp = iota
	// OpAnd is the conjunction of its children.
	OpAnd
	// OpOr is the disjunction of its children.
	OpOr
	// OpEq compares a column for equality with a bound value.
	OpEq
	// OpGe compares a column as >= a bound value.
	OpGe
	// OpLe compares a column as <= a bound value.
	OpLe
	// OpLike matches a column case-insensitively against a substring.
	// Value holds the raw term; renderers add wildcards and escaping.
	OpLike
)

// Predicate is an abstract boolean condition over deal attributes. It carries
// no query syntax; a backend-specific renderer materializes it into a
// parameterized statement, so user values can never reach the SQL text.
type Predicate struct {
	Op     PredicateOp
	Column string
	Value  any
	Args   []Predicate
}

// True returns the predicate matching every row.
func True() Predicate {
	return Predicate{Op: OpTrue}
}

// IsTrue reports whether the predicate imposes no constraint.
func (p Predicate) IsTrue() bool {
	return p.Op == OpTrue
}

// And builds a conjunction, flattening nested conjunctions and dropping
// trivially-true children. An empty conjunction is True.
func And(preds ...Predicate) Predicate {
	flat := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		switch p.Op {
		case OpTrue:
		case OpAnd:
			flat = append(flat, p.Args...)
		default:
			flat = append(flat, p)
		}
	}
	switch len(flat) {
	case 0:
		return True()
	case 1:
		return flat[0]
	}
	return Predicate{Op: OpAnd, Args: flat}
}

// Or builds a disjunction.
func Or(preds ...Predicate) Predicate {
	switch len(preds) {
	case 0:
		return True()
	case 1:
		return preds[0]
	}
	return Predicate{Op: OpOr, Args: preds}
}

// Eq constrains a column to equal the bound value.
func Eq(column string, value any) Predicate {
	return Predicate{Op: OpEq, Column: column, Value: value}
}

// Ge constrains a column to be at least the bound value.
func Ge(column string, value any) Predicate {
	return Predicate{Op: OpGe, Column: column, Value: value}
}

// Le constrains a column to be at most the bound value.
func Le(column string, value any) Predicate {
	return Predicate{Op: OpLe, Column: column, Value: value}
}

// Like constrains a column to contain the term, ignoring case.
func Like(column, term string) Predicate {
	return Predicate{Op: OpLike, Column: column, Value: term}
}

// BuildPredicate translates a validated list query into the conjunction of
// its active filters. An empty query yields the trivially-true predicate.
func BuildPredicate(q ListQuery) Predicate {
	conj := make([]Predicate, 0, 6)

	if q.Search != "" {
		conj = append(conj, Or(
			Like(ColName, q.Search),
			Like(ColContactName, q.Search),
			Like(ColCompany, q.Search),
		))
	}
	if q.Stage != "" {
		conj = append(conj, Eq(ColStage, string(q.Stage)))
	}
	if q.MinValue != nil {
		conj = append(conj, Ge(ColValue, *q.MinValue))
	}
	if q.MaxValue != nil {
		conj = append(conj, Le(ColValue, *q.MaxValue))
	}
	if q.StartDate != nil {
		conj = append(conj, Ge(ColCreatedAt, *q.StartDate))
	}
	if q.EndDate != nil {
		conj = append(conj, Le(ColCreatedAt, *q.EndDate))
	}

	return And(conj...)
}
