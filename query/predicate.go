package query

// Predicate is the tagged sum of the four predicate kinds a normalized
// filter can hold on a single field: Equality, In, Range, and
// Conjunction. Exists is a fifth, unexported kind used internally by
// IndexNumberKeyQuery to represent "any value of this field."
//
// Modeled on the teacher's per-node-kind struct + Equals() method
// convention (see expr.Comparison/expr.StringMatch).
type Predicate interface {
	isPredicate()
	// Equals reports structural equality with another Predicate.
	Equals(Predicate) bool
	// kind classifies the predicate for widening/covering decisions.
	kind() predKind
}

type predKind int

const (
	kindEquality predKind = iota
	kindIn
	kindRange
	kindConjunction
	kindExists
)

// Equality matches a single exact value.
type Equality struct {
	Value Value
}

func (Equality) isPredicate()      {}
func (Equality) kind() predKind    { return kindEquality }
func (e Equality) Equals(p Predicate) bool {
	o, ok := p.(Equality)
	return ok && e.Value.Equals(o.Value)
}

// In matches any of a non-empty set of values.
type In struct {
	Values []Value
}

func (In) isPredicate()   {}
func (In) kind() predKind { return kindIn }
func (i In) Equals(p Predicate) bool {
	o, ok := p.(In)
	if !ok || len(i.Values) != len(o.Values) {
		return false
	}
	for k := range i.Values {
		if !i.Values[k].Equals(o.Values[k]) {
			return false
		}
	}
	return true
}

// Range matches values within [Lo, Hi] (bounds optionally open-ended,
// inclusivity controlled per-bound). At least one of Lo, Hi is set.
type Range struct {
	Lo, Hi         *Value
	LoIncl, HiIncl bool
}

func (Range) isPredicate()   {}
func (Range) kind() predKind { return kindRange }
func (r Range) Equals(p Predicate) bool {
	o, ok := p.(Range)
	if !ok || r.LoIncl != o.LoIncl || r.HiIncl != o.HiIncl {
		return false
	}
	return optValueEqual(r.Lo, o.Lo) && optValueEqual(r.Hi, o.Hi)
}

func optValueEqual(a, b *Value) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Equals(*b)
}

// Conjunction is a list of predicates on the same field that must all
// hold (e.g. "x > 3 AND x < 10" when not reducible to a single Range).
type Conjunction struct {
	Preds []Predicate
}

func (Conjunction) isPredicate()   {}
func (Conjunction) kind() predKind { return kindConjunction }
func (c Conjunction) Equals(p Predicate) bool {
	o, ok := p.(Conjunction)
	if !ok || len(c.Preds) != len(o.Preds) {
		return false
	}
	for k := range c.Preds {
		if !c.Preds[k].Equals(o.Preds[k]) {
			return false
		}
	}
	return true
}

// exists represents "any value of this field" — the widening target
// for IndexNumberKeyQuery (§4.1). It is not one of the four
// constructible predicate kinds; it only ever appears as a derived
// predicate produced by IndexNumberKeyQuery.
type exists struct{}

func (exists) isPredicate()         {}
func (exists) kind() predKind       { return kindExists }
func (exists) Equals(p Predicate) bool {
	_, ok := p.(exists)
	return ok
}

// widen returns the predicate to use in a key-count query for the
// last retained field of a candidate (§4.1): a pure Equality is left
// untouched, everything else becomes an existence predicate.
func widen(p Predicate) Predicate {
	if p.kind() == kindEquality {
		return p
	}
	return exists{}
}
