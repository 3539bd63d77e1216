package mipmodel

// VarDef is a read-only view of one declared variable, for backends to
// consume when building their own internal representation.
type VarDef struct {
	LB, UB   float64
	Binary   bool
	Fixed    bool
	FixedVal float64
}

// VarDefs exposes the model's variable definitions to a Backend
// implementation. Model's fields stay unexported so application code can
// only build models through NewBinaryVar/NewContinuousVar/NewConstraint;
// only a backend needs the raw shape.
func VarDefs(m *Model) []VarDef {
	out := make([]VarDef, len(m.vars))
	for i, v := range m.vars {
		out[i] = VarDef{LB: v.lb, UB: v.ub, Binary: v.binary, Fixed: v.fixed, FixedVal: v.fixedVal}
	}
	return out
}

// RawTerm is a (coefficient, variable index) pair.
type RawTerm struct {
	Coef float64
	Var  int
}

// ObjectiveTerms exposes the model's objective terms as raw (coef, index)
// pairs.
func ObjectiveTerms(m *Model) []RawTerm {
	out := make([]RawTerm, len(m.objective))
	for i, t := range m.objective {
		out[i] = RawTerm{Coef: t.Coef, Var: t.Var.id}
	}
	return out
}

// RawConstraint is a read-only view of one declared constraint.
type RawConstraint struct {
	Sense Sense
	RHS   float64
	Terms []RawTerm
}

// ConstraintDefs exposes the model's constraints as raw term lists.
func ConstraintDefs(m *Model) []RawConstraint {
	out := make([]RawConstraint, len(m.constraints))
	for i, c := range m.constraints {
		terms := make([]RawTerm, len(c.terms))
		for j, t := range c.terms {
			terms[j] = RawTerm{Coef: t.Coef, Var: t.Var.id}
		}
		out[i] = RawConstraint{Sense: c.sense, RHS: c.rhs, Terms: terms}
	}
	return out
}

// VarIndex returns v's internal slot, for backends that need to map Var
// handles back to their own dense arrays (e.g. to build Solution.values in
// the right order).
func VarIndex(v Var) int { return v.id }

// MakeVar constructs a Var handle for index i. Backends use this only to
// build the Solution.values slice returned from Optimize; it must never be
// used to fabricate a Var for a different model.
func MakeVar(i int) Var { return Var{id: i} }
