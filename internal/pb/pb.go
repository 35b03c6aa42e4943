package pb

import (
	"fmt"
	"strings"
)

// Solution holds the value of every variable of a solved instance, where
// Solution[v-1] is the value of variable v.
type Solution []bool

// Value reports whether the given literal is satisfied by the solution.
// Literals outside the solution's range are unassigned and evaluate to false.
func (solution Solution) Value(literal int64) bool {
	variable := literal
	if variable < 0 {
		variable = -variable
	}
	if variable < 1 || variable > int64(len(solution)) {
		return false
	}
	if literal < 0 {
		return !solution[variable-1]
	}
	return solution[variable-1]
}

// Constr is a pseudo-boolean constraint in at-least normal form:
// the weighted sum of its satisfied literals must be at least AtLeast.
type Constr struct {
	Lits    []int64 // Non-zero literals; a negative value stands for the negated variable
	Weights []int64 // nil means every literal weighs 1
	AtLeast int64
}

// CostTerm contributes Weight to the objective whenever Lit is satisfied.
type CostTerm struct {
	Lit    int64
	Weight int64
}

// PB is a 0/1 pseudo-boolean program: a set of at-least constraints over
// binary variables plus an optional cost function to minimize.
type PB struct {
	Variables uint64
	Constrs   []Constr
	Cost      []CostTerm
}

// GtEq builds the constraint sum(weights[i]*lits[i]) >= atLeast.
func GtEq(lits []int64, weights []int64, atLeast int64) Constr {
	return Constr{Lits: lits, Weights: weights, AtLeast: atLeast}
}

// LtEq builds the constraint sum(weights[i]*lits[i]) <= atMost, normalized to
// at-least form over the negated literals.
func LtEq(lits []int64, weights []int64, atMost int64) Constr {
	negated := make([]int64, len(lits))
	var total int64
	for i, lit := range lits {
		negated[i] = -lit
		if weights == nil {
			total++
		} else {
			total += weights[i]
		}
	}
	return Constr{Lits: negated, Weights: weights, AtLeast: total - atMost}
}

// Eq builds the pair of constraints stating sum(weights[i]*lits[i]) == value.
func Eq(lits []int64, weights []int64, value int64) []Constr {
	return []Constr{GtEq(lits, weights, value), LtEq(lits, weights, value)}
}

// Unit builds a constraint fixing the given literal to true.
func Unit(literal int64) Constr {
	return Constr{Lits: []int64{literal}, AtLeast: 1}
}

// ToOPB serializes the instance into the OPB text format consumed by
// pseudo-boolean solver binaries.
func (instance PB) ToOPB() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "* #variable= %d #constraint= %d\n", instance.Variables, len(instance.Constrs))

	if len(instance.Cost) > 0 {
		builder.WriteString("min:")
		for _, term := range instance.Cost {
			fmt.Fprintf(&builder, " +%d %v", term.Weight, opbLiteral(term.Lit))
		}
		builder.WriteString(" ;\n")
	}

	for _, constr := range instance.Constrs {
		for i, lit := range constr.Lits {
			weight := int64(1)
			if constr.Weights != nil {
				weight = constr.Weights[i]
			}
			fmt.Fprintf(&builder, "+%d %v ", weight, opbLiteral(lit))
		}
		fmt.Fprintf(&builder, ">= %d ;\n", constr.AtLeast)
	}

	return builder.String()
}

func opbLiteral(literal int64) string {
	if literal < 0 {
		return fmt.Sprintf("~x%d", -literal)
	}
	return fmt.Sprintf("x%d", literal)
}
