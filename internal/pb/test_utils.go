package pb

import "math/rand/v2"

func GeneratePBInstance(variables uint64, constraints int) PB {
	instance := PB{
		Variables: variables,
		Constrs:   make([]Constr, constraints),
	}

	for i := range constraints {
		lits := make([]int64, 0, variables)
		for j := range variables {
			if rand.Float32() < 0.5 {
				var sign int64 = 1
				if rand.Float32() < 0.5 {
					sign = -1
				}
				lits = append(lits, sign*(1+int64(j)))
			}
		}

		if len(lits) == 0 {
			var sign int64 = 1
			if rand.Float32() < 0.5 {
				sign = -1
			}
			lits = append(lits, sign*(1+rand.Int64N(int64(variables))))
		}

		instance.Constrs[i] = GtEq(lits, nil, 1)
	}

	return instance
}

func AssertPBSolution(instance PB, solution Solution) bool {
	for _, constr := range instance.Constrs {
		var satisfied int64
		for i, lit := range constr.Lits {
			if solution.Value(lit) {
				if constr.Weights == nil {
					satisfied++
				} else {
					satisfied += constr.Weights[i]
				}
			}
		}
		if satisfied < constr.AtLeast {
			return false
		}
	}
	return true
}
