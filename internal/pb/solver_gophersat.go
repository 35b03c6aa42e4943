package pb

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

func NewGophersatSolver() PBSolver {
	return &gophersatSolver{}
}

func (*gophersatSolver) Solve(ctx context.Context, instance PB) (Solution, error) {
	if instance.Variables == 0 {
		return Solution{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSolved, err)
	}

	constrs := make([]solver.PBConstr, 0, len(instance.Constrs))
	for _, constr := range instance.Constrs {
		lits := make([]int, len(constr.Lits))
		weights := make([]int, len(constr.Lits))
		for i, lit := range constr.Lits {
			lits[i] = int(lit)
			weights[i] = 1
			if constr.Weights != nil {
				weights[i] = int(constr.Weights[i])
			}
		}
		constrs = append(constrs, solver.GtEq(lits, weights, int(constr.AtLeast)))
	}

	problem := solver.ParsePBConstrs(constrs)
	if len(instance.Cost) > 0 {
		costLits := make([]solver.Lit, len(instance.Cost))
		costWeights := make([]int, len(instance.Cost))
		for i, term := range instance.Cost {
			costLits[i] = solver.IntToLit(int32(term.Lit))
			costWeights[i] = int(term.Weight)
		}
		problem.SetCostFunc(costLits, costWeights)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			close(stop)
		case <-done:
		}
	}()

	result := solver.New(problem).Optimal(nil, stop)
	switch result.Status {
	case solver.Unsat:
		return nil, nil
	case solver.Indet:
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotSolved, err)
		}
		return nil, fmt.Errorf("%w: search stopped prematurely", ErrNotSolved)
	}

	// The model is 0-based and may be shorter than the instance when trailing
	// variables appear in no constraint; those stay false.
	solution := make(Solution, instance.Variables)
	copy(solution, result.Model)
	return solution, nil
}
