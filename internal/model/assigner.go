package model

import (
	"context"
	"log"

	"roomassign/internal/pb"
)

// Assigner computes a batch room assignment from an immutable snapshot.
type Assigner interface {
	// Assign builds the constraint system, solves it to optimality and
	// classifies every meeting, also reporting the variable and constraint
	// counts of the built program. DataError, PolicyConflictError and
	// SolveError are fatal for the whole run; per-meeting
	// Infeasible/Unassigned statuses are regular outcomes. The solve is
	// abandoned when ctx expires.
	Assign(ctx context.Context, input ModelInput) (assignments []Assignment, variables, constraints uint64, err error)

	// Verify independently rechecks the invariants of an assignment list.
	Verify(assignments []Assignment, input ModelInput) []Violation
}

func NewAssigner(solver pb.PBSolver) Assigner {
	return &pbAssigner{solver: solver}
}

type pbAssigner struct {
	solver pb.PBSolver
}

func (assigner *pbAssigner) Assign(ctx context.Context, input ModelInput) ([]Assignment, uint64, uint64, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, 0, err
	}

	builder, err := newConstraintBuilder(input)
	if err != nil {
		return nil, 0, 0, err
	}
	program := builder.Build()
	variables := program.instance.Variables
	constraints := uint64(len(program.instance.Constrs))

	var solution pb.Solution
	if program.needsSolve() {
		log.Println("Start solver")
		solution, err = assigner.solver.Solve(ctx, program.instance)
		log.Println("Solver done")
		if err != nil {
			return nil, variables, constraints, SolveError{Reason: "solver did not finish", Err: err}
		}
		if solution == nil {
			// The overflow columns make the program satisfiable by construction
			return nil, variables, constraints, SolveError{Reason: "constraint system is unsatisfiable"}
		}
	}

	return classify(program, solution), variables, constraints, nil
}

func (assigner *pbAssigner) Verify(assignments []Assignment, input ModelInput) []Violation {
	return VerifyAssignments(assignments, input)
}
