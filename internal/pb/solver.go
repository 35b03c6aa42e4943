package pb

import (
	"context"
	"errors"
)

// ErrNotSolved is reported when a backend stops (timeout, cancellation or
// resource exhaustion) before proving optimality.
var ErrNotSolved = errors.New("solver did not reach an optimal solution")

// PBSolver solves 0/1 pseudo-boolean programs to optimality.
type PBSolver interface {
	// Solve returns an optimal solution of the PB instance if satisfiable, else returns nil (these are valid outputs where error shall be nil).
	// The solve is abandoned when ctx expires, in which case the error wraps ErrNotSolved.
	Solve(ctx context.Context, instance PB) (Solution, error)
}
