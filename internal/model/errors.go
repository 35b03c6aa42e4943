package model

import "fmt"

// DataError is a malformed or missing field in an input record. It aborts the
// run before any constraint is built.
type DataError struct {
	Entity string
	ID     string
	Reason string
}

func (err DataError) Error() string {
	if err.ID == "" {
		return fmt.Sprintf("invalid %v record: %v", err.Entity, err.Reason)
	}
	return fmt.Sprintf("invalid %v record %q: %v", err.Entity, err.ID, err.Reason)
}

// PolicyConflictError is an unresolvable contradiction in the policy table,
// detected during constraint construction, before solving.
type PolicyConflictError struct {
	PolicyA string
	PolicyB string
	Room    string
	Reason  string
}

func (err PolicyConflictError) Error() string {
	return fmt.Sprintf("policy conflict between %q and %q on room %q: %v", err.PolicyA, err.PolicyB, err.Room, err.Reason)
}

// SolveError is a hard failure of the whole run: the solver did not produce
// an optimal solution to classify. No partial assignment list exists.
type SolveError struct {
	Reason string
	Err    error
}

func (err SolveError) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("solve failed: %v", err.Reason)
	}
	return fmt.Sprintf("solve failed: %v: %v", err.Reason, err.Err)
}

func (err SolveError) Unwrap() error {
	return err.Err
}
