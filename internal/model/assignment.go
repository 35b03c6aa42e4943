package model

import "fmt"

type Status int

const (
	// StatusAssigned marks a regular assignment with no policy involved.
	StatusAssigned Status = iota
	// StatusAssignedPolicy marks an assignment pinned by a policy (Forced, or
	// PreferredIfCapacityFits whose capacity condition held).
	StatusAssignedPolicy
	// StatusPolicyNotHonored marks an assignment to a room other than the
	// policy's target, possible only for PreferredIfCapacityFits when the
	// target's capacity did not fit.
	StatusPolicyNotHonored
	// StatusZeroEnrollment marks a meeting of a course with zero enrollment;
	// it never competes for a room.
	StatusZeroEnrollment
	// StatusInfeasible marks a meeting no room is large enough for.
	StatusInfeasible
	// StatusUnassigned marks a meeting the solver could not place even though
	// capacity exists somewhere.
	StatusUnassigned
)

// Assignment is the output record for one meeting, suitable for direct
// tabular rendering. Records are produced fresh each solve and never mutated.
type Assignment struct {
	Course         string
	TimeSlot       string
	Room           string // Empty when unassigned
	Enrollment     uint64
	Capacity       uint64 // Zero when unassigned
	DurationWeight uint64
	Status         Status
	PolicyLabel    string // Set only for StatusAssignedPolicy
}

// Assigned reports whether the meeting occupies a room.
func (assignment Assignment) Assigned() bool {
	switch assignment.Status {
	case StatusAssigned, StatusAssignedPolicy, StatusPolicyNotHonored:
		return true
	}
	return false
}

// StatusLabel renders the status column of the output table.
func (assignment Assignment) StatusLabel() string {
	switch assignment.Status {
	case StatusAssigned:
		return "Assigned"
	case StatusAssignedPolicy:
		return fmt.Sprintf("Assigned (%v)", assignment.PolicyLabel)
	case StatusPolicyNotHonored:
		return "Assigned (policy not honored)"
	case StatusZeroEnrollment:
		return "Unassigned (zero enrollment)"
	case StatusInfeasible:
		return "Infeasible"
	}
	return "Unassigned"
}

// Waste is the weighted count of wasted seats of the assignment. A Forced
// assignment to an under-capacity room yields a negative value.
func (assignment Assignment) Waste() int64 {
	if !assignment.Assigned() {
		return 0
	}
	return (int64(assignment.Capacity) - int64(assignment.Enrollment)) * int64(assignment.DurationWeight)
}
