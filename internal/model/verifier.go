package model

import (
	"fmt"

	"github.com/samber/lo"
)

// Violation is one invariant breach found by the verifier. Violations are
// reported, never repaired: any non-empty report indicates a constraint
// construction defect.
type Violation struct {
	Kind     string
	Room     string
	TimeSlot string
	Courses  []string
}

func (violation Violation) String() string {
	return fmt.Sprintf("%v: room %q, time slot %q, courses %v", violation.Kind, violation.Room, violation.TimeSlot, violation.Courses)
}

// VerifyAssignments independently recomputes the single-room and no-overlap
// invariants from the final assignment list, decoupled from solver
// internals. A (room, time slot) pair may hold two meetings only when they
// form a declared overlap-permitted group on that room.
func VerifyAssignments(assignments []Assignment, input ModelInput) []Violation {
	violations := make([]Violation, 0)

	// A meeting is identified by its (course, time slot) pair
	type meetingKey struct{ course, slot string }
	occupiedRooms := make(map[meetingKey][]string)
	for _, assignment := range assignments {
		if !assignment.Assigned() {
			continue
		}
		key := meetingKey{assignment.Course, assignment.TimeSlot}
		occupiedRooms[key] = append(occupiedRooms[key], assignment.Room)
	}
	for key, rooms := range occupiedRooms {
		if len(lo.Uniq(rooms)) > 1 {
			violations = append(violations, Violation{
				Kind:     "meeting in multiple rooms",
				TimeSlot: key.slot,
				Courses:  []string{key.course},
			})
		}
	}

	type roomSlot struct{ room, slot string }
	occupants := make(map[roomSlot][]string)
	for _, assignment := range assignments {
		if !assignment.Assigned() {
			continue
		}
		key := roomSlot{assignment.Room, assignment.TimeSlot}
		occupants[key] = append(occupants[key], assignment.Course)
	}
	for key, courses := range occupants {
		if len(courses) <= 1 {
			continue
		}
		if len(courses) == 2 && overlapDeclared(input, key.room, courses) {
			continue
		}
		violations = append(violations, Violation{
			Kind:     "double booking",
			Room:     key.room,
			TimeSlot: key.slot,
			Courses:  courses,
		})
	}

	return violations
}

func overlapDeclared(input ModelInput, room string, courses []string) bool {
	return lo.SomeBy(input.OverlapGroups, func(group OverlapGroup) bool {
		return group.Room == room &&
			lo.Contains(group.Courses, courses[0]) &&
			lo.Contains(group.Courses, courses[1])
	})
}
