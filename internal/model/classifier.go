package model

import (
	"roomassign/internal/pb"

	"github.com/samber/lo"
)

// classify maps the raw 0/1 solution back to one Assignment per meeting.
// States are decided in priority order: pinned by policy, policy not
// honored, regular, zero enrollment, infeasible, unassigned.
func classify(program program, solution pb.Solution) []Assignment {
	assignments := make([]Assignment, 0, len(program.input.Meetings))

	for m, meeting := range program.input.Meetings {
		course := lo.FindOrElse(program.input.Courses, Course{}, func(course Course) bool {
			return course.Code == meeting.Course
		})

		assignment := Assignment{
			Course:         meeting.Course,
			TimeSlot:       meeting.TimeSlot,
			Enrollment:     course.Enrollment,
			DurationWeight: meeting.DurationWeight,
		}

		if !program.active[m] {
			assignment.Status = StatusZeroEnrollment
			assignments = append(assignments, assignment)
			continue
		}

		room, assigned := assignedRoom(program, solution, uint64(m))
		switch {
		case assigned && program.pins[m] != nil && program.pins[m].room == room:
			assignment.Status = StatusAssignedPolicy
			assignment.PolicyLabel = program.pins[m].label
		case assigned && program.named[m]:
			assignment.Status = StatusPolicyNotHonored
		case assigned:
			assignment.Status = StatusAssigned
		case capacityExists(program, course.Enrollment):
			assignment.Status = StatusUnassigned
		default:
			assignment.Status = StatusInfeasible
		}

		if assigned {
			assignment.Room = program.rooms[room].Name
			assignment.Capacity = program.rooms[room].Capacity
		}
		assignments = append(assignments, assignment)
	}

	return assignments
}

// assignedRoom finds the (at most one) room variable of the meeting holding
// value 1. Only variables the builder actually emitted are inspected.
func assignedRoom(program program, solution pb.Solution, meeting uint64) (uint64, bool) {
	if p := program.pins[meeting]; p != nil {
		return p.room, true
	}
	for room := range program.eligible[meeting] {
		if solution.Value(int64(program.indexer.Index(meeting, room))) {
			return room, true
		}
	}
	return 0, false
}

// capacityExists reports whether any room could hold the enrollment at all,
// ignoring Forced overrides. It separates Unassigned from Infeasible.
func capacityExists(program program, enrollment uint64) bool {
	return lo.SomeBy(program.rooms, func(room Room) bool {
		return room.Capacity >= enrollment
	})
}
