package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func verifierInput() ModelInput {
	return ModelInput{
		Rooms: []Room{
			{Name: "A", Capacity: 50},
			{Name: "B", Capacity: 50},
		},
		Courses: []Course{
			{Code: "C1", Enrollment: 20},
			{Code: "C2", Enrollment: 20},
		},
		Meetings: []Meeting{
			{Course: "C1", TimeSlot: "Mon-9", DurationWeight: 1},
			{Course: "C2", TimeSlot: "Mon-9", DurationWeight: 1},
		},
	}
}

func TestVerifyCleanAssignments(t *testing.T) {
	assignments := []Assignment{
		{Course: "C1", TimeSlot: "Mon-9", Room: "A", Status: StatusAssigned},
		{Course: "C2", TimeSlot: "Mon-9", Room: "B", Status: StatusAssigned},
	}

	assert.Empty(t, VerifyAssignments(assignments, verifierInput()))
}

func TestVerifyDoubleBooking(t *testing.T) {
	assignments := []Assignment{
		{Course: "C1", TimeSlot: "Mon-9", Room: "A", Status: StatusAssigned},
		{Course: "C2", TimeSlot: "Mon-9", Room: "A", Status: StatusAssigned},
	}

	violations := VerifyAssignments(assignments, verifierInput())

	assert.Len(t, violations, 1)
	assert.Equal(t, "double booking", violations[0].Kind)
	assert.Equal(t, "A", violations[0].Room)
	assert.Equal(t, "Mon-9", violations[0].TimeSlot)
	assert.ElementsMatch(t, []string{"C1", "C2"}, violations[0].Courses)
}

func TestVerifyDeclaredOverlapIsNotaViolation(t *testing.T) {
	input := verifierInput()
	input.OverlapGroups = []OverlapGroup{
		{Name: "pair", Courses: []string{"C1", "C2"}, Room: "A"},
	}
	assignments := []Assignment{
		{Course: "C1", TimeSlot: "Mon-9", Room: "A", Status: StatusAssignedPolicy, PolicyLabel: "pair"},
		{Course: "C2", TimeSlot: "Mon-9", Room: "A", Status: StatusAssignedPolicy, PolicyLabel: "pair"},
	}

	assert.Empty(t, VerifyAssignments(assignments, input))
}

func TestVerifyOverlapOnWrongRoomIsAViolation(t *testing.T) {
	// The group sanctions co-occupancy on its combined room only
	input := verifierInput()
	input.OverlapGroups = []OverlapGroup{
		{Name: "pair", Courses: []string{"C1", "C2"}, Room: "A"},
	}
	assignments := []Assignment{
		{Course: "C1", TimeSlot: "Mon-9", Room: "B", Status: StatusAssigned},
		{Course: "C2", TimeSlot: "Mon-9", Room: "B", Status: StatusAssigned},
	}

	violations := VerifyAssignments(assignments, input)

	assert.Len(t, violations, 1)
	assert.Equal(t, "double booking", violations[0].Kind)
}

func TestVerifyMeetingInMultipleRooms(t *testing.T) {
	assignments := []Assignment{
		{Course: "C1", TimeSlot: "Mon-9", Room: "A", Status: StatusAssigned},
		{Course: "C1", TimeSlot: "Mon-9", Room: "B", Status: StatusAssigned},
	}

	violations := VerifyAssignments(assignments, verifierInput())

	assert.Len(t, violations, 1)
	assert.Equal(t, "meeting in multiple rooms", violations[0].Kind)
	assert.Equal(t, []string{"C1"}, violations[0].Courses)
}

func TestVerifyIgnoresUnassignedRecords(t *testing.T) {
	assignments := []Assignment{
		{Course: "C1", TimeSlot: "Mon-9", Status: StatusUnassigned},
		{Course: "C2", TimeSlot: "Mon-9", Status: StatusZeroEnrollment},
	}

	assert.Empty(t, VerifyAssignments(assignments, verifierInput()))
}

func TestViolationString(t *testing.T) {
	violation := Violation{Kind: "double booking", Room: "A", TimeSlot: "Mon-9", Courses: []string{"C1", "C2"}}
	assert.Equal(t, `double booking: room "A", time slot "Mon-9", courses [C1 C2]`, violation.String())
}
