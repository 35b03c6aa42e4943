package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapacityFilter(t *testing.T) {
	//**Arrange
	input := ModelInput{
		Rooms: []Room{
			{Name: "Big", Capacity: 100},
			{Name: "Small", Capacity: 10},
		},
		Courses: []Course{
			{Code: "C1", Enrollment: 50},
			{Code: "C0", Enrollment: 0},
		},
		Meetings: []Meeting{
			{Course: "C1", TimeSlot: "T1", DurationWeight: 1},
			{Course: "C0", TimeSlot: "T1", DurationWeight: 1},
		},
	}

	//**Act
	builder, err := newConstraintBuilder(input)

	//**Assert
	assert.Nil(t, err)
	assert.True(t, builder.active[0])
	assert.False(t, builder.active[1], "zero-enrollment meetings never compete for rooms")

	big := builder.roomIndex["Big"]
	small := builder.roomIndex["Small"]
	assert.True(t, builder.eligible[0][big])
	assert.False(t, builder.eligible[0][small])
	assert.Nil(t, builder.eligible[1])
}

func TestForcedPinIgnoresCapacity(t *testing.T) {
	input := ModelInput{
		Rooms:    []Room{{Name: "Lab1", Capacity: 10}, {Name: "Big", Capacity: 100}},
		Courses:  []Course{{Code: "C1", Enrollment: 15}},
		Meetings: []Meeting{{Course: "C1", TimeSlot: "T1", DurationWeight: 1}},
		Policies: []Policy{{Label: "CS lab", Courses: []string{"C1"}, Room: "Lab1", Mode: Forced}},
	}

	builder, err := newConstraintBuilder(input)

	assert.Nil(t, err)
	assert.NotNil(t, builder.pins[0])
	assert.Equal(t, builder.roomIndex["Lab1"], builder.pins[0].room)
	assert.Equal(t, "CS lab", builder.pins[0].label)
}

func TestForcedPinReservesRoomForSlot(t *testing.T) {
	input := ModelInput{
		Rooms: []Room{{Name: "Lab1", Capacity: 30}, {Name: "Big", Capacity: 100}},
		Courses: []Course{
			{Code: "C1", Enrollment: 15},
			{Code: "SameSlot", Enrollment: 15},
			{Code: "OtherSlot", Enrollment: 15},
		},
		Meetings: []Meeting{
			{Course: "C1", TimeSlot: "T1", DurationWeight: 1},
			{Course: "SameSlot", TimeSlot: "T1", DurationWeight: 1},
			{Course: "OtherSlot", TimeSlot: "T2", DurationWeight: 1},
		},
		Policies: []Policy{
			{Courses: []string{"C1"}, Room: "Lab1", Mode: Forced},
			// The grant keeps category exclusivity from hiding the reservation effect
			{Courses: []string{"SameSlot", "OtherSlot"}, Room: "Lab1", Mode: PreferredIfCapacityFits},
		},
	}

	builder, err := newConstraintBuilder(input)

	assert.Nil(t, err)
	lab := builder.roomIndex["Lab1"]
	assert.False(t, builder.eligible[1][lab], "the target room is exclusively reserved at the pinned slot")
	assert.NotNil(t, builder.pins[2], "the reservation does not extend to other slots")
	assert.Equal(t, lab, builder.pins[2].room)
}

func TestPreferredPinsOnlyWhenCapacityFits(t *testing.T) {
	input := ModelInput{
		Rooms: []Room{{Name: "Studio", Capacity: 20}, {Name: "Big", Capacity: 100}},
		Courses: []Course{
			{Code: "Fits", Enrollment: 18},
			{Code: "TooBig", Enrollment: 40},
		},
		Meetings: []Meeting{
			{Course: "Fits", TimeSlot: "T1", DurationWeight: 1},
			{Course: "TooBig", TimeSlot: "T2", DurationWeight: 1},
		},
		Policies: []Policy{
			{Label: "art studio", Courses: []string{"Fits", "TooBig"}, Room: "Studio", Mode: PreferredIfCapacityFits},
		},
	}

	builder, err := newConstraintBuilder(input)

	assert.Nil(t, err)
	studio := builder.roomIndex["Studio"]

	assert.NotNil(t, builder.pins[0])
	assert.Equal(t, studio, builder.pins[0].room)

	assert.Nil(t, builder.pins[1], "an under-capacity target is never pinned")
	assert.False(t, builder.eligible[1][studio], "the missed target is removed from the candidates")
	assert.True(t, builder.named[1])
}

func TestCategoryExclusivity(t *testing.T) {
	input := ModelInput{
		Rooms: []Room{
			{Name: "Lab1", Capacity: 50, Tags: []string{"computer-lab"}},
			{Name: "Big", Capacity: 100},
		},
		Courses: []Course{
			{Code: "Granted", Enrollment: 20},
			{Code: "Outsider", Enrollment: 20},
		},
		Meetings: []Meeting{
			{Course: "Granted", TimeSlot: "T1", DurationWeight: 1},
			{Course: "Outsider", TimeSlot: "T2", DurationWeight: 1},
		},
		Policies: []Policy{
			{Courses: []string{"Granted"}, Room: "Lab1", Mode: PreferredIfCapacityFits},
		},
	}

	builder, err := newConstraintBuilder(input)

	assert.Nil(t, err)
	lab := builder.roomIndex["Lab1"]
	assert.False(t, builder.eligible[1][lab], "specialized rooms are reserved pools, not general capacity")
	assert.NotNil(t, builder.pins[0], "the grant itself is never re-blocked")
	assert.Equal(t, lab, builder.pins[0].room)
}

func TestDuplicatePolicyConflict(t *testing.T) {
	input := ModelInput{
		Rooms:    []Room{{Name: "Lab1", Capacity: 50}},
		Courses:  []Course{{Code: "C1", Enrollment: 20}},
		Meetings: []Meeting{{Course: "C1", TimeSlot: "T1", DurationWeight: 1}},
		Policies: []Policy{
			{Label: "first", Courses: []string{"C1"}, Room: "Lab1", Mode: Forced},
			{Label: "second", Courses: []string{"C1"}, Room: "Lab1", Mode: PreferredIfCapacityFits},
		},
	}

	_, err := newConstraintBuilder(input)

	assert.IsType(t, PolicyConflictError{}, err)
}

func TestForcedForcedConflict(t *testing.T) {
	input := ModelInput{
		Rooms: []Room{{Name: "Lab1", Capacity: 50}},
		Courses: []Course{
			{Code: "C1", Enrollment: 20},
			{Code: "C2", Enrollment: 20},
		},
		Meetings: []Meeting{
			{Course: "C1", TimeSlot: "T1", DurationWeight: 1},
			{Course: "C2", TimeSlot: "T1", DurationWeight: 1},
		},
		Policies: []Policy{
			{Label: "first", Courses: []string{"C1"}, Room: "Lab1", Mode: Forced},
			{Label: "second", Courses: []string{"C2"}, Room: "Lab1", Mode: Forced},
		},
	}

	_, err := newConstraintBuilder(input)

	assert.IsType(t, PolicyConflictError{}, err)
	conflict := err.(PolicyConflictError)
	assert.Equal(t, "first", conflict.PolicyA)
	assert.Equal(t, "second", conflict.PolicyB)
	assert.Equal(t, "Lab1", conflict.Room)
}

func TestForcedForcedConflictOnDifferentSlotsIsFine(t *testing.T) {
	input := ModelInput{
		Rooms: []Room{{Name: "Lab1", Capacity: 50}},
		Courses: []Course{
			{Code: "C1", Enrollment: 20},
			{Code: "C2", Enrollment: 20},
		},
		Meetings: []Meeting{
			{Course: "C1", TimeSlot: "T1", DurationWeight: 1},
			{Course: "C2", TimeSlot: "T2", DurationWeight: 1},
		},
		Policies: []Policy{
			{Courses: []string{"C1"}, Room: "Lab1", Mode: Forced},
			{Courses: []string{"C2"}, Room: "Lab1", Mode: Forced},
		},
	}

	builder, err := newConstraintBuilder(input)

	assert.Nil(t, err)
	assert.NotNil(t, builder.pins[0])
	assert.NotNil(t, builder.pins[1])
}

func TestOverlapGroupPermitsSharedPin(t *testing.T) {
	input := ModelInput{
		Rooms: []Room{{Name: "Combined", Capacity: 80}},
		Courses: []Course{
			{Code: "ENS207-3", Enrollment: 30},
			{Code: "ENS207-6", Enrollment: 30},
		},
		Meetings: []Meeting{
			{Course: "ENS207-3", TimeSlot: "T1", DurationWeight: 1},
			{Course: "ENS207-6", TimeSlot: "T1", DurationWeight: 1},
		},
		OverlapGroups: []OverlapGroup{
			{Name: "ENS207", Courses: []string{"ENS207-3", "ENS207-6"}, Room: "Combined"},
		},
	}

	builder, err := newConstraintBuilder(input)

	assert.Nil(t, err)
	combined := builder.roomIndex["Combined"]
	assert.NotNil(t, builder.pins[0])
	assert.NotNil(t, builder.pins[1])
	assert.Equal(t, combined, builder.pins[0].room)
	assert.Equal(t, combined, builder.pins[1].room)
}

func TestBuildEmitsOverflowColumns(t *testing.T) {
	input := ModelInput{
		Rooms: []Room{{Name: "A", Capacity: 30}},
		Courses: []Course{
			{Code: "M1", Enrollment: 25},
			{Code: "M2", Enrollment: 10},
		},
		Meetings: []Meeting{
			{Course: "M1", TimeSlot: "T1", DurationWeight: 1},
			{Course: "M2", TimeSlot: "T1", DurationWeight: 1},
		},
	}

	builder, err := newConstraintBuilder(input)
	assert.Nil(t, err)

	program := builder.Build()

	// Two meetings, one room: one row per meeting (two constraints each for
	// the equality) plus one occupancy row for (A, T1)
	assert.Equal(t, uint64(4), program.instance.Variables)
	assert.Len(t, program.instance.Constrs, 5)
	assert.NotEmpty(t, program.instance.Cost)
}
