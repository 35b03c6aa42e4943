package model

import (
	"encoding/json"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Room is a physical room of the inventory. Immutable once loaded.
type Room struct {
	Name     string
	Capacity uint64
	Tags     []string
}

// Course is a specific section of a subject, already disambiguated by the
// external normalizer. A course owns one or two meetings.
type Course struct {
	Code       string
	Enrollment uint64
}

// Meeting is one recurring occurrence of a course at a fixed time slot.
// Two meetings with equal TimeSlot values are simultaneous.
type Meeting struct {
	Course         string
	TimeSlot       string `mapstructure:"timeSlot"`
	DurationWeight uint64 `mapstructure:"durationWeight"`
}

type PolicyMode string

const (
	// Forced pins a course's meetings to the target room irrespective of capacity.
	Forced PolicyMode = "forced"
	// PreferredIfCapacityFits pins a course's meetings to the target room
	// only when its capacity suffices; otherwise the course falls back to
	// ordinary assignment among its other feasible rooms.
	PreferredIfCapacityFits PolicyMode = "preferred"
)

// Policy is one declarative room-affinity rule over a set of courses.
type Policy struct {
	Label   string
	Courses []string
	Room    string // Target room
	Mode    PolicyMode
}

// DisplayLabel is the label carried by the status of a pinned assignment.
func (policy Policy) DisplayLabel() string {
	if policy.Label != "" {
		return policy.Label
	}
	if policy.Mode == Forced {
		return "Forced"
	}
	return "Preferred"
}

// OverlapGroup declares a pair of courses whose meetings may legitimately
// co-occupy one combined room resource at a shared time slot.
type OverlapGroup struct {
	Name    string
	Courses []string // Exactly two course codes
	Room    string   // The designated combined room
}

// ModelInput is the read-only snapshot the engine consumes: normalized
// records produced by the external loaders plus the declarative policy table.
type ModelInput struct {
	Rooms         []Room
	Courses       []Course
	Meetings      []Meeting
	Policies      []Policy
	OverlapGroups []OverlapGroup `mapstructure:"overlapGroups"`
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var input ModelInput
	mapstructure.Decode(inputJson, &input)

	return input, nil
}

// Validate checks the preconditions every record must hold before constraint
// construction. The first malformed record aborts the run with a DataError.
func (input ModelInput) Validate() error {
	roomNames := make(map[string]bool, len(input.Rooms))
	for _, room := range input.Rooms {
		if room.Name == "" {
			return DataError{Entity: "room", Reason: "empty name"}
		}
		if roomNames[room.Name] {
			return DataError{Entity: "room", ID: room.Name, Reason: "duplicate name"}
		}
		if room.Capacity == 0 {
			return DataError{Entity: "room", ID: room.Name, Reason: "non-positive capacity"}
		}
		roomNames[room.Name] = true
	}

	courseCodes := make(map[string]bool, len(input.Courses))
	for _, course := range input.Courses {
		if course.Code == "" {
			return DataError{Entity: "course", Reason: "empty code"}
		}
		if courseCodes[course.Code] {
			return DataError{Entity: "course", ID: course.Code, Reason: "duplicate code"}
		}
		courseCodes[course.Code] = true
	}

	meetingSlots := make(map[string][]string, len(input.Courses))
	for _, meeting := range input.Meetings {
		if !courseCodes[meeting.Course] {
			return DataError{Entity: "meeting", ID: meeting.Course, Reason: "unknown course"}
		}
		if meeting.TimeSlot == "" {
			return DataError{Entity: "meeting", ID: meeting.Course, Reason: "missing time slot"}
		}
		if meeting.DurationWeight == 0 {
			return DataError{Entity: "meeting", ID: meeting.Course, Reason: "non-positive duration weight"}
		}
		if lo.Contains(meetingSlots[meeting.Course], meeting.TimeSlot) {
			return DataError{Entity: "meeting", ID: meeting.Course, Reason: "duplicate time slot for course"}
		}
		meetingSlots[meeting.Course] = append(meetingSlots[meeting.Course], meeting.TimeSlot)
		if len(meetingSlots[meeting.Course]) > 2 {
			return DataError{Entity: "meeting", ID: meeting.Course, Reason: "more than two meetings for course"}
		}
	}

	for _, policy := range input.Policies {
		if len(policy.Courses) == 0 {
			return DataError{Entity: "policy", ID: policy.DisplayLabel(), Reason: "empty course set"}
		}
		if policy.Mode != Forced && policy.Mode != PreferredIfCapacityFits {
			return DataError{Entity: "policy", ID: policy.DisplayLabel(), Reason: "unknown mode " + string(policy.Mode)}
		}
		if !roomNames[policy.Room] {
			return DataError{Entity: "policy", ID: policy.DisplayLabel(), Reason: "unknown target room " + policy.Room}
		}
		for _, course := range policy.Courses {
			if !courseCodes[course] {
				return DataError{Entity: "policy", ID: policy.DisplayLabel(), Reason: "unknown course " + course}
			}
		}
	}

	for _, group := range input.OverlapGroups {
		if group.Name == "" {
			return DataError{Entity: "overlap-group", Reason: "empty name"}
		}
		if len(group.Courses) != 2 || group.Courses[0] == group.Courses[1] {
			return DataError{Entity: "overlap-group", ID: group.Name, Reason: "must name exactly two distinct courses"}
		}
		if !roomNames[group.Room] {
			return DataError{Entity: "overlap-group", ID: group.Name, Reason: "unknown room " + group.Room}
		}
		for _, course := range group.Courses {
			if !courseCodes[course] {
				return DataError{Entity: "overlap-group", ID: group.Name, Reason: "unknown course " + course}
			}
		}
	}

	return nil
}
