package model

import (
	"fmt"
	"slices"
	"strings"

	"roomassign/internal/pb"

	"github.com/samber/lo"
)

// pin fixes a meeting's variable on one room to 1. Pins come from Forced
// policies, from PreferredIfCapacityFits policies whose capacity condition
// held, and from overlap-permitted groups.
type pin struct {
	room  uint64
	label string
}

type slotKey struct {
	room uint64
	slot string
}

// program is the solver-ready form of a snapshot: the PB instance plus the
// bookkeeping the classifier needs to read the solution back.
type program struct {
	instance pb.PB
	indexer  Indexer
	input    ModelInput
	rooms    []Room // Lexicographic by name; every room index refers to this order

	active   []bool            // Per meeting: enrollment > 0
	eligible []map[uint64]bool // Per meeting: rooms with a free decision variable
	pins     []*pin            // Per meeting: variable fixed to 1, nil if none
	named    []bool            // Per meeting: course named by at least one policy
}

// needsSolve reports whether any meeting still has a real choice to make.
// Pinned, inactive and candidate-less meetings are all settled by
// construction and classify without a solver run.
func (p program) needsSolve() bool {
	for m := range p.active {
		if p.active[m] && p.pins[m] == nil && len(p.eligible[m]) > 0 {
			return true
		}
	}
	return false
}

type constraintBuilder struct {
	program

	courses   map[string]Course
	roomIndex map[string]uint64
	occupants map[slotKey]occupant // Pinned (room, slot) pairs, for reservation and conflict detection
}

type occupant struct {
	course string
	label  string
}

// newConstraintBuilder translates a validated snapshot into a 0/1 program.
// It returns a PolicyConflictError when the policy table contradicts itself.
func newConstraintBuilder(input ModelInput) (*constraintBuilder, error) {
	builder := &constraintBuilder{
		program: program{
			input:    input,
			rooms:    slices.Clone(input.Rooms),
			active:   make([]bool, len(input.Meetings)),
			eligible: make([]map[uint64]bool, len(input.Meetings)),
			pins:     make([]*pin, len(input.Meetings)),
			named:    make([]bool, len(input.Meetings)),
		},
		occupants: make(map[slotKey]occupant),
	}

	// Lexicographic room order is the deterministic tie-break of the objective
	slices.SortFunc(builder.rooms, func(a, b Room) int { return strings.Compare(a.Name, b.Name) })
	builder.roomIndex = make(map[string]uint64, len(builder.rooms))
	for i, room := range builder.rooms {
		builder.roomIndex[room.Name] = uint64(i)
	}

	builder.courses = lo.SliceToMap(input.Courses, func(course Course) (string, Course) {
		return course.Code, course
	})

	builder.indexer = NewIndexer(uint64(len(input.Meetings)), uint64(len(builder.rooms)))

	builder.capacityFilter()

	if err := builder.detectDuplicatePolicies(); err != nil {
		return nil, err
	}
	if err := builder.applyOverlapGroups(); err != nil {
		return nil, err
	}
	if err := builder.applyPolicies(); err != nil {
		return nil, err
	}
	builder.applyCategoryExclusivity()

	return builder, nil
}

// Build assembles the variable set, the constraint set and the objective.
func (builder *constraintBuilder) Build() program {
	builder.instance = pb.PB{
		Variables: builder.indexer.Variables(),
		Constrs:   []pb.Constr{},
	}

	builder.instance.Constrs = append(builder.instance.Constrs, builder.pinConstraints()...)
	builder.instance.Constrs = append(builder.instance.Constrs, builder.assignmentConstraints()...)
	builder.instance.Constrs = append(builder.instance.Constrs, builder.occupancyConstraints()...)
	builder.instance.Cost = builder.objective()

	return builder.program
}

// capacityFilter computes the feasible (meeting, room) pairs: the room's
// capacity covers the course's enrollment. Meetings of zero-enrollment
// courses stay inactive and never receive variables.
func (builder *constraintBuilder) capacityFilter() {
	for m, meeting := range builder.input.Meetings {
		enrollment := builder.courses[meeting.Course].Enrollment
		if enrollment == 0 {
			continue
		}
		builder.active[m] = true
		builder.eligible[m] = make(map[uint64]bool)
		for r, room := range builder.rooms {
			if room.Capacity >= enrollment {
				builder.eligible[m][uint64(r)] = true
			}
		}
	}
}

func (builder *constraintBuilder) detectDuplicatePolicies() error {
	type courseRoom struct{ course, room string }
	seen := make(map[courseRoom]string)
	for _, policy := range builder.input.Policies {
		for _, course := range policy.Courses {
			key := courseRoom{course, policy.Room}
			if label, ok := seen[key]; ok {
				return PolicyConflictError{
					PolicyA: label,
					PolicyB: policy.DisplayLabel(),
					Room:    policy.Room,
					Reason:  fmt.Sprintf("course %q is named twice for the same target room", course),
				}
			}
			seen[key] = policy.DisplayLabel()
		}
	}
	return nil
}

// applyOverlapGroups pins both designated meetings of each group to the
// combined room at their shared time slots. The pair is the only sanctioned
// co-occupancy; it is built as two pins, not as a relaxed constraint.
func (builder *constraintBuilder) applyOverlapGroups() error {
	for _, group := range builder.input.OverlapGroups {
		room := builder.roomIndex[group.Room]
		shared := lo.Intersect(
			builder.courseSlots(group.Courses[0]),
			builder.courseSlots(group.Courses[1]),
		)
		for _, slot := range shared {
			for m, meeting := range builder.input.Meetings {
				if !builder.active[m] || meeting.TimeSlot != slot || !lo.Contains(group.Courses, meeting.Course) {
					continue
				}
				if err := builder.pinMeeting(uint64(m), room, group.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// applyPolicies walks the policy table in order. Forced pins ignore the
// capacity filter; PreferredIfCapacityFits pins only when the target fits
// and otherwise removes the target from the meeting's candidates.
func (builder *constraintBuilder) applyPolicies() error {
	for _, policy := range builder.input.Policies {
		room := builder.roomIndex[policy.Room]
		capacity := builder.rooms[room].Capacity

		for _, course := range policy.Courses {
			for m, meeting := range builder.input.Meetings {
				if !builder.active[m] || meeting.Course != course {
					continue
				}
				builder.named[m] = true
				if builder.pins[m] != nil {
					continue // An earlier policy already settled this meeting
				}

				switch policy.Mode {
				case Forced:
					if err := builder.pinMeeting(uint64(m), room, policy.DisplayLabel()); err != nil {
						return err
					}
				case PreferredIfCapacityFits:
					fits := capacity >= builder.courses[course].Enrollment
					_, taken := builder.occupants[slotKey{room, meeting.TimeSlot}]
					if fits && !taken {
						if err := builder.pinMeeting(uint64(m), room, policy.DisplayLabel()); err != nil {
							return err
						}
					} else {
						delete(builder.eligible[m], room)
					}
				}
			}
		}
	}
	return nil
}

// pinMeeting fixes the meeting to the room and exclusively reserves the
// (room, time slot) pair: every other meeting sharing the slot loses its
// variable on the room. A second pin on an already reserved pair is a
// PolicyConflictError unless the two courses form a declared
// overlap-permitted group on that room.
func (builder *constraintBuilder) pinMeeting(meeting, room uint64, label string) error {
	slot := builder.input.Meetings[meeting].TimeSlot
	course := builder.input.Meetings[meeting].Course
	key := slotKey{room, slot}

	if holder, taken := builder.occupants[key]; taken {
		if !builder.overlapPermitted(holder.course, course, room) {
			return PolicyConflictError{
				PolicyA: holder.label,
				PolicyB: label,
				Room:    builder.rooms[room].Name,
				Reason:  fmt.Sprintf("courses %q and %q both pinned at time slot %q", holder.course, course, slot),
			}
		}
	} else {
		builder.occupants[key] = occupant{course: course, label: label}
	}

	builder.pins[meeting] = &pin{room: room, label: label}
	builder.eligible[meeting] = nil

	// Exclusive reservation: the room is lost to every other meeting at the slot
	for m, other := range builder.input.Meetings {
		if uint64(m) != meeting && builder.active[m] && other.TimeSlot == slot {
			delete(builder.eligible[m], room)
		}
	}

	return nil
}

func (builder *constraintBuilder) overlapPermitted(courseA, courseB string, room uint64) bool {
	return lo.SomeBy(builder.input.OverlapGroups, func(group OverlapGroup) bool {
		return builder.roomIndex[group.Room] == room &&
			lo.Contains(group.Courses, courseA) &&
			lo.Contains(group.Courses, courseB)
	})
}

// applyCategoryExclusivity blocks every specialized room (the target of at
// least one policy) for the courses no policy grants it. Runs after all
// individual policies so that an explicit grant is never re-blocked.
func (builder *constraintBuilder) applyCategoryExclusivity() {
	specialized := lo.Map(builder.input.Policies, func(policy Policy, _ int) uint64 {
		return builder.roomIndex[policy.Room]
	})

	type grantKey struct {
		room   uint64
		course string
	}
	grants := make(map[grantKey]bool)
	for _, policy := range builder.input.Policies {
		room := builder.roomIndex[policy.Room]
		for _, course := range policy.Courses {
			grants[grantKey{room, course}] = true
		}
	}

	for m, meeting := range builder.input.Meetings {
		if !builder.active[m] || builder.pins[m] != nil {
			continue
		}
		for _, room := range specialized {
			if !grants[grantKey{room, meeting.Course}] {
				delete(builder.eligible[m], room)
			}
		}
	}
}

func (builder *constraintBuilder) courseSlots(course string) []string {
	return lo.FilterMap(builder.input.Meetings, func(meeting Meeting, _ int) (string, bool) {
		return meeting.TimeSlot, meeting.Course == course
	})
}

func (builder *constraintBuilder) pinConstraints() []pb.Constr {
	constrs := make([]pb.Constr, 0)
	for m, p := range builder.pins {
		if p != nil {
			constrs = append(constrs, pb.Unit(int64(builder.indexer.Index(uint64(m), p.room))))
		}
	}
	return constrs
}

// assignmentConstraints make every active, unpinned meeting land in exactly
// one column: a candidate room or its overflow column. The overflow column
// stands for "no room"; its dominating penalty in the objective means the
// solver resorts to it only when the meeting cannot be placed at all.
func (builder *constraintBuilder) assignmentConstraints() []pb.Constr {
	constrs := make([]pb.Constr, 0)
	for m := range builder.input.Meetings {
		if !builder.active[m] || builder.pins[m] != nil {
			continue
		}
		lits := lo.Map(builder.candidateRooms(uint64(m)), func(room uint64, _ int) int64 {
			return int64(builder.indexer.Index(uint64(m), room))
		})
		lits = append(lits, int64(builder.indexer.Overflow(uint64(m))))
		constrs = append(constrs, pb.Eq(lits, nil, 1)...)
	}
	return constrs
}

// occupancyConstraints forbid double-booking: at most one candidate variable
// per (room, time slot). Pinned variables never appear here; their exclusive
// reservation already removed every competitor, and the sanctioned overlap
// pair co-occupies by construction.
func (builder *constraintBuilder) occupancyConstraints() []pb.Constr {
	candidates := make(map[slotKey][]int64)
	for m, meeting := range builder.input.Meetings {
		if !builder.active[m] || builder.pins[m] != nil {
			continue
		}
		for _, room := range builder.candidateRooms(uint64(m)) {
			key := slotKey{room, meeting.TimeSlot}
			candidates[key] = append(candidates[key], int64(builder.indexer.Index(uint64(m), room)))
		}
	}

	keys := lo.Keys(candidates)
	slices.SortFunc(keys, func(a, b slotKey) int {
		if a.room != b.room {
			return int(a.room) - int(b.room)
		}
		return strings.Compare(a.slot, b.slot)
	})

	constrs := make([]pb.Constr, 0, len(keys))
	for _, key := range keys {
		if lits := candidates[key]; len(lits) > 1 {
			slices.Sort(lits)
			constrs = append(constrs, pb.LtEq(lits, nil, 1))
		}
	}
	return constrs
}

// objective minimizes total weighted wasted seats. Costs are scaled so that
// a strictly dominated rank term breaks ties deterministically, and every
// overflow column carries a penalty larger than any achievable waste sum, so
// placements are maximized before waste is minimized. Pinned variables are
// fixed and contribute only constants, so they carry no cost term.
func (builder *constraintBuilder) objective() []pb.CostTerm {
	var maxRankSum, maxWasteSum int64
	for m := range builder.input.Meetings {
		if !builder.active[m] || builder.pins[m] != nil {
			continue
		}
		maxRankSum += int64(builder.indexer.Overflow(uint64(m)))
		var worst int64
		for _, room := range builder.candidateRooms(uint64(m)) {
			if waste := builder.waste(uint64(m), room); waste > worst {
				worst = waste
			}
		}
		maxWasteSum += worst
	}
	scale := maxRankSum + 1
	penalty := maxWasteSum + 1

	terms := make([]pb.CostTerm, 0)
	for m := range builder.input.Meetings {
		if !builder.active[m] || builder.pins[m] != nil {
			continue
		}
		for _, room := range builder.candidateRooms(uint64(m)) {
			variable := builder.indexer.Index(uint64(m), room)
			terms = append(terms, pb.CostTerm{
				Lit:    int64(variable),
				Weight: builder.waste(uint64(m), room)*scale + int64(variable),
			})
		}
		overflow := builder.indexer.Overflow(uint64(m))
		terms = append(terms, pb.CostTerm{
			Lit:    int64(overflow),
			Weight: penalty*scale + int64(overflow),
		})
	}
	return terms
}

// candidateRooms returns the meeting's eligible rooms in ascending index
// order, which is lexicographic room-name order.
func (builder *constraintBuilder) candidateRooms(meeting uint64) []uint64 {
	rooms := lo.Keys(builder.eligible[meeting])
	slices.Sort(rooms)
	return rooms
}

func (builder *constraintBuilder) waste(meeting, room uint64) int64 {
	course := builder.courses[builder.input.Meetings[meeting].Course]
	capacity := int64(builder.rooms[room].Capacity)
	return (capacity - int64(course.Enrollment)) * int64(builder.input.Meetings[meeting].DurationWeight)
}
