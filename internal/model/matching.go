package model

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// OversubscribedSlots is a diagnostic pre-check: for every time slot it
// computes a maximum bipartite matching between the slot's meetings and
// their candidate rooms, and reports the slots where not every meeting can
// get a room of its own. Meetings of such slots are the ones expected to
// come back Unassigned; the solve itself is unaffected.
func OversubscribedSlots(input ModelInput) (map[string]int, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	builder, err := newConstraintBuilder(input)
	if err != nil {
		return nil, err
	}

	slots := lo.Uniq(lo.FilterMap(input.Meetings, func(meeting Meeting, index int) (string, bool) {
		return meeting.TimeSlot, builder.active[index]
	}))

	oversubscribed := make(map[string]int)
	for _, slot := range slots {
		// Pinned meetings are placed by construction and their reserved rooms
		// are already gone from everyone else's candidates, so only the
		// unpinned meetings compete
		meetings := lo.Filter(lo.Range(len(input.Meetings)), func(m int, _ int) bool {
			return builder.active[m] && builder.pins[m] == nil && input.Meetings[m].TimeSlot == slot
		})

		meetingsAny := lo.ToAnySlice(meetings)
		roomsAny := lo.ToAnySlice(lo.Range(len(builder.rooms)))

		neighbors := func(meetingValue, roomValue any) (bool, error) {
			meeting, room := meetingValue.(int), roomValue.(int)
			return builder.eligible[meeting][uint64(room)], nil
		}

		graph, err := bipartitegraph.NewBipartiteGraph(meetingsAny, roomsAny, neighbors)
		if err != nil {
			return nil, err
		}

		matching := graph.LargestMatching()
		if unplaceable := len(meetings) - len(matching); unplaceable > 0 {
			oversubscribed[slot] = unplaceable
		}
	}

	return oversubscribed, nil
}
