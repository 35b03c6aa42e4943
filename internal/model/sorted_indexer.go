package model

// sortedIndexer lays variables out row-major: one row per meeting, rooms+1
// columns, where the last column is the meeting's overflow variable.
type sortedIndexer struct {
	meetings uint64
	rooms    uint64
}

func (i *sortedIndexer) Index(meeting, room uint64) uint64 {
	return meeting*(i.rooms+1) + room + 1
}

func (i *sortedIndexer) Attributes(index uint64) (meeting uint64, room uint64) {
	index--

	room = index % (i.rooms + 1)
	meeting = index / (i.rooms + 1)

	return meeting, room
}

func (i *sortedIndexer) Overflow(meeting uint64) uint64 {
	return i.Index(meeting, i.rooms)
}

func (i *sortedIndexer) Variables() uint64 {
	return i.meetings * (i.rooms + 1)
}
