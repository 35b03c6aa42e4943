package model

// Indexer interface is designed to give a unique decision variable to a (meeting, room) pair and vice versa
type Indexer interface {
	// Returns the 1-based variable of a (meeting, room) pair
	Index(meeting, room uint64) uint64
	// Returns the (meeting, room) pair of a 1-based variable
	Attributes(index uint64) (meeting uint64, room uint64)
	// Returns the variable of the meeting's overflow column (the "no room" slack)
	Overflow(meeting uint64) uint64
	// Total number of variables, overflow columns included
	Variables() uint64
}

func NewIndexer(meetings, rooms uint64) Indexer {
	return &sortedIndexer{
		meetings: meetings,
		rooms:    rooms,
	}
}
