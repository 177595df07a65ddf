package host

import (
	"strconv"

	"github.com/sagernet/netstream/common/x/list"
)

type EventKind uint8

const (
	EventNew EventKind = iota
	EventLeave
	EventData
	EventTimer
)

func (k EventKind) String() string {
	switch k {
	case EventNew:
		return "new"
	case EventLeave:
		return "leave"
	case EventData:
		return "data"
	case EventTimer:
		return "timer"
	default:
		return "event(" + strconv.Itoa(int(k)) + ")"
	}
}

// Event is one entry of the host queue. New and Leave carry the peer address as
// payload; Timer carries neither handle nor tag.
type Event struct {
	Kind    EventKind
	Handle  Handle
	Tag     int64
	Payload []byte
}

// Queue is an unbounded FIFO of events.
type Queue struct {
	events list.List[Event]
}

func (q *Queue) Push(event Event) {
	q.events.PushBack(event)
}

func (q *Queue) Pop() (Event, bool) {
	if q.events.IsEmpty() {
		return Event{}, false
	}
	return q.events.PopFront(), true
}

func (q *Queue) Len() int {
	return q.events.Len()
}

func (q *Queue) Clear() {
	q.events.Init()
}
