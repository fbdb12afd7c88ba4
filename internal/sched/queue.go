// Package sched implements the deferred event queue used for delayed state
// transitions. Every event is stamped with the epoch in force when it was
// scheduled; advancing the epoch turns all pending events stale so they are
// dropped instead of fired.
package sched

import (
	"container/heap"
	"time"

	"github.com/elektrokombinacija/warehouse-robot-sim/internal/clock"
)

// Event is a deferred callback.
type Event struct {
	Name  string
	Due   time.Time
	Epoch uint64
	fn    func()
	seq   uint64 // insertion order, breaks ties on Due
	index int    // heap index
}

// eventHeap implements heap.Interface ordered by due time.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Due.Equal(h[j].Due) {
		return h[i].seq < h[j].seq
	}
	return h[i].Due.Before(h[j].Due)
}
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *eventHeap) Push(x any) {
	e := x.(*Event)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Queue is a min-heap of deferred events. It is not safe for concurrent use;
// the owner serialises access.
type Queue struct {
	clock clock.Clock
	epoch uint64
	seq   uint64
	h     eventHeap
}

// New creates a queue that timestamps events with c.
func New(c clock.Clock) *Queue {
	return &Queue{clock: c}
}

// Epoch returns the current generation.
func (q *Queue) Epoch() uint64 {
	return q.epoch
}

// AdvanceEpoch invalidates every pending event and returns the new epoch.
func (q *Queue) AdvanceEpoch() uint64 {
	q.epoch++
	return q.epoch
}

// After schedules fn to run once delay has elapsed on the queue clock.
func (q *Queue) After(delay time.Duration, name string, fn func()) {
	q.seq++
	heap.Push(&q.h, &Event{
		Name:  name,
		Due:   q.clock.Now().Add(delay),
		Epoch: q.epoch,
		fn:    fn,
		seq:   q.seq,
	})
}

// RunDue pops every event due at or before now, in due order, and runs those
// scheduled in the current epoch. Stale events are discarded. It returns the
// number of callbacks run.
func (q *Queue) RunDue(now time.Time) int {
	ran := 0
	for q.h.Len() > 0 && !q.h[0].Due.After(now) {
		e := heap.Pop(&q.h).(*Event)
		if e.Epoch != q.epoch {
			continue
		}
		e.fn()
		ran++
	}
	return ran
}

// Pending returns the number of live events still waiting.
func (q *Queue) Pending() int {
	n := 0
	for _, e := range q.h {
		if e.Epoch == q.epoch {
			n++
		}
	}
	return n
}

// Next returns the earliest live event, if any.
func (q *Queue) Next() (Event, bool) {
	var next *Event
	for _, e := range q.h {
		if e.Epoch != q.epoch {
			continue
		}
		if next == nil || e.Due.Before(next.Due) || (e.Due.Equal(next.Due) && e.seq < next.seq) {
			next = e
		}
	}
	if next == nil {
		return Event{}, false
	}
	return *next, true
}
