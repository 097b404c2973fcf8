// Package dispatch drains per-connection send queues, one worker per connection.
package dispatch

import (
	"container/heap"
	"sync"
	"time"

	"courier/internal/domain/entity"
	"courier/internal/domain/service"

	"github.com/google/uuid"
)

// Entry is one queued send for a single recipient
type Entry struct {
	RecipientID  uuid.UUID
	JobID        uuid.UUID
	ConnectionID uuid.UUID
	Message      service.OutboundMessage
	Priority     int
	ScheduledAt  time.Time
	Delay        entity.DelayPolicy

	seq uint64
}

// Queue orders the entries of one connection by priority desc, scheduled time asc
// and insertion order asc. Entries whose scheduled time has not come yet wait in a
// separate heap keyed by time, so the head of the ready heap is always eligible.
type Queue struct {
	mu      sync.Mutex
	seq     uint64
	ready   readyHeap
	waiting waitingHeap
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push adds entries in the given order
func (q *Queue) Push(entries ...*Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range entries {
		q.seq++
		e.seq = q.seq
		heap.Push(&q.waiting, e)
	}
}

// Next pops the best eligible entry at now. When nothing is eligible it returns
// the time the earliest waiting entry becomes eligible, or the zero time when the
// queue is empty.
func (q *Queue) Next(now time.Time) (*Entry, time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.promote(now)

	if q.ready.Len() > 0 {
		return heap.Pop(&q.ready).(*Entry), time.Time{}
	}
	if q.waiting.Len() > 0 {
		return nil, q.waiting[0].ScheduledAt
	}

	return nil, time.Time{}
}

// Requeue puts a popped entry back keeping its original insertion order
func (q *Queue) Requeue(e *Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	heap.Push(&q.waiting, e)
}

func (q *Queue) promote(now time.Time) {
	for q.waiting.Len() > 0 && !q.waiting[0].ScheduledAt.After(now) {
		heap.Push(&q.ready, heap.Pop(&q.waiting))
	}
}

// RemoveJob drops every entry of the job and returns them
func (q *Queue) RemoveJob(jobID uuid.UUID) []*Entry {
	return q.remove(func(e *Entry) bool { return e.JobID == jobID })
}

// Drain empties the queue and returns what it held
func (q *Queue) Drain() []*Entry {
	return q.remove(func(*Entry) bool { return true })
}

func (q *Queue) remove(match func(*Entry) bool) []*Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	var removed []*Entry

	keptReady := q.ready[:0]
	for _, e := range q.ready {
		if match(e) {
			removed = append(removed, e)
		} else {
			keptReady = append(keptReady, e)
		}
	}
	clear(q.ready[len(keptReady):])
	q.ready = keptReady
	heap.Init(&q.ready)

	keptWaiting := q.waiting[:0]
	for _, e := range q.waiting {
		if match(e) {
			removed = append(removed, e)
		} else {
			keptWaiting = append(keptWaiting, e)
		}
	}
	clear(q.waiting[len(keptWaiting):])
	q.waiting = keptWaiting
	heap.Init(&q.waiting)

	return removed
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.ready.Len() + q.waiting.Len()
}

type readyHeap []*Entry

func (h readyHeap) Len() int { return len(h) }

func (h readyHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.ScheduledAt.Equal(b.ScheduledAt) {
		return a.ScheduledAt.Before(b.ScheduledAt)
	}

	return a.seq < b.seq
}

func (h readyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *readyHeap) Push(x any) { *h = append(*h, x.(*Entry)) }

func (h *readyHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return e
}

type waitingHeap []*Entry

func (h waitingHeap) Len() int { return len(h) }

func (h waitingHeap) Less(i, j int) bool {
	if !h[i].ScheduledAt.Equal(h[j].ScheduledAt) {
		return h[i].ScheduledAt.Before(h[j].ScheduledAt)
	}

	return h[i].seq < h[j].seq
}

func (h waitingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *waitingHeap) Push(x any) { *h = append(*h, x.(*Entry)) }

func (h *waitingHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return e
}
