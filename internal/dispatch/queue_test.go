package dispatch

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(jobID uuid.UUID, to string, priority int, at time.Time) *Entry {
	e := &Entry{
		RecipientID: uuid.New(),
		JobID:       jobID,
		Priority:    priority,
		ScheduledAt: at,
	}
	e.Message.To = to

	return e
}

func drainOrder(q *Queue, now time.Time) []string {
	var out []string
	for {
		e, _ := q.Next(now)
		if e == nil {
			return out
		}
		out = append(out, e.Message.To)
	}
}

func TestQueue_Ordering(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	job := uuid.New()

	q := NewQueue()
	q.Push(
		newEntry(job, "low-early", 0, base.Add(-2*time.Minute)),
		newEntry(job, "high-late", 5, base.Add(-time.Minute)),
		newEntry(job, "high-early", 5, base.Add(-2*time.Minute)),
		newEntry(job, "low-early-second", 0, base.Add(-2*time.Minute)),
		newEntry(job, "high-early-second", 5, base.Add(-2*time.Minute)),
	)

	assert.Equal(t, []string{
		"high-early",
		"high-early-second",
		"high-late",
		"low-early",
		"low-early-second",
	}, drainOrder(q, base))
}

func TestQueue_EligibilityWaitsForScheduledTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	job := uuid.New()

	q := NewQueue()
	q.Push(
		newEntry(job, "future-urgent", 9, base.Add(time.Minute)),
		newEntry(job, "now", 0, base),
	)

	e, _ := q.Next(base)
	require.NotNil(t, e)
	assert.Equal(t, "now", e.Message.To)

	e, next := q.Next(base)
	assert.Nil(t, e)
	assert.Equal(t, base.Add(time.Minute), next)

	e, _ = q.Next(base.Add(time.Minute))
	require.NotNil(t, e)
	assert.Equal(t, "future-urgent", e.Message.To)

	e, next = q.Next(base.Add(time.Hour))
	assert.Nil(t, e)
	assert.True(t, next.IsZero())
}

func TestQueue_RemoveJob(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	keep, drop := uuid.New(), uuid.New()

	q := NewQueue()
	q.Push(
		newEntry(keep, "a", 0, base),
		newEntry(drop, "b", 0, base),
		newEntry(keep, "c", 0, base.Add(time.Hour)),
		newEntry(drop, "d", 0, base.Add(time.Hour)),
	)
	// promote the eligible ones so both heaps hold entries
	first, _ := q.Next(base)
	require.NotNil(t, first)
	q.Requeue(first)

	removed := q.RemoveJob(drop)
	assert.Len(t, removed, 2)
	assert.Equal(t, 2, q.Len())

	assert.Equal(t, []string{"a", "c"}, drainOrder(q, base.Add(2*time.Hour)))
}

func TestQueue_RequeueKeepsInsertionOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	job := uuid.New()

	q := NewQueue()
	q.Push(newEntry(job, "first", 0, base), newEntry(job, "second", 0, base))

	e, _ := q.Next(base)
	require.NotNil(t, e)
	q.Requeue(e)

	assert.Equal(t, []string{"first", "second"}, drainOrder(q, base))
}
