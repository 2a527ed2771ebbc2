package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/task"
)

func due(t time.Time) null.Time { return null.TimeFrom(t) }

func TestBucketOf(t *testing.T) {
	// Tuesday
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  null.Time
		want Bucket
	}{
		{"no due date", null.Time{}, BucketNoDeadline},
		{"yesterday", due(time.Date(2025, 6, 9, 23, 0, 0, 0, time.UTC)), BucketOverdue},
		{"earlier today is not overdue", due(time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)), BucketThisWeek},
		{"later today", due(time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)), BucketThisWeek},
		{"friday this week", due(time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)), BucketThisWeek},
		{"sunday end of week boundary", due(time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)), BucketThisWeek},
		{"monday next week", due(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)), BucketNextWeek},
		{"sunday next week boundary", due(time.Date(2025, 6, 22, 23, 59, 59, 0, time.UTC)), BucketNextWeek},
		{"week after next", due(time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC)), BucketLater},
		{"far future", due(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)), BucketLater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bucketOf(now, tt.due); got != tt.want {
				t.Errorf("bucketOf() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestBucketOf_sundayNow(t *testing.T) {
	// when now is Sunday, the week ends tonight
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	if got := bucketOf(now, due(time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC))); got != BucketThisWeek {
		t.Errorf("bucketOf(tonight) = %v; want %v", got, BucketThisWeek)
	}
	if got := bucketOf(now, due(time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC))); got != BucketNextWeek {
		t.Errorf("bucketOf(tomorrow) = %v; want %v", got, BucketNextWeek)
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	overdue := task.Task{ID: "overdue", Status: task.StatusActive, DueDate: due(time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC))}
	thisWeek := task.Task{ID: "this-week", Status: task.StatusInReview, DueDate: due(time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC))}
	nextWeek := task.Task{ID: "next-week", Status: task.StatusActive, DueDate: due(time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC))}
	later := task.Task{ID: "later", Status: task.StatusActive, DueDate: due(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))}
	noDue := task.Task{ID: "no-due", Status: task.StatusActive}
	draft := task.Task{ID: "draft", Status: task.StatusDraft, DueDate: due(time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC))}
	closed := task.Task{ID: "closed", Status: task.StatusClosed}

	buckets := Classify(now, []task.Task{overdue, thisWeek, nextWeek, later, noDue, draft, closed}, nil)

	ids := func(b Bucket) []string {
		out := make([]string, 0)
		for _, tsk := range buckets[b] {
			out = append(out, tsk.ID)
		}
		return out
	}

	assert.Equal(t, []string{"overdue"}, ids(BucketOverdue))
	assert.Equal(t, []string{"this-week"}, ids(BucketThisWeek))
	assert.Equal(t, []string{"next-week"}, ids(BucketNextWeek))
	assert.Equal(t, []string{"later"}, ids(BucketLater))
	assert.Equal(t, []string{"no-due"}, ids(BucketNoDeadline))

	// draft and closed tasks stay out of every bucket
	total := 0
	for _, b := range AllBuckets {
		total += len(buckets[b])
	}
	assert.Equal(t, 5, total)
}

func TestClassify_priorityOrdering(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// all in this_week, due dates ascending a < b < c
	a := task.Task{ID: "a", Status: task.StatusActive, DueDate: due(time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)), CreatedAt: base}
	b := task.Task{ID: "b", Status: task.StatusActive, DueDate: due(time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)), CreatedAt: base}
	c := task.Task{ID: "c", Status: task.StatusActive, DueDate: due(time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)), CreatedAt: base}

	records := []PriorityRecord{
		{UserID: "u", TaskID: "c", Priority: null.IntFrom(0)},
		{UserID: "u", TaskID: "a", Priority: null.IntFrom(1)},
		// b has no priority: sorts after prioritized tasks
	}

	buckets := Classify(now, []task.Task{a, b, c}, records)

	got := make([]string, 0, 3)
	for _, tsk := range buckets[BucketThisWeek] {
		got = append(got, tsk.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}
