package planner

import (
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/task"
)

// Bucket is the deadline-urgency class a task falls into for planning.
type Bucket string

const (
	BucketOverdue    Bucket = "overdue"
	BucketThisWeek   Bucket = "this_week"
	BucketNextWeek   Bucket = "next_week"
	BucketLater      Bucket = "later"
	BucketNoDeadline Bucket = "no_deadline"
)

var AllBuckets = []Bucket{BucketOverdue, BucketThisWeek, BucketNextWeek, BucketLater, BucketNoDeadline}

// bucketOf classifies a due date against now. The overdue boundary compares
// calendar days only; weeks end Sunday 23:59:59 in now's location.
func bucketOf(now time.Time, due null.Time) Bucket {
	if !due.Valid {
		return BucketNoDeadline
	}
	d := due.Time.In(now.Location())

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	if dueDay.Before(today) {
		return BucketOverdue
	}

	weekEnd := endOfWeek(now)
	if !d.After(weekEnd) {
		return BucketThisWeek
	}
	if !d.After(weekEnd.AddDate(0, 0, 7)) {
		return BucketNextWeek
	}
	return BucketLater
}

// endOfWeek returns Sunday 23:59:59 of now's week in now's location.
func endOfWeek(now time.Time) time.Time {
	days := (7 - int(now.Weekday())) % 7
	return time.Date(now.Year(), now.Month(), now.Day()+days, 23, 59, 59, 0, now.Location())
}

// Classify buckets the plannable tasks (active or in review) by deadline
// urgency. Within a bucket, tasks with a priority sort first by priority
// ascending; the rest keep their deadline-then-creation order. Pure function:
// no store access, deterministic for a given now.
func Classify(now time.Time, tasks []task.Task, records []PriorityRecord) map[Bucket][]task.Task {
	prios := make(map[string]int64, len(records))
	for _, rec := range records {
		if rec.Priority.Valid {
			prios[rec.TaskID] = int64(rec.Priority.Int)
		}
	}

	ordered := make([]task.Task, len(tasks))
	copy(ordered, tasks)
	task.SortByDeadline(ordered)

	buckets := make(map[Bucket][]task.Task, len(AllBuckets))
	for _, t := range ordered {
		if !t.IsPlannable() {
			continue
		}
		b := bucketOf(now, t.DueDate)
		buckets[b] = append(buckets[b], t)
	}

	for b, ts := range buckets {
		sort.SliceStable(ts, func(i, j int) bool {
			pi, iok := prios[ts[i].ID]
			pj, jok := prios[ts[j].ID]
			switch {
			case iok && jok:
				return pi < pj
			case iok:
				return true
			}
			return false
		})
		buckets[b] = ts
	}
	return buckets
}
