package planner

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core"
)

var errEstimateNotPositive = errors.New("estimated_minutes must be a positive number of minutes")

// EstimateChoices are the durations offered by the planning UI. They are a
// convenience, not a validation boundary: any positive minute count is valid.
var EstimateChoices = []int64{15, 30, 60, 120, 180, 240}

// PriorityRecord holds one caller's scheduling attributes for one task.
// Records are scoped per (user, task) so that two users ordering their own
// planning views never overwrite each other. Absence of a record means
// "unordered": the task sorts last in its bucket.
type PriorityRecord struct {
	UserID           string    `json:"-"`
	TaskID           string    `json:"task_id"`
	Priority         null.Int  `json:"priority"`
	EstimatedMinutes null.Int  `json:"estimated_minutes"`
	UpdatedAt        time.Time `json:"updated_at"` // UTC
}

// SetPriority assigns a task's rank within its bucket; lower sorts first.
type SetPriority struct {
	Priority int64 `json:"priority" validate:"gte=0"`
}

func (sp *SetPriority) Validate() error { return core.Validate.Struct(sp) }

// SetEstimate assigns or clears (explicit null) a task's estimated duration.
type SetEstimate struct {
	EstimatedMinutes null.Int `json:"estimated_minutes"`
}

func (se *SetEstimate) Validate() error {
	if se.EstimatedMinutes.Valid && se.EstimatedMinutes.Int <= 0 {
		return core.NewValidationError(errEstimateNotPositive,
			core.FieldError{Field: "estimated_minutes", Error: errEstimateNotPositive.Error()})
	}
	return nil
}

// Reorder carries the client-observed ordering of one bucket after a drag
// operation: every task id of the bucket, in the order the caller now sees.
type Reorder struct {
	TaskIDs []string `json:"task_ids" validate:"required,min=1,unique"`
}

func (r *Reorder) Validate() error { return core.Validate.Struct(r) }
