package task

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core"
)

// Statuses
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusInReview = "in_review"
	StatusClosed   = "closed"
)

var AllStatuses = []string{StatusDraft, StatusActive, StatusInReview, StatusClosed}

type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description null.String `json:"description"`
	Status      string      `json:"status"`
	DueDate     null.Time   `json:"due_date"`
	GroupID     null.String `json:"group_id"` // null: visible to all groups
	CreatedByID string      `json:"created_by_id"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// IsGlobal reports whether the task is restricted to no group.
func (t *Task) IsGlobal() bool { return !t.GroupID.Valid }

// IsPlannable reports whether the task participates in deadline planning.
// Draft and closed tasks stay out of the planning view.
func (t *Task) IsPlannable() bool {
	return t.Status == StatusActive || t.Status == StatusInReview
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Title       string      `json:"title" validate:"required"`
	Description null.String `json:"description"`
	Status      string      `json:"status" validate:"omitempty,taskstatus"`
	DueDate     null.Time   `json:"due_date"`
	GroupID     null.String `json:"group_id"`
}

func (nt *NewTask) Validate() error {
	nt.Title = core.CleanString(nt.Title)
	if nt.Status == "" {
		nt.Status = StatusActive
	}
	return core.Validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify an existing Task.
// Every field is optional: a zero Title/Status leaves the field unchanged, and
// the Nullable fields distinguish an omitted key (unchanged) from an explicit
// null (cleared).
type UpdateTask struct {
	Title       string              `json:"title"`
	Description core.NullableString `json:"description"`
	Status      string              `json:"status" validate:"omitempty,taskstatus"`
	DueDate     core.NullableTime   `json:"due_date"`
	GroupID     core.NullableString `json:"group_id"`
}

func (ut *UpdateTask) Validate() error {
	ut.Title = core.CleanString(ut.Title)
	return core.Validate.Struct(ut)
}
