package submission

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core"
	"github.com/Acedia413/time-management-sub000/core/user"
)

var errEmptySubmission = errors.New("one of content or file_url is required")

type Submission struct {
	ID          string      `json:"id"`
	TaskID      string      `json:"task_id"`
	StudentID   string      `json:"student_id"`
	Content     null.String `json:"content"`
	FileURL     null.String `json:"file_url"`
	SubmittedAt time.Time   `json:"submitted_at"` // UTC
}

// NewSubmission contains the deliverable a student hands in for a task.
// Re-submitting replaces the student's previous submission for that task.
type NewSubmission struct {
	Content null.String `json:"content"`
	FileURL null.String `json:"file_url"`
}

func (ns *NewSubmission) Validate() error {
	if ns.Content.Valid {
		ns.Content.String = core.CleanString(ns.Content.String)
		ns.Content.Valid = ns.Content.String != ""
	}
	if !ns.Content.Valid && !ns.FileURL.Valid {
		return core.NewValidationError(errEmptySubmission,
			core.FieldError{Field: "content", Error: errEmptySubmission.Error()},
			core.FieldError{Field: "file_url", Error: errEmptySubmission.Error()},
		)
	}
	return core.Validate.Struct(ns)
}

// CanDelete reports whether usr may delete the submission: any admin or
// teacher, or the student who owns it.
func CanDelete(usr user.User, s Submission) bool {
	if usr.IsAdmin() || usr.IsTeacher() {
		return true
	}
	return usr.IsStudent() && usr.ID == s.StudentID
}
