package task

import (
	"github.com/go-playground/validator/v10"

	"github.com/Acedia413/time-management-sub000/core"
)

var (
	taskStatusTag  = "taskstatus"
	taskStatusText = "invalid task status"
)

func init() {
	_ = core.Validate.RegisterValidation(taskStatusTag, taskStatusValidation)
	core.RegisterCustomTranslation(taskStatusTag, taskStatusText)
}

// taskStatusValidation checks that the provided status is in AllStatuses
func taskStatusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}
