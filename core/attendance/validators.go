package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

var (
	statusTag  = "attendance_status"
	statusText = "invalid attendance status"
)

func init() {
	_ = core.Validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}
