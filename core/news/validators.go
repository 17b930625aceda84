package news

import (
	"github.com/go-playground/validator/v10"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

var (
	categoryTag  = "news_category"
	categoryText = "invalid news category"
)

func init() {
	_ = core.Validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(categoryTag, categoryText)
}

func categoryValidation(fl validator.FieldLevel) bool {
	category := fl.Field().String()
	for _, c := range AllCategories {
		if category == c {
			return true
		}
	}
	return false
}
