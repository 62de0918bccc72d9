package student

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/studysync/studysync/core"
)

var (
	futureTag  = "future"
	futureText = "must be in the future"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(futureTag, futureValidation)
	core.RegisterCustomTranslation(validate, translator, futureTag, futureText)
}

// futureValidation checks that a time.Time field lies in the future.
func futureValidation(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(time.Time); ok {
		return t.After(time.Now())
	}
	return false
}
