package common

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks the payload's validate tags and converts any failure
// into an ErrValidation-kinded error.
func ValidateStruct(payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return Validationf("%s", validationErrors.Error())
	}
	return nil
}
