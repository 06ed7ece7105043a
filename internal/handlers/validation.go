package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var msisdnPattern = regexp.MustCompile(`^[0-9]{8,15}$`)

// registerCustomValidators installs the binding rules used by request DTOs.
// "msisdn" accepts a bare subscriber number of 8 to 15 digits.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
			return msisdnPattern.MatchString(fl.Field().String())
		})
	}
}
