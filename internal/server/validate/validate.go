// Package validate wraps go-playground/validator so handler input errors come
// out as the field-to-messages map the response envelope carries.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type InputError map[string][]string

var inputErrMessage = map[string]string{
	"email":       "$field is not a valid email",
	"required":    "$field cannot be empty",
	"min":         "$field must be atleast $param characters",
	"max":         "$field must not exceed $param characters",
	"excludesall": "$field contains unwanted characters",
}

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates i against its struct tags. A nil result means valid.
// Field keys are lowercased so they line up with the JSON payload.
func Struct(i any) *InputError {
	errs := InputError{}

	if err := v.Struct(i); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			k := strings.ToLower(err.Field())
			errs[k] = append(errs[k], getMessage(err))
		}
		return &errs
	}

	return nil
}

func getMessage(err validator.FieldError) string {
	msg := inputErrMessage[err.Tag()]
	msg = strings.Replace(msg, "$field", err.Field(), 1)
	msg = strings.Replace(msg, "$param", err.Param(), 1)
	return msg
}
