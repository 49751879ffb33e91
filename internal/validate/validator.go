// Package validate implements the trivial rule-chain form validation used by
// the client before any request leaves the process. Rules never short-circuit:
// every declared rule runs and violations accumulate per field, in order, so a
// form can surface all of its problems at once.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Errors maps a field name to the ordered list of messages recorded for it.
// The same shape is used for server-side validation errors carried in the
// response envelope, so both ends of a form round trip speak one type.
type Errors map[string][]string

// Validator runs a chain of rules over a field→value form.
type Validator struct {
	form   map[string]string
	errors Errors
}

func New(form map[string]string) *Validator {
	return &Validator{form: form, errors: Errors{}}
}

// Required records an error for every listed field whose value is blank.
func (v *Validator) Required(fields ...string) *Validator {
	for _, field := range fields {
		if v.form[field] == "" {
			v.addError(field, "This field cannot be blank")
		}
	}
	return v
}

// Email checks that the field value contains "@". Deliberately weak: the
// server owns real address validation, this only catches obvious typos.
func (v *Validator) Email(field string) *Validator {
	if !strings.Contains(v.form[field], "@") {
		v.addError(field, "Is not a valid email")
	}
	return v
}

// StrMinLength fails when the value is shorter than n characters.
// A value of exactly n characters passes.
func (v *Validator) StrMinLength(field string, n int) *Validator {
	if utf8.RuneCountInString(v.form[field]) < n {
		v.addError(field, fmt.Sprintf("Must be atleast %d characters", n))
	}
	return v
}

// StrMaxLength fails when the value is longer than n characters.
// A value of exactly n characters passes.
func (v *Validator) StrMaxLength(field string, n int) *Validator {
	if utf8.RuneCountInString(v.form[field]) > n {
		v.addError(field, fmt.Sprintf("Must not exceeds %d characters", n))
	}
	return v
}

// Equal fails when the two fields hold different values. The error is
// recorded against the first field.
func (v *Validator) Equal(field, target string) *Validator {
	if v.form[field] != v.form[target] {
		v.addError(field, fmt.Sprintf("%s does not match with %s", field, target))
	}
	return v
}

// IsValid reports whether no field has any recorded error.
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns the accumulated field errors.
func (v *Validator) Errors() Errors {
	return v.errors
}

func (v *Validator) addError(field, message string) {
	v.errors[field] = append(v.errors[field], message)
}
