// Package validate checks request payloads against struct tags and reports
// every failing field in one pass.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Reason is one failed field.
type Reason struct {
	Field   string
	Message string
}

// String renders the reason as "<field> is <message>".
func (r Reason) String() string {
	return r.Field + " is " + r.Message
}

// Error is returned by Struct when one or more fields fail validation.
type Error struct {
	Reasons []Reason
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = r.String()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// Struct validates s and returns *Error listing each failing field by its
// JSON name. Any other failure (s not a struct) is returned unchanged.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{Reasons: make([]Reason, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Reasons = append(out.Reasons, Reason{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "invalid"
	}
}
