package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report paths by their stored field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("bson"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// FieldError describes one failed path of a document.
type FieldError struct {
	Path    string
	Message string
}

// ValidationErrors lists every failed path, in struct field order.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Path+": "+fe.Message)
	}
	return strings.Join(parts, ", ")
}

// Validate checks a Farm or Product against its schema tags.
func Validate(doc any) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}
	out := make(ValidationErrors, 0, len(fes))
	for _, fe := range fes {
		out = append(out, FieldError{Path: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Path `%s` is required.", fe.Field())
	case "gte":
		return fmt.Sprintf("Path `%s` (%v) is less than minimum allowed value (%s).", fe.Field(), fe.Value(), fe.Param())
	case "oneof":
		return fmt.Sprintf("`%v` is not a valid enum value for path `%s`.", fe.Value(), fe.Field())
	default:
		return fmt.Sprintf("Validator failed for path `%s` with value `%v`", fe.Field(), fe.Value())
	}
}
