package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"znuny-client/domain"
)

const notBlankTag = "notblank"

var validate = newValidator() // nolint:gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(errors.WithMessage(err, "register notblank validation"))
	}
	return v
}

// validateStruct reports the first failed field as "Type.Field: field is required".
func validateStruct(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return errors.WithMessage(domain.ErrRequiredField, fieldErrors[0].Namespace())
	}
	return errors.WithMessage(err, "validate payload")
}

func validateField(namespace string, value string, tag string) error {
	err := validate.Var(value, tag)
	if err != nil {
		return errors.WithMessage(domain.ErrRequiredField, namespace)
	}
	return nil
}

func Ptr[T any](value T) *T {
	return &value
}

func putOptional[T any](m map[string]any, key string, value *T) {
	if value != nil {
		m[key] = *value
	}
}
