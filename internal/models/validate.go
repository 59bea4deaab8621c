package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
}

// fieldChecker is implemented by requests with cross-field rules.
type fieldChecker interface {
	fieldErrors() map[string][]string
}

// Validate checks a request body before it is sent. Failures are an
// *api.Error with status 400 and per-field messages.
func Validate(v any) error {
	fields := map[string][]string{}

	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			name := fieldName(fe)
			fields[name] = append(fields[name], message(fe))
		}
	default:
		return fmt.Errorf("validating %T: %w", v, err)
	}

	if fc, ok := v.(fieldChecker); ok {
		for name, msgs := range fc.fieldErrors() {
			fields[name] = append(fields[name], msgs...)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return api.NewValidationError(fields)
}

// ValidateField checks a single value against a validator tag such as
// "required,email", for prompts that validate as the user types.
func ValidateField(value any, tag string) error {
	err := validate.Var(value, tag)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(message(verrs[0]))
	}
	return err
}

// fieldName drops the struct name from the namespace, keeping nested
// paths such as items[0].quantity.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "url":
		return "Enter a valid URL"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Must have at least %s characters", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("Must have at least %s items", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must have at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must have exactly %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("Use the format %s", fe.Param())
	default:
		return "Invalid value"
	}
}
