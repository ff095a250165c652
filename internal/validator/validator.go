package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

// Validator checks request payloads before they reach the store
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("role", validateRole)
	v.RegisterValidation("past", validatePast)
	v.RegisterValidation("notblank", validateNotBlank)

	return &Validator{validate: v}
}

// Validate checks i and converts failures into an invalid-input error naming the first bad field
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domain.InvalidInput("%s", describe(verrs[0]))
	}
	return domain.InvalidInput("invalid request: %v", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "role":
		return fmt.Sprintf("%s must be one of staff, manager, admin", fe.Field())
	case "past":
		return fmt.Sprintf("%s must be in the past", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func validateRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).Valid()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validatePast accepts a time.Time or domain.Date that is not in the future
func validatePast(fl validator.FieldLevel) bool {
	switch t := fl.Field().Interface().(type) {
	case time.Time:
		return !t.After(time.Now())
	case domain.Date:
		return !t.Time().After(time.Now())
	default:
		return false
	}
}
