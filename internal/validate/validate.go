// Package validate checks request structs at the boundary before any
// pricing or ledger operation runs.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/oficina-erp/oficina/internal/apperrors"
	"github.com/oficina-erp/oficina/internal/money"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Decimals are validated through their string form so the custom
		// tags below see a plain string.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("field"), ",", 2)[0]
			if name == "" {
				return f.Name
			}
			return name
		})

		mustRegister(v, "dec_gt0", func(d decimal.Decimal) bool { return d.IsPositive() })
		mustRegister(v, "dec_gte0", func(d decimal.Decimal) bool { return !d.IsNegative() })
		mustRegister(v, "percent", money.ValidPercent)
		mustRegister(v, "cents", money.HasAtMostCents)

		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, check func(decimal.Decimal) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return check(d)
	})
	if err != nil {
		panic("registering validation " + tag + ": " + err.Error())
	}
}

// Struct validates s and returns the first violation as a *apperrors.ValidationError.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating %T: %w", s, err)
	}
	fe := verrs[0]
	return &apperrors.ValidationError{Field: fe.Field(), Reason: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "dec_gt0":
		return fmt.Sprintf("must be positive, got %v", fe.Value())
	case "dec_gte0":
		return fmt.Sprintf("must not be negative, got %v", fe.Value())
	case "percent":
		return fmt.Sprintf("must be between 0 and 100, got %v", fe.Value())
	case "cents":
		return fmt.Sprintf("must have at most %d decimal places, got %v", money.Places, fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
