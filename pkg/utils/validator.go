package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Egyptian mobile numbers: 010, 011, 012 or 015 followed by 8 digits.
var phonePattern = regexp.MustCompile(`^01[0125][0-9]{8}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// decimals compare as floats so gt/min work on money fields
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("egphone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})

	return v
}

// Money columns are NUMERIC(12,2).
const (
	moneyDecimalPlaces  = 2
	moneyMaxWholeDigits = 10
)

var moneyCeiling = decimal.New(1, moneyMaxWholeDigits)

// MoneyError returns the message for an amount that does not fit a money
// column, or "" when it fits.
func MoneyError(d decimal.Decimal) string {
	if !d.Equal(d.Round(moneyDecimalPlaces)) {
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", moneyDecimalPlaces)
	}
	if d.Abs().GreaterThanOrEqual(moneyCeiling) {
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", moneyMaxWholeDigits)
	}
	return ""
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateStruct returns json field name -> message, or nil when valid.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getSimpleErrorMessage(err)
		}
	}

	return errors
}

func getSimpleErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "egphone":
		return "Phone number must be a valid Egyptian mobile number."
	case "eqfield":
		return "Passwords do not match."
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", err.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", err.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", err.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters.", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s.", options)
	case "uuid":
		return "Must be a valid UUID."
	case "datetime":
		return fmt.Sprintf("Date has wrong format. Use this format: %s.", err.Param())
	case "url":
		return "Enter a valid URL."
	default:
		return fmt.Sprintf("Invalid %s field.", err.Field())
	}
}
