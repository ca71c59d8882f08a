package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("future", isFuture)
	v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// isFuture accepts a time.Time (or pointer to one) strictly after now.
func isFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

// ValidateStruct returns nil when data is valid, otherwise a map from json
// field name to message.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
		return errors
	}

	errors["request"] = err.Error()
	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	label := fieldLabel(err.Field())

	switch err.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, err.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, err.Param())
	case "future":
		return fmt.Sprintf("%s must be in the future", label)
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("%s must be one of: %s", label, options)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// fieldLabel turns a json name into prose: "seatNumber" -> "Seat number",
// "showtimeId" -> "Showtime ID".
func fieldLabel(field string) string {
	var words []string
	start := 0
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, strings.ToLower(field[start:i]))
			start = i
		}
	}
	words = append(words, strings.ToLower(field[start:]))

	for i, w := range words {
		if w == "id" {
			words[i] = "ID"
		}
	}
	if words[0] != "ID" && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}

// formats validation errors map into single string, sorted by field
func FormatValidationErrors(errors map[string]string) string {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, errors[field]))
	}
	return strings.Join(msgs, "; ")
}
