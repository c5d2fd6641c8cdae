package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is the per-field entry returned in the "errors" array of a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationError flattens binding errors into one message.
func FormatValidationError(err error) string {
	fields := FieldErrors(err)
	if len(fields) == 0 {
		return err.Error()
	}
	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, "; ")
}

func FieldErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	out := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, FieldError{
			Field:   getFieldName(fe.Field()),
			Message: getFieldErrorMessage(fe),
		})
	}
	return out
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and numbers", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":       "username",
		"Email":          "email",
		"Password":       "password",
		"FullName":       "fullName",
		"Bio":            "bio",
		"ProfilePicture": "profilePicture",
		"Content":        "content",
		"MediaURLs":      "mediaUrls",
		"UserID":         "userId",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
