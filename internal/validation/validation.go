package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Characters accepted as the "special" class in passwords.
const specialChars = "@$!%*?&"

// Accepted due-date layouts: calendar date or full RFC 3339 timestamp.
var dueDateLayouts = []string{"2006-01-02", time.RFC3339}

// messages maps "<json field>.<rule>" to the client-facing message for
// the first violated rule. Tags are evaluated in struct-tag order, so
// precedence (required, format, enum, length) falls out of tag ordering.
var messages = map[string]string{
	"email.required":      "Email is required",
	"email.email":         "Please enter a valid email address",
	"password.required":   "Password is required",
	"password.min":        "Password must be at least 8 characters long",
	"password.password":   "Password must contain uppercase, lowercase, number, and special character",
	"name.min":            "Name must be at least 2 characters long",
	"name.max":            "Name cannot exceed 100 characters",
	"title.required":      "Title is required",
	"title.min":           "Title cannot be empty",
	"title.max":           "Title cannot exceed 255 characters",
	"description.max":     "Description cannot exceed 1000 characters",
	"status.oneof":        "Status must be pending, in_progress, or completed",
	"priority.oneof":      "Priority must be low, medium, or high",
	"due_date.dateformat": "Due date must be a valid date",
	"due_date.futuredate": "Due date cannot be in the past",
}

// New builds a validator with the custom rules the request schemas use.
// Field names in produced errors are the JSON names.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("dateformat", validDateFormat)
	_ = v.RegisterValidation("futuredate", validFutureDate)

	return v
}

// EchoValidator adapts the validator to Echo's Validator interface.
// The returned error's text is the first violated rule's message.
type EchoValidator struct {
	validate *validator.Validate
}

// NewEchoValidator creates the Echo adapter.
func NewEchoValidator() *EchoValidator {
	return &EchoValidator{validate: New()}
}

// Validate implements echo.Validator.
func (cv *EchoValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return errors.New(Message(err))
	}
	return nil
}

// Message converts a validator error into the message for the first
// failing rule.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
		return fe.Field() + " is invalid"
	}
	return "Invalid request body"
}

// ParseDueDate parses a due date in any accepted layout.
func ParseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func validPassword(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

func validDateFormat(fl validator.FieldLevel) bool {
	_, err := ParseDueDate(fl.Field().String())
	return err == nil
}

func validFutureDate(fl validator.FieldLevel) bool {
	t, err := ParseDueDate(fl.Field().String())
	if err != nil {
		return true // dateformat reports unparsable input first
	}
	return !t.Before(time.Now())
}
