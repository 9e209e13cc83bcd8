package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	var messages []string
	for _, err := range ve {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, ", ")
}

var (
	// Intentionally permissive: non-space, @, non-space, dot, non-space.
	// Full RFC 5322 is not the goal here.
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidNigerianPhone validates a Nigerian phone number. After stripping
// every non-digit character the number must be 11 digits starting with 0
// (local format) or 13 digits starting with 234 (international format).
func IsValidNigerianPhone(phone string) bool {
	cleaned := nonDigitRegex.ReplaceAllString(phone, "")
	return (len(cleaned) == 11 && strings.HasPrefix(cleaned, "0")) ||
		(len(cleaned) == 13 && strings.HasPrefix(cleaned, "234"))
}

// IsValidUsername validates username format: 3-50 characters, letters,
// digits and underscores only.
func IsValidUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	return usernameRegex.MatchString(username)
}

// ValidatePassword validates password requirements. Minimum length only,
// no complexity rules.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must be at most 128 characters long")
	}
	return nil
}

// ValidateStruct validates a struct using reflection and `validate` tags.
// Supported rules: required, min=N, max=N, email, phone, username.
func ValidateStruct(s interface{}) error {
	var errors ValidationErrors

	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", v.Kind())
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanInterface() {
			continue
		}

		validateTag := fieldType.Tag.Get("validate")
		if validateTag == "" {
			continue
		}

		for _, rule := range strings.Split(validateTag, ",") {
			rule = strings.TrimSpace(rule)
			if err := validateField(fieldType.Name, field, rule); err != nil {
				errors = append(errors, *err)
			}
		}
	}

	if len(errors) > 0 {
		return errors
	}

	return nil
}

// validateField validates a single field against a rule
func validateField(fieldName string, field reflect.Value, rule string) *ValidationError {
	parts := strings.SplitN(rule, "=", 2)
	ruleName := parts[0]
	var ruleValue string
	if len(parts) > 1 {
		ruleValue = parts[1]
	}

	switch ruleName {
	case "required":
		if isEmpty(field) {
			return &ValidationError{Field: fieldName, Message: "is required"}
		}
	case "email":
		if field.Kind() == reflect.String {
			if email := field.String(); email != "" && !IsValidEmail(email) {
				return &ValidationError{
					Field:   fieldName,
					Message: "must be a valid email address",
				}
			}
		}
	case "phone":
		if field.Kind() == reflect.String {
			if phone := field.String(); phone != "" && !IsValidNigerianPhone(phone) {
				return &ValidationError{
					Field:   fieldName,
					Message: "must be a valid Nigerian phone number",
				}
			}
		}
	case "username":
		if field.Kind() == reflect.String {
			if name := field.String(); name != "" && !IsValidUsername(name) {
				return &ValidationError{
					Field:   fieldName,
					Message: "must be 3-50 characters, letters, numbers and underscores only",
				}
			}
		}
	case "min":
		if field.Kind() == reflect.String {
			if len(field.String()) < parseIntOrDefault(ruleValue, 0) {
				return &ValidationError{
					Field:   fieldName,
					Message: fmt.Sprintf("must be at least %s characters", ruleValue),
				}
			}
		}
	case "max":
		if field.Kind() == reflect.String {
			if len(field.String()) > parseIntOrDefault(ruleValue, 0) {
				return &ValidationError{
					Field:   fieldName,
					Message: fmt.Sprintf("must be at most %s characters", ruleValue),
				}
			}
		}
	}

	return nil
}

// isEmpty checks if a field is empty
func isEmpty(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.String:
		return field.String() == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return field.IsNil()
	case reflect.Invalid:
		return true
	default:
		return false
	}
}

// parseIntOrDefault parses an integer or returns default value
func parseIntOrDefault(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return defaultValue
}
