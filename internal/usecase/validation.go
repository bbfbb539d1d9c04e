package usecase

import (
	"fmt"
	"net/mail"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSubmitLeadInput checks the full-application form. Field checks
// mirror the public form: short names and bogus emails are rejected before
// any side effect runs.
func ValidateSubmitLeadInput(input SubmitLeadInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName(input.Name)...)
	errors = append(errors, validateEmail(input.Email)...)

	if strings.TrimSpace(input.Market) == "" {
		errors = append(errors, ValidationError{"market", "is required"})
	} else if len(strings.TrimSpace(input.Market)) < 2 {
		errors = append(errors, ValidationError{"market", "must have at least 2 characters"})
	}

	return errors
}

// ValidateLeadMagnetInput checks the download form, which only collects
// name and email.
func ValidateLeadMagnetInput(input SubmitLeadMagnetInput) []ValidationError {
	var errors []ValidationError
	errors = append(errors, validateName(input.Name)...)
	errors = append(errors, validateEmail(input.Email)...)
	return errors
}

func validateName(name string) []ValidationError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return []ValidationError{{"name", "is required"}}
	}
	if len(trimmed) < 2 {
		return []ValidationError{{"name", "must have at least 2 characters"}}
	}
	if len(trimmed) > 200 {
		return []ValidationError{{"name", "must not exceed 200 characters"}}
	}
	return nil
}

func validateEmail(email string) []ValidationError {
	if strings.TrimSpace(email) == "" {
		return []ValidationError{{"email", "is required"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []ValidationError{{"email", "is invalid"}}
	}
	return nil
}
