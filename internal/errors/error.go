package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryUsage      Category = "usage"
	CategoryInvariant  Category = "invariant"
	CategoryContract   Category = "contract"
	CategoryCapability Category = "capability"
	CategoryConfig     Category = "config"
)

// Subject names the component and property an error refers to.
type Subject struct {
	Component string
	Property  string
}

// String returns the subject as Component.Property.
func (s *Subject) String() string {
	if s == nil {
		return ""
	}
	if s.Property == "" {
		return s.Component
	}
	if s.Component == "" {
		return s.Property
	}
	return s.Component + "." + s.Property
}

// ReactiveError is a structured error with a registered code.
type ReactiveError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Subject is the component/property the error is about, if known.
	Subject *Subject

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReactiveError) Error() string {
	msg := e.Message
	if subject := e.Subject.String(); subject != "" {
		msg = fmt.Sprintf("%s (%s)", msg, subject)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ReactiveError) Unwrap() error {
	return e.Wrapped
}

// At records the component and property the error refers to.
func (e *ReactiveError) At(component, property string) *ReactiveError {
	e.Subject = &Subject{Component: component, Property: property}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ReactiveError) WithSuggestion(s string) *ReactiveError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *ReactiveError) WithDetail(d string) *ReactiveError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ReactiveError) Wrap(err error) *ReactiveError {
	e.Wrapped = err
	return e
}

// New creates a ReactiveError from a registered error code.
func New(code string) *ReactiveError {
	template, ok := registry[code]
	if !ok {
		return &ReactiveError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ReactiveError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new ReactiveError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ReactiveError {
	return &ReactiveError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ReactiveError.
func FromError(err error, code string) *ReactiveError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*ReactiveError); ok {
		return re
	}
	return New(code).Wrap(err)
}
