// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package qlerrors defines the error taxonomy for filter and order
// compilation. Every error is raised eagerly at the point of malformed input;
// ambiguity always fails loudly instead of degrading into a guessed fragment.
package qlerrors

import (
	"errors"
	"fmt"
)

// Error codes surfaced to the API layer.
const (
	CodeUnknownField      = "UNKNOWN_FIELD"
	CodeUnknownView       = "UNKNOWN_VIEW"
	CodeUnsupportedOp     = "UNSUPPORTED_OPERATOR"
	CodeConflictingSchema = "CONFLICTING_SCHEMA_REGISTRATION"
	CodeInvalidLiteral    = "INVALID_LITERAL"
	CodeInvalidDirection  = "INVALID_DIRECTION"
	CodeInvalidFieldPath  = "INVALID_FIELD_PATH"
)

// Sentinel errors for errors.Is matching across package boundaries.
var (
	ErrUnknownField      = errors.New("field does not resolve against view schema")
	ErrUnknownView       = errors.New("view is not registered")
	ErrUnsupportedOp     = errors.New("operator not defined for scalar type")
	ErrConflictingSchema = errors.New("conflicting schema re-registration")
	ErrInvalidLiteral    = errors.New("literal does not match declared scalar type")
	ErrInvalidDirection  = errors.New("unrecognized order direction")
	ErrInvalidFieldPath  = errors.New("malformed field path")
)

// UnknownFieldError reports a field path that resolves neither to a direct
// column nor to a JSONB extraction on the target view.
type UnknownFieldError struct {
	Path string
	View string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q on view %q", e.Path, e.View)
}

func (e *UnknownFieldError) Code() string { return CodeUnknownField }

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// UnknownViewError reports a lookup against a view that was never registered.
type UnknownViewError struct {
	View string
}

func (e *UnknownViewError) Error() string {
	return fmt.Sprintf("view %q is not registered", e.View)
}

func (e *UnknownViewError) Code() string { return CodeUnknownView }

func (e *UnknownViewError) Unwrap() error { return ErrUnknownView }

// UnsupportedOperatorError reports an operator requested for a scalar type
// that does not declare it. It is never silently coerced to another operator.
type UnsupportedOperatorError struct {
	Operator   string
	ScalarType string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("operator %q is not supported for scalar type %q", e.Operator, e.ScalarType)
}

func (e *UnsupportedOperatorError) Code() string { return CodeUnsupportedOp }

func (e *UnsupportedOperatorError) Unwrap() error { return ErrUnsupportedOp }

// ConflictingSchemaRegistrationError reports a re-registration of a view with
// metadata that differs from the registered copy.
type ConflictingSchemaRegistrationError struct {
	View   string
	Detail string
}

func (e *ConflictingSchemaRegistrationError) Error() string {
	return fmt.Sprintf("conflicting re-registration of view %q: %s", e.View, e.Detail)
}

func (e *ConflictingSchemaRegistrationError) Code() string { return CodeConflictingSchema }

func (e *ConflictingSchemaRegistrationError) Unwrap() error { return ErrConflictingSchema }

// InvalidLiteralError reports a literal whose shape does not match the
// field's declared scalar type, e.g. a non-UUID string for a Uuid field.
type InvalidLiteralError struct {
	Field  string
	Value  interface{}
	Want   string
	Reason string
}

func (e *InvalidLiteralError) Error() string {
	msg := fmt.Sprintf("invalid literal %v for %s field %q", e.Value, e.Want, e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidLiteralError) Code() string { return CodeInvalidLiteral }

func (e *InvalidLiteralError) Unwrap() error { return ErrInvalidLiteral }

// InvalidDirectionError reports an unrecognized ORDER BY direction token.
type InvalidDirectionError struct {
	Token string
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("unrecognized order direction %q", e.Token)
}

func (e *InvalidDirectionError) Code() string { return CodeInvalidDirection }

func (e *InvalidDirectionError) Unwrap() error { return ErrInvalidDirection }

// InvalidFieldPathError reports a dotted path with empty or non-identifier
// segments.
type InvalidFieldPathError struct {
	Path   string
	Reason string
}

func (e *InvalidFieldPathError) Error() string {
	return fmt.Sprintf("malformed field path %q: %s", e.Path, e.Reason)
}

func (e *InvalidFieldPathError) Code() string { return CodeInvalidFieldPath }

func (e *InvalidFieldPathError) Unwrap() error { return ErrInvalidFieldPath }
