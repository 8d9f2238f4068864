// Unified error handling for the print plan pipeline.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Planning errors
	ErrConstraintCycle ErrorCode = "CONSTRAINT_CYCLE"
	ErrChildType       ErrorCode = "CHILD_TYPE"
	ErrOrphanMove      ErrorCode = "ORPHAN_MOVE"

	// Export errors
	ErrExportSink   ErrorCode = "EXPORT_SINK"
	ErrExportClosed ErrorCode = "EXPORT_CLOSED"

	// Configuration errors
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
)

// PlanError is the unified error type for the planning pipeline
type PlanError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PlanError) Unwrap() error {
	return e.Err
}

// SetContext adds additional context
func (e *PlanError) SetContext(key string, value interface{}) *PlanError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new PlanError
func New(code ErrorCode, message string) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ConstraintCycleError creates an error for a cyclic ordering-constraint set
func ConstraintCycleError(extruder int, features int) *PlanError {
	return New(ErrConstraintCycle, fmt.Sprintf("ordering constraints contain a cycle over %d features", features)).
		SetContext("extruder", extruder)
}

// ChildTypeError creates an error for a child of an unexpected dynamic kind
func ChildTypeError(expected, actual string) *PlanError {
	return New(ErrChildType, fmt.Sprintf("child operation is %s, expected %s", actual, expected))
}

// OrphanMoveError creates an error for a leaf move exported outside a feature
func OrphanMoveError(kind string) *PlanError {
	return New(ErrOrphanMove, fmt.Sprintf("%s is not owned by a feature extrusion", kind))
}

// SinkError wraps a sub-sink failure during fan-out export
func SinkError(index int, err error) *PlanError {
	return Wrap(err, ErrExportSink, fmt.Sprintf("sink %d failed", index)).
		SetContext("sink", index)
}

// ConfigParseError wraps a settings-file parsing failure
func ConfigParseError(path string, err error) *PlanError {
	return Wrap(err, ErrConfigParse, fmt.Sprintf("failed to parse settings file %s", path))
}

// ConfigValidationError creates an error for an invalid setting value
func ConfigValidationError(option, reason string) *PlanError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s': %s", option, reason)).
		SetContext("option", option)
}

// Is checks if error matches the given error code, unwrapping as needed
func Is(err error, code ErrorCode) bool {
	var planErr *PlanError
	if errors.As(err, &planErr) {
		return planErr.Code == code
	}
	return false
}

// IsConfig checks if error is a configuration error
func IsConfig(err error) bool {
	return Is(err, ErrConfigParse) || Is(err, ErrConfigValidation)
}

// IsExport checks if error is an export-boundary error
func IsExport(err error) bool {
	return Is(err, ErrExportSink) || Is(err, ErrExportClosed)
}
