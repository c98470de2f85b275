// Package faults defines the error taxonomy shared by the fuel cycle packages.
//
// Three categories are distinguished:
//   - ConfigurationError: malformed inputs detected before any numeric work
//   - NumericDomainError: a zero denominator or non-finite value that would
//     otherwise leak NaN/Inf into the convergence loop
//   - ConvergenceError: the start-up inventory iteration hit its cap
//
// An infinite doubling time is a valid result and is not represented here.
package faults

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid timeline, parameter set, retention
// model or flow split. It corresponds to a model configuration failure and
// is never recovered internally.
type ConfigurationError struct {
	// Field names the offending input (e.g. "timeline.DT_rate", "f_b").
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("model configuration: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("model configuration: %s", e.Message)
}

// NumericDomainError reports a computation whose inputs lie outside its
// numeric domain.
type NumericDomainError struct {
	// Quantity names the value that could not be computed.
	Quantity string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("numeric domain: %s: %s", e.Quantity, e.Message)
}

// ConvergenceError reports that the start-up inventory iteration did not
// reach the convergence threshold within the iteration cap.
type ConvergenceError struct {
	Iterations int
	Limit      int

	// Residual is |m_req - m_start| / |m_req| of the last iteration.
	Residual float64

	// Seed is the last trial start-up inventory [kg].
	Seed float64
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("start-up inventory did not converge after %d iterations (limit %d, residual %.3g, seed %.4g kg)",
		e.Iterations, e.Limit, e.Residual, e.Seed)
}

// Configf creates a ConfigurationError for field with a formatted message.
func Configf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Domainf creates a NumericDomainError for quantity with a formatted message.
func Domainf(quantity, format string, args ...any) *NumericDomainError {
	return &NumericDomainError{Quantity: quantity, Message: fmt.Sprintf(format, args...)}
}

// IsConfiguration reports whether err wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsNumericDomain reports whether err wraps a NumericDomainError.
func IsNumericDomain(err error) bool {
	var de *NumericDomainError
	return errors.As(err, &de)
}

// IsConvergence reports whether err wraps a ConvergenceError.
func IsConvergence(err error) bool {
	var ce *ConvergenceError
	return errors.As(err, &ce)
}
