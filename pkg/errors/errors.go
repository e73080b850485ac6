package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents page parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeNotify represents notification transport errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeHistory represents history persistence errors
	ErrorTypeHistory ErrorType = "history"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScanError represents a scanner-specific error
type ScanError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScanError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeNotify:
		return true
	default:
		return false
	}
}

// New creates a new ScanError
func New(errType ErrorType, component, message string, err error) *ScanError {
	return &ScanError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *ScanError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *ScanError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(component string, duration time.Duration) *ScanError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, component, message, nil)
}

// NewNotify creates a new notification error
func NewNotify(component, message string, err error) *ScanError {
	return New(ErrorTypeNotify, component, message, err)
}

// NewHistory creates a new history persistence error
func NewHistory(component, message string, err error) *ScanError {
	return New(ErrorTypeHistory, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScanError {
	return New(ErrorTypeConfiguration, "", message, err)
}
