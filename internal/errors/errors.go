package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a settings error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// Stage names one step of the bootstrap pipeline.
type Stage string

const (
	StageConfig      Stage = "config"
	StageSecrets     Stage = "secrets"
	StageCertificate Stage = "certificate"
	StageToken       Stage = "token"
	StageSite        Stage = "site"
)

// StageError records which pipeline stage aborted the run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err, if any.
func FailedStage(err error) (Stage, bool) {
	var se StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// NetworkSuggestion returns a hint for transport-level failures shared by
// every remote collaborator, or "" when err is not one.
func NetworkSuggestion(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "no such host"):
		return "The host name could not be resolved. Check the environment setting, derived host names are built from it"
	case strings.Contains(errStr, "connection refused"):
		return "Unable to connect. Check your network and proxy configuration"
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		return "The operation timed out. Check your network connection and try again"
	case strings.Contains(errStr, "certificate signed by unknown authority"):
		return "TLS verification failed. Check corporate proxy or CA bundle settings"
	}

	return ""
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	var ue UserError
	if errors.As(err, &ue) {
		return err
	}
	var ce ConfigError
	if errors.As(err, &ce) {
		return err
	}

	if suggestion := NetworkSuggestion(err); suggestion != "" {
		return UserError{
			Message:    "Network request failed",
			Details:    err.Error(),
			Suggestion: suggestion,
			Err:        err,
		}
	}

	return err
}
