package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrMissingSource indicates no source location was configured.
	ErrMissingSource = errors.New("source is required")

	// ErrMissingTargets indicates no target locations were configured.
	ErrMissingTargets = errors.New("at least one target is required")

	// ErrUnknownType indicates a type tag outside the accepted set.
	ErrUnknownType = errors.New("unknown type")

	// ErrMissingPath indicates a path location without a path.
	ErrMissingPath = errors.New("path is required")

	// ErrMissingHost indicates an ssh location without a host.
	ErrMissingHost = errors.New("host is required")

	// ErrMissingUser indicates an ssh location without a user.
	ErrMissingUser = errors.New("user is required")

	// ErrInvalidPort indicates a port outside the valid range.
	ErrInvalidPort = errors.New("port must be between 0 and 65535")

	// ErrMissingFallback indicates a command notification leaves a
	// channel without a command and has no fallback to cover it.
	ErrMissingFallback = errors.New("a fallback command is required when any channel command is omitted")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Source.Type == "" {
		errs = append(errs, ErrMissingSource)
	} else {
		errs = append(errs, validateLocation("source", cfg.Source)...)
	}

	if len(cfg.Targets) == 0 {
		errs = append(errs, ErrMissingTargets)
	}
	for i, target := range cfg.Targets {
		errs = append(errs, validateLocation(fmt.Sprintf("targets[%d]", i), target)...)
	}

	for i, notification := range cfg.Notifications {
		field := fmt.Sprintf("notifications[%d]", i)
		if _, ok := notifierBuilders[notification.Type]; !ok {
			errs = append(errs, &FieldError{
				Field: field + ".type",
				Value: notification.Type,
				Err:   typeError(notifierTags()),
			})
			continue
		}
		if notification.Type == NotifierCommand {
			errs = append(errs, validateCommandNotification(field, notification)...)
		}
	}

	return errs
}

// validateCommandNotification checks that every channel of a command
// notification resolves to something executable. An empty argument
// list counts as omitted, so "state: []" needs a fallback as much as
// leaving the key out does.
func validateCommandNotification(field string, n Notification) []error {
	if len(n.Fallback) > 0 {
		return nil
	}
	for _, args := range [][]string{n.State, n.Inform, n.Confirm, n.Alert} {
		if len(args) == 0 {
			return []error{&FieldError{Field: field + ".fallback", Err: ErrMissingFallback}}
		}
	}
	return nil
}

// validateLocation checks one location entry. field names the entry in
// error messages.
func validateLocation(field string, loc Location) []error {
	var errs []error

	switch loc.Type {
	case LocationPath:
		if loc.Path == "" {
			errs = append(errs, &FieldError{Field: field + ".path", Err: ErrMissingPath})
		}
	case LocationSSH:
		if loc.User == "" {
			errs = append(errs, &FieldError{Field: field + ".user", Err: ErrMissingUser})
		}
		if loc.Host == "" {
			errs = append(errs, &FieldError{Field: field + ".host", Err: ErrMissingHost})
		}
		if loc.Path == "" {
			errs = append(errs, &FieldError{Field: field + ".path", Err: ErrMissingPath})
		}
		if loc.Port < 0 || loc.Port > 65535 {
			errs = append(errs, &FieldError{Field: field + ".port", Value: fmt.Sprint(loc.Port), Err: ErrInvalidPort})
		}
	default:
		errs = append(errs, &FieldError{
			Field: field + ".type",
			Value: loc.Type,
			Err:   typeError(locationTags()),
		})
	}

	return errs
}

// typeError builds an ErrUnknownType listing the accepted tags.
func typeError(accepted []string) error {
	return fmt.Errorf("%w, must be one of: %s", ErrUnknownType, strings.Join(accepted, ", "))
}

// FieldError represents an error for a specific configuration field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return e.Field + ": " + e.Err.Error() + ": " + e.Value
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
