package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrNoPorts        = errors.New("no serial ports found")
	ErrNoSession      = errors.New("no media session")
	ErrNoAudioDevice  = errors.New("no loopback audio device")
	ErrNoDisplay      = errors.New("no active display")
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Kind classifies how a failure should be handled.
type Kind int

const (
	// KindFatal stops the current run.
	KindFatal Kind = iota
	// KindTransient is logged, replaced with a fallback value and retried
	// on the next cycle.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// Error is a classified failure of a single operation.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient marks err as recoverable on a later cycle. A nil err yields nil.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindTransient, Err: err}
}

// Fatal marks err as ending the current run. A nil err yields nil.
func Fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindFatal, Err: err}
}

// KindOf returns the kind of the outermost classified error in err's chain.
// Unclassified errors are fatal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}

// IsTransient reports whether err is classified as transient.
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == KindTransient
}

// IsFatal reports whether err should end the current run. Unclassified
// errors are fatal.
func IsFatal(err error) bool {
	return err != nil && KindOf(err) == KindFatal
}

// IsNoSignal reports whether err only says there is nothing to show:
// no media session or no audio device.
func IsNoSignal(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrNoAudioDevice)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// VortexError wraps an error with a user-friendly suggestion.
type VortexError struct {
	Err        error
	Suggestion string
}

func (e *VortexError) Error() string {
	return e.Err.Error()
}

func (e *VortexError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &VortexError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var vErr *VortexError
	if errors.As(err, &vErr) && vErr.Suggestion != "" {
		return vErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrDeviceNotFound) {
		return "Check the USB cable and run 'vortex ports' to see which ports answer IDENTIFY"
	}

	if errors.Is(err, ErrNoPorts) {
		return "Plug in the macropad, or pass --port if it uses a non-standard device name"
	}

	if errors.Is(err, ErrNoDisplay) {
		return "Screen capture needs an active display session"
	}

	if strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access is denied") {
		return "Add your user to the serial group (e.g. 'dialout') or close other programs using the port"
	}

	if strings.Contains(errStr, "port busy") || strings.Contains(errStr, "resource busy") {
		return "Another program has the port open. Close it and try again"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'vortex config init' to create a configuration file"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
