package engine

import "fmt"

// ConfigurationError reports a data-contract violation in an authored
// decision tree or business rule, such as a transition pointing at an
// unknown question id or a rule config missing the section its type
// requires. It is the only error class the engine lets propagate; resolution
// failures and missing answers are always degraded into draft data instead.
type ConfigurationError struct {
	Subject string // what was misconfigured, e.g. tree service name or rule name
	Ref     string // the offending reference or field
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("configuration error in %s (%s): %s", e.Subject, e.Ref, e.Message)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Subject, e.Message)
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(subject, ref, msg string) error {
	return &ConfigurationError{Subject: subject, Ref: ref, Message: msg}
}
