package auth

import "go.uber.org/multierr"

// StatusValue is the answer to a capability query.
//
// A good status may carry a value; providers answer "ignored" to say that a
// request concerns data they do not hold.
type StatusValue struct {
	OK     bool
	Value  any
	Errors []error
}

// StatusIgnored is the value a provider returns when a data change does not
// concern it.
const StatusIgnored = "ignored"

// NewGoodStatus returns a successful status carrying value.
func NewGoodStatus(value any) StatusValue {
	return StatusValue{OK: true, Value: value}
}

// NewFatalStatus returns a failed status carrying errs.
func NewFatalStatus(errs ...error) StatusValue {
	return StatusValue{Errors: errs}
}

// IsGood reports whether the status is successful.
func (s StatusValue) IsGood() bool {
	return s.OK && len(s.Errors) == 0
}

// Ignored reports whether the status is good and its value is StatusIgnored.
func (s StatusValue) Ignored() bool {
	v, _ := s.Value.(string)
	return s.IsGood() && v == StatusIgnored
}

// Err returns the combined errors, or nil for a good status.
func (s StatusValue) Err() error {
	if s.IsGood() {
		return nil
	}
	if len(s.Errors) == 0 {
		return ErrAuthFailed
	}
	return multierr.Combine(s.Errors...)
}

// Merge folds other into s: the result is good only if both are.
func (s StatusValue) Merge(other StatusValue) StatusValue {
	merged := StatusValue{
		OK:     s.OK && other.OK,
		Value:  s.Value,
		Errors: append(append([]error{}, s.Errors...), other.Errors...),
	}
	if merged.Value == nil {
		merged.Value = other.Value
	}
	return merged
}

// CreationType tells the host how a provider participates in account creation.
type CreationType string

const (
	// CreationTypeCreate means the provider can create accounts from credentials.
	CreationTypeCreate CreationType = "create"
	// CreationTypeLink means the provider links existing external accounts.
	CreationTypeLink CreationType = "link"
	// CreationTypeNone means the provider takes no part in account creation.
	CreationTypeNone CreationType = "none"
)
