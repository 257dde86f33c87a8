package auth

import "fmt"

// Message keys returned on failure. Hosts translate them for display.
const (
	MsgNoPrimary       = "authmanager-authn-no-primary"
	MsgCreateNoPrimary = "authmanager-create-no-primary"
)

// Status is the outcome of one provider call.
type Status int

const (
	// StatusAbstain means the provider declines to judge the request.
	StatusAbstain Status = iota
	// StatusPass means the credentials were accepted.
	StatusPass
	// StatusFail means the credentials were refused.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusAbstain:
		return "abstain"
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Response is the result of an authentication or account-creation attempt.
type Response struct {
	// Status is the outcome.
	Status Status `json:"status" yaml:"status"`

	// Username is the canonical username on StatusPass.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`

	// Message is a message key on StatusFail.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Provider is the name of the provider that produced the response.
	// Set by the Manager.
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	// Attributes holds provider-specific data returned with a pass,
	// such as RADIUS reply attributes.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Err carries the transport or protocol error behind a StatusFail, for
	// diagnostics only. It never changes Status.
	Err error `json:"-" yaml:"-"`
}

// NewPass returns a passing response for username.
func NewPass(username string) *Response {
	return &Response{Status: StatusPass, Username: username}
}

// NewFail returns a failing response with the given message key.
func NewFail(message string) *Response {
	return &Response{Status: StatusFail, Message: message}
}

// NewAbstain returns an abstaining response.
func NewAbstain() *Response {
	return &Response{Status: StatusAbstain}
}

// Passed reports whether the response is a pass. A nil response never passes.
func (r *Response) Passed() bool {
	return r != nil && r.Status == StatusPass
}
