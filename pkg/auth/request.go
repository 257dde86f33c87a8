package auth

import (
	"fmt"
	"log/slog"
)

// Action identifies what the host is trying to do with a set of credentials.
type Action string

const (
	ActionLogin          Action = "login"
	ActionLoginContinue  Action = "login-continue"
	ActionCreate         Action = "create"
	ActionCreateContinue Action = "create-continue"
	ActionLink           Action = "link"
	ActionLinkContinue   Action = "link-continue"
	ActionChange         Action = "change"
	ActionRemove         Action = "remove"
	ActionUnlink         Action = "unlink"
)

// Actions lists every action the host knows about, in display order.
var Actions = []Action{
	ActionLogin,
	ActionLoginContinue,
	ActionCreate,
	ActionCreateContinue,
	ActionLink,
	ActionLinkContinue,
	ActionChange,
	ActionRemove,
	ActionUnlink,
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAction converts s into an Action, rejecting unknown values.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

// Field describes one credential field a request needs from the user.
type Field struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"` // string, password
	Label     string `json:"label" yaml:"label"`
	Optional  bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Sensitive bool   `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`
}

// AuthenticationRequest carries the credential fields a provider asks for.
//
// Kind identifies the request type; the Manager deduplicates requests of the
// same Kind when several providers ask for them.
type AuthenticationRequest interface {
	Kind() string
	Fields() []Field
}

// RequestOptions narrows GetAuthenticationRequests for a specific user.
type RequestOptions struct {
	// Username is set when the host already knows who is acting.
	Username string
}

// KindPassword is the Kind of PasswordRequest.
const KindPassword = "password"

// PasswordRequest is a username and password pair.
//
// The password must never be logged. PasswordRequest implements
// slog.LogValuer and fmt.Formatter so that accidental logging prints only the
// username.
type PasswordRequest struct {
	Action   Action
	Username string
	Password string
}

// Kind implements AuthenticationRequest.
func (*PasswordRequest) Kind() string { return KindPassword }

// Fields implements AuthenticationRequest.
func (*PasswordRequest) Fields() []Field {
	return []Field{
		{Name: "username", Type: "string", Label: "Username"},
		{Name: "password", Type: "password", Label: "Password", Sensitive: true},
	}
}

// LogValue implements slog.LogValuer.
func (r *PasswordRequest) LogValue() slog.Value {
	if r == nil {
		return slog.StringValue("<nil>")
	}
	return slog.GroupValue(
		slog.String("action", string(r.Action)),
		slog.String("username", r.Username),
	)
}

// Format implements fmt.Formatter for every verb.
func (r *PasswordRequest) Format(f fmt.State, _ rune) {
	if r == nil {
		_, _ = fmt.Fprint(f, "<nil>")
		return
	}
	_, _ = fmt.Fprintf(f, "PasswordRequest{Action:%s Username:%s}", r.Action, r.Username)
}

// FindRequest returns the first request of type T in reqs.
func FindRequest[T AuthenticationRequest](reqs []AuthenticationRequest) (T, bool) {
	for _, r := range reqs {
		if t, ok := r.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
