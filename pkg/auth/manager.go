package auth

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/internal/telemetry"
)

// Manager chains multiple PrimaryProvider implementations and tries each in order.
//
// When BeginAuthentication is called, the Manager iterates through providers:
//  1. Calls BeginPrimaryAuthentication on each provider
//  2. Returns the first StatusPass response
//  3. Otherwise returns the first StatusFail response
//
// If every provider abstains, a StatusFail response with MsgNoPrimary is returned.
//
// Thread safety: safe for concurrent use (providers are read-only after construction).
type Manager struct {
	providers []PrimaryProvider
}

// NewManager creates a new Manager with the given providers.
func NewManager(providers ...PrimaryProvider) *Manager {
	return &Manager{providers: providers}
}

// Providers returns the list of registered providers.
// Useful for diagnostics and logging.
func (m *Manager) Providers() []PrimaryProvider {
	return m.providers
}

// BeginAuthentication runs reqs through every provider.
func (m *Manager) BeginAuthentication(ctx context.Context, reqs []AuthenticationRequest) *Response {
	ctx, span := telemetry.StartAuthSpan(ctx, telemetry.SpanAuthBegin, string(ActionLogin))
	defer span.End()

	var firstFail *Response

	for _, p := range m.providers {
		resp := p.BeginPrimaryAuthentication(ctx, reqs)
		if resp == nil {
			resp = NewAbstain()
		}
		resp.Provider = p.Name()

		logger.DebugCtx(ctx, "Primary provider answered",
			logger.KeyProvider, p.Name(),
			logger.KeyOutcome, resp.Status.String())

		switch resp.Status {
		case StatusPass:
			return annotate(span, resp)
		case StatusFail:
			if firstFail == nil {
				firstFail = resp
			}
		}
	}

	if firstFail != nil {
		return annotate(span, firstFail)
	}

	resp := NewFail(MsgNoPrimary)
	resp.Err = ErrNoPrimaryProvider
	return annotate(span, resp)
}

// annotate records the final response on span.
func annotate(span trace.Span, resp *Response) *Response {
	span.SetAttributes(
		telemetry.AuthProvider(resp.Provider),
		telemetry.AuthOutcome(resp.Status.String()))
	if resp.Status == StatusFail {
		span.SetAttributes(telemetry.AuthMessage(resp.Message))
	}
	return resp
}

// AuthenticationRequests returns the union of the requests every provider
// needs for action. Requests of the same Kind are returned once, in provider
// order.
func (m *Manager) AuthenticationRequests(action Action, opts RequestOptions) []AuthenticationRequest {
	seen := make(map[string]struct{})
	var out []AuthenticationRequest

	for _, p := range m.providers {
		for _, req := range p.GetAuthenticationRequests(action, opts) {
			if _, dup := seen[req.Kind()]; dup {
				continue
			}
			seen[req.Kind()] = struct{}{}
			out = append(out, req)
		}
	}
	return out
}

// UserExists reports whether any provider knows username.
func (m *Manager) UserExists(ctx context.Context, username string) bool {
	for _, p := range m.providers {
		if p.TestUserExists(ctx, username) {
			return true
		}
	}
	return false
}

// AllowsAuthenticationDataChange asks every provider whether req may be
// applied and merges their answers. The result is good only if every
// provider's answer is good.
func (m *Manager) AllowsAuthenticationDataChange(req AuthenticationRequest, checkData bool) StatusValue {
	result := NewGoodStatus(nil)
	for _, p := range m.providers {
		result = result.Merge(p.ProviderAllowsAuthenticationDataChange(req, checkData))
	}
	return result
}

// ChangeAuthenticationData applies req to every provider that accepts it.
//
// Providers whose answer is StatusIgnored are skipped. If any provider refuses
// the change, nothing is applied and the combined error is returned.
func (m *Manager) ChangeAuthenticationData(req AuthenticationRequest) error {
	statuses := make([]StatusValue, len(m.providers))
	for i, p := range m.providers {
		statuses[i] = p.ProviderAllowsAuthenticationDataChange(req, true)
		if !statuses[i].IsGood() {
			return fmt.Errorf("provider %s refused data change: %w", p.Name(), statuses[i].Err())
		}
	}

	for i, p := range m.providers {
		if statuses[i].Ignored() {
			continue
		}
		p.ProviderChangeAuthenticationData(req)
		logger.Info("Authentication data changed", logger.KeyProvider, p.Name())
	}
	return nil
}

// CanCreateAccounts reports whether any provider takes part in account creation.
func (m *Manager) CanCreateAccounts() bool {
	for _, p := range m.providers {
		if p.AccountCreationType() != CreationTypeNone {
			return true
		}
	}
	return false
}

// BeginAccountCreation runs account creation through every provider that
// takes part. The first response that does not abstain wins.
func (m *Manager) BeginAccountCreation(ctx context.Context, user, creator *User, reqs []AuthenticationRequest) *Response {
	ctx, span := telemetry.StartAuthSpan(ctx, telemetry.SpanAuthCreate, string(ActionCreate))
	defer span.End()

	for _, p := range m.providers {
		if p.AccountCreationType() == CreationTypeNone {
			continue
		}
		resp := p.BeginPrimaryAccountCreation(ctx, user, creator, reqs)
		if resp == nil || resp.Status == StatusAbstain {
			continue
		}
		resp.Provider = p.Name()
		return annotate(span, resp)
	}

	resp := NewFail(MsgCreateNoPrimary)
	resp.Err = ErrNoPrimaryProvider
	return annotate(span, resp)
}
