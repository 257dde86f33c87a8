package auth

import "context"

// PrimaryProvider decides whether a set of credentials identifies a user.
//
// Implementations are chained by the Manager. A provider that cannot judge a
// request must abstain rather than fail so later providers get a chance.
//
// Thread safety: implementations must be safe for concurrent use.
type PrimaryProvider interface {
	// Name returns the provider name for logging and diagnostics.
	// Examples: "radius", "local"
	Name() string

	// GetAuthenticationRequests returns the credential requests this provider
	// needs for action. An empty result means the provider takes no part.
	GetAuthenticationRequests(action Action, opts RequestOptions) []AuthenticationRequest

	// BeginPrimaryAuthentication checks the supplied requests and returns a
	// Pass, Fail or Abstain response. It never returns nil.
	BeginPrimaryAuthentication(ctx context.Context, reqs []AuthenticationRequest) *Response

	// TestUserExists reports whether username is known to the provider.
	TestUserExists(ctx context.Context, username string) bool

	// ProviderAllowsAuthenticationDataChange reports whether req may be
	// applied. A good status with value StatusIgnored means the change does
	// not concern this provider.
	ProviderAllowsAuthenticationDataChange(req AuthenticationRequest, checkData bool) StatusValue

	// ProviderChangeAuthenticationData applies req. Hosts call it only when
	// ProviderAllowsAuthenticationDataChange returned a good status that is
	// not StatusIgnored; otherwise it may panic with *ContractViolationError.
	ProviderChangeAuthenticationData(req AuthenticationRequest)

	// AccountCreationType describes how the provider takes part in account creation.
	AccountCreationType() CreationType

	// BeginPrimaryAccountCreation starts creating user on behalf of creator.
	BeginPrimaryAccountCreation(ctx context.Context, user, creator *User, reqs []AuthenticationRequest) *Response
}
