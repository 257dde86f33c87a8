// Package auth defines the pluggable authentication contract used by radiusauth.
//
// This package defines the core types and interfaces for authentication:
//
//   - PrimaryProvider: Pluggable mechanism that decides whether credentials are valid
//   - Manager: Chains PrimaryProviders and aggregates their answers
//   - AuthenticationRequest: Credential fields a provider needs for an Action
//   - Response: Pass, Fail or Abstain outcome of one attempt
//   - StatusValue: Result of capability queries such as data-change checks
//
// Sub-packages:
//   - username/: Username canonicalization rules applied before any provider call
//   - radius/: PrimaryProvider that delegates password checks to a RADIUS server
//
// A provider that cannot judge a request abstains, leaving the decision to the
// next provider in the chain. Only calls the contract forbids panic, with a
// *ContractViolationError.
package auth
