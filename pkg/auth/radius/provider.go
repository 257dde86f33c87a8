package radius

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/multierr"
	layeh "layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/internal/telemetry"
	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/auth/username"
	"github.com/marmos91/radiusauth/pkg/config"
)

// Name is the provider name reported to the Manager.
const Name = "radius"

// Provider authenticates password credentials against a RADIUS server.
//
// Every login sends one Access-Request. The provider keeps no state between
// calls: each attempt opens its own Client and builds its own packet.
//
// Thread Safety: All methods are safe for concurrent use.
type Provider struct {
	cfg      *config.RadiusConfig
	rules    *username.Rules
	open     Opener
	hostname func() string
	metrics  *Metrics
}

var _ auth.PrimaryProvider = (*Provider)(nil)

// Option customizes a Provider.
type Option func(*Provider)

// WithOpener replaces the client factory. Tests use it to inject a fake server.
func WithOpener(open Opener) Option {
	return func(p *Provider) { p.open = open }
}

// WithUsernameRules replaces the username canonicalization policy.
func WithUsernameRules(rules *username.Rules) Option {
	return func(p *Provider) { p.rules = rules }
}

// WithHostname replaces the NAS-Identifier fallback.
func WithHostname(hostname func() string) Option {
	return func(p *Provider) { p.hostname = hostname }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// NewProvider creates a RADIUS provider from configuration.
//
// The configuration is not validated strictly: each problem reported by
// cfg.Diagnose is logged at WARN and the provider is still returned.
// Authentication with a broken configuration fails at exchange time.
//
// Parameters:
//   - cfg: RADIUS configuration (from pkg/config); nil is treated as empty
//   - opts: optional overrides
//
// Returns:
//   - *Provider: ready to serve authentication requests
func NewProvider(cfg *config.RadiusConfig, opts ...Option) *Provider {
	if cfg == nil {
		cfg = &config.RadiusConfig{}
	}

	p := &Provider{
		cfg:      cfg,
		rules:    username.DefaultRules(),
		open:     DefaultOpener,
		hostname: defaultHostname,
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, err := range multierr.Errors(cfg.Diagnose()) {
		var problem *config.Problem
		if errors.As(err, &problem) {
			logger.Warn("RADIUS provider misconfigured",
				logger.KeyField, "radius."+problem.Field,
				logger.KeyReason, problem.Message)
			continue
		}
		logger.Warn("RADIUS provider misconfigured", logger.KeyError, err)
	}

	return p
}

// Name implements auth.PrimaryProvider.
func (p *Provider) Name() string {
	return Name
}

// GetAuthenticationRequests asks for a username and password on login.
// Every other action gets no requests.
func (p *Provider) GetAuthenticationRequests(action auth.Action, opts auth.RequestOptions) []auth.AuthenticationRequest {
	if action != auth.ActionLogin {
		return nil
	}
	return []auth.AuthenticationRequest{
		&auth.PasswordRequest{Action: action, Username: opts.Username},
	}
}

// BeginPrimaryAuthentication sends the password request to the RADIUS server.
//
// The provider abstains when no password request is present, when the
// username or password is empty, or when the username is not usable.
// An Access-Accept passes with the canonical username. Anything else,
// including a timeout, fails with auth.MsgNoPrimary.
func (p *Provider) BeginPrimaryAuthentication(ctx context.Context, reqs []auth.AuthenticationRequest) *auth.Response {
	req, ok := auth.FindRequest[*auth.PasswordRequest](reqs)
	if !ok || req.Username == "" || req.Password == "" {
		p.metrics.RecordAttempt(auth.StatusAbstain.String())
		return auth.NewAbstain()
	}

	name, err := p.rules.Canonical(req.Username, username.RigorUsable)
	if err != nil {
		logger.DebugCtx(ctx, "RADIUS abstained on unusable username",
			logger.KeyReason, err.Error())
		p.metrics.RecordAttempt(auth.StatusAbstain.String())
		return auth.NewAbstain()
	}

	resp := p.authenticate(ctx, name, req.Password)
	p.metrics.RecordAttempt(resp.Status.String())
	return resp
}

// authenticate performs the exchange for a canonical username.
func (p *Provider) authenticate(ctx context.Context, name, password string) *auth.Response {
	addr := p.cfg.Address()
	nasID := nasIdentifier(p.cfg, p.hostname)

	ctx, span := telemetry.StartRadiusSpan(ctx, addr,
		telemetry.Username(name),
		telemetry.RadiusNASIdentifier(nasID),
		telemetry.RadiusMaxTries(p.cfg.MaxTries),
		telemetry.RadiusTimeoutMs(p.cfg.Timeout.Milliseconds()))
	defer span.End()

	packet, err := p.accessRequest(name, password, nasID)
	if err != nil {
		logger.WarnCtx(ctx, "RADIUS request could not be built",
			logger.KeyUsername, name,
			logger.KeyError, err)
		return p.fail(ctx, ReasonRequest, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Deadline())
	defer cancel()

	start := time.Now()
	reply, err := p.open(p.cfg).Exchange(ctx, packet, addr)
	elapsed := time.Since(start)

	if err != nil {
		reason := exchangeFailure(err)
		p.metrics.ObserveExchange(reason, elapsed)
		logger.WarnCtx(ctx, "RADIUS exchange failed",
			logger.KeyUsername, name,
			logger.KeyServer, addr,
			logger.KeyReason, reason,
			logger.KeyDurationMs, float64(elapsed.Microseconds())/1000.0,
			logger.KeyError, err)
		return p.fail(ctx, reason, fmt.Errorf("radius exchange with %s: %w", addr, err))
	}

	code := reply.Code.String()
	p.metrics.ObserveExchange(code, elapsed)
	telemetry.SetAttributes(ctx, telemetry.RadiusCode(code))

	if reply.Code != layeh.CodeAccessAccept {
		reason := replyFailure(reply.Code)
		logger.InfoCtx(ctx, "RADIUS authentication rejected",
			logger.KeyUsername, name,
			logger.KeyServer, addr,
			logger.KeyCode, code,
			logger.KeyDurationMs, float64(elapsed.Microseconds())/1000.0)
		return p.fail(ctx, reason, fmt.Errorf("%w: server answered %s", auth.ErrInvalidCredentials, code))
	}

	logger.InfoCtx(ctx, "RADIUS authentication accepted",
		logger.KeyUsername, name,
		logger.KeyServer, addr,
		logger.KeyDurationMs, float64(elapsed.Microseconds())/1000.0)
	telemetry.SetAttributes(ctx, telemetry.AuthOutcome(auth.StatusPass.String()))

	resp := auth.NewPass(name)
	resp.Attributes = replyAttributes(reply)
	return resp
}

// accessRequest builds the Access-Request packet. User-Name is sent with
// ASCII letters lower-cased; other letters keep their case.
func (p *Provider) accessRequest(name, password, nasID string) (*layeh.Packet, error) {
	packet := layeh.New(layeh.CodeAccessRequest, []byte(p.cfg.Secret))

	if err := rfc2865.UserName_SetString(packet, asciiLower(name)); err != nil {
		return nil, fmt.Errorf("set User-Name: %w", err)
	}
	if err := rfc2865.UserPassword_SetString(packet, password); err != nil {
		return nil, fmt.Errorf("set User-Password: %w", err)
	}
	if nasID != "" {
		if err := rfc2865.NASIdentifier_SetString(packet, nasID); err != nil {
			return nil, fmt.Errorf("set NAS-Identifier: %w", err)
		}
	}
	if p.cfg.NASIPAddress != "" {
		// Diagnose already reported an unusable address; skip it here.
		if ip := net.ParseIP(p.cfg.NASIPAddress).To4(); ip != nil {
			if err := rfc2865.NASIPAddress_Set(packet, ip); err != nil {
				return nil, fmt.Errorf("set NAS-IP-Address: %w", err)
			}
		}
	}
	return packet, nil
}

// asciiLower lower-cases A-Z only, so "ÉLODIE" is sent as "Élodie".
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func (p *Provider) fail(ctx context.Context, reason string, err error) *auth.Response {
	p.metrics.RecordFailure(reason)
	telemetry.RecordError(ctx, err)
	telemetry.SetAttributes(ctx, telemetry.AuthOutcome(auth.StatusFail.String()))

	resp := auth.NewFail(auth.MsgNoPrimary)
	resp.Err = err
	return resp
}

func exchangeFailure(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonTransport
	}
}

func replyFailure(code layeh.Code) string {
	switch code {
	case layeh.CodeAccessReject:
		return ReasonReject
	case layeh.CodeAccessChallenge:
		return ReasonChallenge
	default:
		return ReasonUnknown
	}
}

// TestUserExists always reports true: RADIUS offers no way to look a user up
// without their password.
func (p *Provider) TestUserExists(_ context.Context, _ string) bool {
	return true
}

// ProviderAllowsAuthenticationDataChange answers StatusIgnored for every
// request. Passwords are managed on the RADIUS server.
func (p *Provider) ProviderAllowsAuthenticationDataChange(_ auth.AuthenticationRequest, _ bool) auth.StatusValue {
	return auth.NewGoodStatus(auth.StatusIgnored)
}

// ProviderChangeAuthenticationData must not be called, since every change is
// ignored. It panics with *auth.ContractViolationError.
func (p *Provider) ProviderChangeAuthenticationData(_ auth.AuthenticationRequest) {
	panic(&auth.ContractViolationError{Op: "radius.ProviderChangeAuthenticationData"})
}

// AccountCreationType reports that local accounts are created for users the
// server accepts.
func (p *Provider) AccountCreationType() auth.CreationType {
	return auth.CreationTypeCreate
}

// BeginPrimaryAccountCreation abstains: the provider cannot create RADIUS
// accounts.
func (p *Provider) BeginPrimaryAccountCreation(_ context.Context, _, _ *auth.User, _ []auth.AuthenticationRequest) *auth.Response {
	return auth.NewAbstain()
}
