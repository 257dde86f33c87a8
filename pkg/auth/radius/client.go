package radius

import (
	"context"

	layeh "layeh.com/radius"

	"github.com/marmos91/radiusauth/pkg/config"
)

// Client exchanges one request packet for one reply.
//
// *layeh.com/radius.Client satisfies this interface. Exchange must return
// ctx.Err() once ctx is done.
type Client interface {
	Exchange(ctx context.Context, packet *layeh.Packet, addr string) (*layeh.Packet, error)
}

// Opener returns a Client bound to cfg. It is called once per
// authentication attempt and the Client is discarded afterwards.
type Opener func(cfg *config.RadiusConfig) Client

// maxPacketErrors is how many malformed or non-authentic replies one
// exchange ignores before giving up. It matches layeh's DefaultClient and
// is unrelated to max_tries, which only bounds the deadline.
const maxPacketErrors = 10

// DefaultOpener returns a UDP client that retransmits the request every
// cfg.Timeout. The caller bounds the exchange with cfg.Deadline.
func DefaultOpener(cfg *config.RadiusConfig) Client {
	retry := cfg.Timeout
	if retry <= 0 {
		retry = config.DefaultRadiusTimeout
	}
	return &layeh.Client{
		Retry:           retry,
		MaxPacketErrors: maxPacketErrors,
	}
}
