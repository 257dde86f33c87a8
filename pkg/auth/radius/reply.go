package radius

import (
	"encoding/hex"
	"strconv"
	"strings"

	layeh "layeh.com/radius"
	"layeh.com/radius/rfc2865"
)

// Keys of Response.Attributes, named after the RADIUS attributes they hold.
const (
	AttrReplyMessage   = "Reply-Message"
	AttrFilterID       = "Filter-Id"
	AttrSessionTimeout = "Session-Timeout"
	AttrClass          = "Class"
)

// replyAttributes extracts the reply attributes a host may act on.
// Class is opaque and returned hex-encoded. Returns nil when none are present.
func replyAttributes(p *layeh.Packet) map[string]string {
	out := map[string]string{}

	if msgs, err := rfc2865.ReplyMessage_GetStrings(p); err == nil && len(msgs) > 0 {
		out[AttrReplyMessage] = strings.Join(msgs, "\n")
	}
	if s, err := rfc2865.FilterID_LookupString(p); err == nil && s != "" {
		out[AttrFilterID] = s
	}
	if v, err := rfc2865.SessionTimeout_Lookup(p); err == nil && v > 0 {
		out[AttrSessionTimeout] = strconv.FormatUint(uint64(v), 10)
	}
	if b, err := rfc2865.Class_Lookup(p); err == nil && len(b) > 0 {
		out[AttrClass] = hex.EncodeToString(b)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
