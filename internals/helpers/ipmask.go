// file: internals/helpers/ipmask.go
package helper

import (
	"net"
	"strings"
)

// MaskIP blanks the host part of an address before it is persisted:
// IPv4 keeps the first two octets (a.b.0.0), IPv6 keeps the first two
// groups (a:b::). Non-parseable input is returned empty rather than stored raw.
func MaskIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if v4 := parsed.To4(); v4 != nil {
		return net.IPv4(v4[0], v4[1], 0, 0).String()
	}
	groups := strings.Split(parsed.String(), ":")
	if len(groups) < 2 {
		return ""
	}
	return groups[0] + ":" + groups[1] + "::"
}
