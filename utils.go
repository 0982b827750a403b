package main

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// isIPv4 reports whether addr is a dotted-quad IPv4 address.
func isIPv4(addr string) bool {
	if strings.Contains(addr, ":") {
		return false
	}
	ip := net.ParseIP(addr)
	return ip != nil && ip.To4() != nil
}

func ipv4toUint32(ipv4 string) (uint32, error) {
	if !isIPv4(ipv4) {
		return 0, errors.Errorf("not an ipv4 address: %s", ipv4)
	}
	var result uint32
	for _, v := range strings.SplitN(ipv4, ".", 4) {
		octet, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return 0, errors.Wrapf(err, "unable to parse ip octet %v", v)
		}
		result = result<<8 | uint32(octet)
	}

	return result, nil
}

// rangeBounds returns the numeric ends of an IPv4 range.
func rangeBounds(n NetworkRange) (start uint32, end uint32, err error) {
	start, err = ipv4toUint32(n.First)
	if err != nil {
		return 0, 0, err
	}
	end, err = ipv4toUint32(n.Last)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, errors.Errorf("range end %s is below start %s", n.Last, n.First)
	}
	return start, end, nil
}

// splitList splits a comma-separated flag value, dropping blank items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
