package netutil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller's IP, preferring the first X-Forwarded-For
// hop, then X-Real-IP, then the socket address. Serverless platforms put
// the real client in those headers.
func ClientIP(r *http.Request) net.IP {
	if r == nil {
		return nil
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		if ip := net.ParseIP(strings.TrimSpace(xr)); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	return net.ParseIP(host)
}

// ClassifyClientSource categorizes the IP origin for request logs.
func ClassifyClientSource(ip net.IP) string {
	switch {
	case ip == nil:
		return "unknown"
	case ip.IsLoopback():
		return "loopback"
	case isDockerBridgeIP(ip):
		return "docker_bridge"
	case ip.IsPrivate():
		return "private"
	}
	return "public"
}

// Docker default bridge range.
func isDockerBridgeIP(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] == 17
	}
	return false
}

// IPString returns the textual representation or empty string.
func IPString(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}
