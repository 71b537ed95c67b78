// Package validate decides whether a URL may be stored and what an
// expiry-days input means. All entry points return tagged results
// instead of errors so callers can translate outcomes without
// unwrapping anything.
package validate

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

const (
	MinURLLength = 3
	MaxURLLength = 2048
)

// Host tokens that indicate loopback or internal infrastructure.
// Matched as substrings of the (lowercased, port-stripped) host.
var blockedHostTokens = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
	"::1",
	"internal",
	"local",
	"intranet",
	"private",
}

var blockedTLDs = map[string]struct{}{
	"local":     {},
	"internal":  {},
	"localhost": {},
	"invalid":   {},
	"test":      {},
}

// Substrings that disqualify a URL outright, checked against the
// lowercased full URL.
var securityPatterns = []string{
	"../",          // path traversal
	"@",            // embedded credentials
	"data:",        // data URLs
	"javascript:",  // javascript URLs
	"vbscript:",    // vbscript URLs
	"file:",        // file protocol
	`\`,            // backslash
	"0x",           // hex encoding
	"%00",          // encoded null byte
	"%0d",          // encoded carriage return
	"%0a",          // encoded line feed
}

// Schemes whose mere presence is a security violation rather than a
// plain format mismatch.
var dangerousSchemes = map[string]struct{}{
	"javascript": {},
	"data":       {},
	"vbscript":   {},
	"file":       {},
}

var dottedQuadRe = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// Result is the outcome of an admissibility check. Security marks the
// failure class that gets logged at elevated severity.
type Result struct {
	Valid    bool
	Security bool
	Message  string
}

func ok() Result {
	return Result{Valid: true}
}

func formatFailure(msg string) Result {
	return Result{Message: msg}
}

func securityFailure(msg string) Result {
	return Result{Security: true, Message: "Security violation: " + msg}
}

// ValidateURL checks a candidate URL for format and security
// admissibility. Checks run in a fixed order and stop at the first
// failure, so error messages are deterministic.
func ValidateURL(raw string) Result {
	if len(raw) < MinURLLength || len(raw) > MaxURLLength {
		return formatFailure(fmt.Sprintf(
			"URL length must be between %d and %d characters", MinURLLength, MaxURLLength))
	}

	trimmed := strings.TrimSpace(raw)

	// url.Parse rejects control bytes outright, which would downgrade
	// them to a format failure. Classify them before parsing.
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] < 0x20 || trimmed[i] == 0x7f {
			return securityFailure("URL contains invalid characters")
		}
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return formatFailure("Invalid URL format")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		return formatFailure("URL must include scheme (http/https)")
	}
	if scheme != "http" && scheme != "https" {
		if _, bad := dangerousSchemes[scheme]; bad {
			return securityFailure("URL contains suspicious pattern: " + scheme + ":")
		}
		return formatFailure("URL must use HTTP or HTTPS protocol")
	}

	if u.Host == "" {
		return formatFailure("URL must include a valid domain")
	}

	host := strings.ToLower(u.Host)
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}

	for _, token := range blockedHostTokens {
		if strings.Contains(host, token) {
			return securityFailure("Domain not allowed")
		}
	}

	tld := ""
	if i := strings.LastIndex(host, "."); i >= 0 {
		tld = host[i+1:]
	}
	if _, blocked := blockedTLDs[tld]; blocked {
		return securityFailure("Invalid top-level domain")
	}

	if dottedQuadRe.MatchString(host) && isPrivateIP(host) {
		return securityFailure("Private IP addresses not allowed")
	}

	if u.User != nil {
		return securityFailure("URLs containing credentials are not allowed")
	}

	lowered := strings.ToLower(trimmed)
	for _, pattern := range securityPatterns {
		if strings.Contains(lowered, pattern) {
			return securityFailure("URL contains suspicious pattern: " + pattern)
		}
	}

	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] < 0x21 || trimmed[i] > 0x7e {
			return securityFailure("URL contains invalid characters")
		}
	}

	return ok()
}

// isPrivateIP reports whether the literal address must not be a
// redirect target: private, loopback, link-local, multicast,
// unspecified, or in the reserved 240.0.0.0/4 block.
func isPrivateIP(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return false
	}
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsMulticast() || ip.IsUnspecified() {
		return true
	}
	if ip4 := ip.To4(); ip4 != nil && ip4[0] >= 240 {
		return true
	}
	return false
}
