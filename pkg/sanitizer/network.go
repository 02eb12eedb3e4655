package sanitizer

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// urlShapedPattern finds http(s) URL candidates in serialized text. The
// candidates are parsed properly afterwards; this only bounds the token.
var urlShapedPattern = regexp.MustCompile(`(?i)https?://[^\s"'\\<>]+`)

// ScanPrivateOrigins returns the deduplicated RFC 1918 origins embedded in
// the text, scheme://host[:port] with the path discarded, in first-seen
// order. Hosts that already carry a placeholder marker are portable and
// excluded. Origins are surfaced as data for operator-assisted
// parameterization; the engine never guesses placeholder semantics for a
// bare host.
func ScanPrivateOrigins(text string) []string {
	var origins []string
	seen := map[string]bool{}

	for _, candidate := range urlShapedPattern.FindAllString(text, -1) {
		// Only a placeholder in the authority makes the origin portable; a
		// templated path segment does not, and the path is discarded anyway.
		if strings.Contains(authorityOf(candidate), "${") {
			continue
		}

		u, err := url.Parse(candidate)
		if err != nil || u.Host == "" {
			continue
		}

		ip := net.ParseIP(u.Hostname())
		if ip == nil || ip.To4() == nil || !ip.IsPrivate() {
			continue
		}

		origin := strings.ToLower(u.Scheme) + "://" + u.Host
		if !seen[origin] {
			seen[origin] = true
			origins = append(origins, origin)
		}
	}

	return origins
}

// authorityOf returns the host[:port] portion of a URL-shaped token.
func authorityOf(candidate string) string {
	authority := candidate
	if i := strings.Index(authority, "://"); i >= 0 {
		authority = authority[i+3:]
	}
	if i := strings.IndexAny(authority, "/?#"); i >= 0 {
		authority = authority[:i]
	}
	return authority
}
