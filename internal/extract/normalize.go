package extract

import (
	"net/url"
	"strings"
)

// Tracking query parameters stripped before URLs are compared for dedup.
// Matching is case-insensitive; utm_* is matched as a prefix.
var trackedParamPrefixes = []string{"utm_"}

var trackedParams = map[string]bool{
	"fbclid":      true,
	"gclid":       true,
	"msclkid":     true,
	"ref":         true,
	"ref_src":     true,
	"source":      true,
	"ved":         true,
	"sa":          true,
	"usg":         true,
	"si":          true,
	"share_token": true,
}

// NormalizeURL produces the identity key used to dedup citations: the URL with
// tracking parameters and the fragment stripped, compared on the remaining
// origin+path+query. Unparseable input falls back to the trimmed raw string.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed
	}

	q := u.Query()
	for param := range q {
		if isTrackingParam(param) {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""

	normalized := u.String()
	return strings.TrimRight(normalized, "/")
}

func isTrackingParam(param string) bool {
	lower := strings.ToLower(param)
	if trackedParams[lower] {
		return true
	}
	for _, prefix := range trackedParamPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// StripNoisyQuery removes known noisy query-string fragments from a bare URL
// found in running text, before normalization.
func StripNoisyQuery(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	q := u.Query()
	for param := range q {
		if isTrackingParam(param) {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DomainOf returns the hostname of a URL without a leading "www.", or ""
// when the URL cannot be parsed.
func DomainOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
