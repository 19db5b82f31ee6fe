// Package urlnormalize canonicalizes a URL into a deterministic,
// comparable string form: redundant and relative path segments (".",
// "..", doubled slashes) are collapsed, path segments are re-encoded
// consistently, and the query string is rewritten with its parameters
// decoded, optionally filtered by caller-supplied removal patterns, and
// sorted by key. Two URLs that are semantically equivalent but textually
// different collapse to the same canonical string, which makes the output
// useful as a deduplication or cache key:
//
//	n, err := urlnormalize.New("https://example.com/./main.php?c=1&b=2&a=5")
//	if err != nil {
//		// ...
//	}
//	canonical, err := n.Normalize([]string{"utm_.*"})
//	// canonical == "https://example.com/main.php?a=5&b=2&c=1"
package urlnormalize

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/howeih/url-normalize/bufferpool"
)

var buffers = bufferpool.New()

// Normalizer holds one parsed URL and derives canonical forms from it.
// The stored URL is never mutated, so a single Normalizer is safe for
// concurrent use by multiple goroutines.
type Normalizer struct {
	url *url.URL
	raw string
}

// New parses the given URL, trimming surrounding whitespace first. The
// URL must be absolute; a parse failure or missing scheme returns an
// error wrapping ErrInvalidURL and no Normalizer is produced.
func New(taintedURL string) (*Normalizer, error) {
	raw := strings.TrimSpace(taintedURL)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: missing scheme", ErrInvalidURL)
	}
	return &Normalizer{url: u, raw: raw}, nil
}

// Normalize is a convenience wrapper that parses and normalizes in one
// call.
func Normalize(taintedURL string, removePatterns []string) (string, error) {
	n, err := New(taintedURL)
	if err != nil {
		return "", err
	}
	return n.Normalize(removePatterns)
}

// Normalize derives the canonical form of the stored URL. Parameters
// whose decoded key matches any of the removal patterns are dropped from
// the output. Each call is independent and idempotent: normalizing an
// already-canonical URL returns it unchanged.
//
// An opaque URL, one with no hierarchical path component, is exempt from
// rewriting and is returned as given.
func (n *Normalizer) Normalize(removePatterns []string) (string, error) {
	if n.isOpaque() {
		return n.raw, nil
	}

	encodedPath, err := encodePathSegments(n.url.EscapedPath())
	if err != nil {
		return "", err
	}
	normalizedPath, err := normalizePath(encodedPath)
	if err != nil {
		return "", err
	}
	params, err := canonicalizeQuery(n.url.RawQuery, removePatterns)
	if err != nil {
		return "", err
	}
	return assemble(n.url, normalizedPath, params), nil
}

func (n *Normalizer) isOpaque() bool {
	return n.url.Opaque != "" || n.url.Path == ""
}

// encodePathSegments re-encodes each /-delimited segment of an escaped
// path independently, never touching the separators. Decoding first and
// re-encoding keeps the operation idempotent regardless of how the input
// was originally escaped. A segment that cannot be decoded is re-encoded
// as-is.
func encodePathSegments(escapedPath string) (string, error) {
	if escapedPath == "" {
		return "", nil
	}
	segs := strings.Split(escapedPath, "/")
	for i, seg := range segs {
		dec, err := url.PathUnescape(seg)
		if err != nil {
			dec = seg
		}
		segs[i] = url.PathEscape(dec)
	}
	encoded := strings.Join(segs, "/")
	if !utf8.ValidString(encoded) {
		return "", ErrEncode
	}
	return encoded, nil
}

// assemble serializes the canonical URL as scheme://host[:port]path with
// the query parameters appended decoded and in ascending key order. Port
// 80 is omitted; any other explicit port is preserved. This is a
// deliberate simplification, not scheme-aware (443 is not special-cased
// for https).
func assemble(u *url.URL, path string, params map[string]string) string {
	buf := buffers.Get()
	defer buffers.Put(buf)

	buf.WriteString(u.Scheme)
	buf.WriteString("://")

	host := u.Hostname()
	if strings.Contains(host, ":") {
		// re-bracket IPv6 literals split off by Hostname
		host = "[" + host + "]"
	}
	buf.WriteString(host)
	if port := u.Port(); port != "" && port != "80" {
		buf.WriteByte(':')
		buf.WriteString(port)
	}

	buf.WriteString(path)

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				buf.WriteByte('?')
			} else {
				buf.WriteByte('&')
			}
			buf.WriteString(k)
			buf.WriteByte('=')
			buf.WriteString(params[k])
		}
	}
	return buf.String()
}
