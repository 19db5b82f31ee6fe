package urlnormalize

import (
	"net/url"
	"regexp"
	"strings"
)

// canonicalizeQuery decodes a raw query string into a parameter map with
// unique, decoded keys. Parameters whose decoded key matches any of the
// removal patterns are dropped. A duplicate key overwrites the previous
// value, so the last occurrence wins.
func canonicalizeQuery(query string, removePatterns []string) (map[string]string, error) {
	params := make(map[string]string)
	if query == "" {
		return params, nil
	}

	rules, err := compileRemovalRules(removePatterns)
	if err != nil {
		return nil, err
	}

pairs:
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, ok := splitPair(pair)
		if !ok {
			continue
		}
		for _, rule := range rules {
			if rule.MatchString(key) {
				continue pairs
			}
		}
		params[key] = value
	}
	return params, nil
}

// compileRemovalRules compiles every pattern up front; a single bad
// pattern aborts the whole call so no partial filtering can happen.
func compileRemovalRules(patterns []string) ([]*regexp.Regexp, error) {
	rules := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		rule, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// splitPair splits a query pair on its first "=" and percent-decodes both
// halves independently. A pair with no "=" is a bare key with an empty
// value; "=value" yields an empty key. A key that fails to decode leaves
// no usable key, so the pair is skipped; a value that fails to decode is
// truncated to the decoded prefix, which is the empty string.
func splitPair(pair string) (key, value string, ok bool) {
	rawKey, rawValue, _ := strings.Cut(pair, "=")

	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return "", "", false
	}
	value, err = url.QueryUnescape(rawValue)
	if err != nil {
		value = ""
	}
	return key, value, true
}
