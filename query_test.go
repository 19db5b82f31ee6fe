package urlnormalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeQuery(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		query    string
		patterns []string
		expected map[string]string
	}{
		{
			name:     "empty query yields empty map",
			query:    "",
			expected: map[string]string{},
		},
		{
			name:     "pairs are decoded",
			query:    "c=1&b=2&a=5",
			expected: map[string]string{"a": "5", "b": "2", "c": "1"},
		},
		{
			name:     "empty tokens are skipped",
			query:    "&&a=1&",
			expected: map[string]string{"a": "1"},
		},
		{
			name:     "bare key has empty value",
			query:    "key",
			expected: map[string]string{"key": ""},
		},
		{
			name:     "leading equals yields empty key",
			query:    "=value",
			expected: map[string]string{"": "value"},
		},
		{
			name:     "value may contain equals",
			query:    "a=b=c",
			expected: map[string]string{"a": "b=c"},
		},
		{
			name:     "duplicate key keeps last occurrence",
			query:    "a=1&b=2&a=3",
			expected: map[string]string{"a": "3", "b": "2"},
		},
		{
			name:     "percent-encoded key and value are decoded",
			query:    "%61=%31&b=c+d",
			expected: map[string]string{"a": "1", "b": "c d"},
		},
		{
			name:     "undecodable key skips the pair",
			query:    "%zz=1&a=2",
			expected: map[string]string{"a": "2"},
		},
		{
			name:     "undecodable value is truncated to empty",
			query:    "a=%zz&b=2",
			expected: map[string]string{"a": "", "b": "2"},
		},
		{
			name:     "matching keys are removed",
			query:    "a=5&utm_source=facebook&utm_medium=social&b=2",
			patterns: []string{"utm_.*"},
			expected: map[string]string{"a": "5", "b": "2"},
		},
		{
			name:     "patterns match the decoded key",
			query:    "utm%5Fsource=facebook&a=1",
			patterns: []string{"utm_.*"},
			expected: map[string]string{"a": "1"},
		},
		{
			name:     "any matching rule removes the pair",
			query:    "fbclid=x&gclid=y&a=1",
			patterns: []string{"fbclid", "gclid"},
			expected: map[string]string{"a": "1"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params, err := canonicalizeQuery(tc.query, tc.patterns)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, params)
		})
	}
}

func TestCanonicalizeQueryBadPattern(t *testing.T) {
	t.Parallel()

	params, err := canonicalizeQuery("a=1", []string{"ok.*", "[unbalanced"})
	assert.Nil(t, params)

	var patternErr *PatternError
	require.True(t, errors.As(err, &patternErr))
	assert.Equal(t, "[unbalanced", patternErr.Pattern)
	assert.ErrorContains(t, err, "[unbalanced")
}
