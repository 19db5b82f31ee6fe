package urlnormalize

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		given    string
		expected string
	}{
		{
			name:     "already normal path is unchanged",
			given:    "/a/b/c",
			expected: "/a/b/c",
		},
		{
			name:     "root is unchanged",
			given:    "/",
			expected: "/",
		},
		{
			name:     "empty path is unchanged",
			given:    "",
			expected: "",
		},
		{
			name:     "dot-prefixed segments are not dot-segments",
			given:    "/.hidden/...x/a..b",
			expected: "/.hidden/...x/a..b",
		},
		{
			name:     "single dot segment is dropped",
			given:    "/./main.php",
			expected: "/main.php",
		},
		{
			name:     "dot and dot-dot segments collapse",
			given:    "/path/to/../from/./x",
			expected: "/path/from/x",
		},
		{
			name:     "duplicate slashes collapse",
			given:    "//a///b",
			expected: "/a/b",
		},
		{
			name:     "dot-dot cancels nearest ancestor",
			given:    "/a/b/c/../../d",
			expected: "/a/d",
		},
		{
			name:     "unresolved leading dot-dots are preserved",
			given:    "../../x",
			expected: "../../x",
		},
		{
			name:     "dot-dot past the first segment is preserved",
			given:    "a/../../x",
			expected: "../x",
		},
		{
			name:     "unresolved dot-dot after the root is preserved",
			given:    "/../x",
			expected: "/../x",
		},
		{
			name:     "trailing slash survives removal",
			given:    "/a/b/../",
			expected: "/a/",
		},
		{
			name:     "trailing dot leaves trailing slash",
			given:    "/a/.",
			expected: "/a/",
		},
		{
			name:     "dot-dot consuming the whole path leaves the root",
			given:    "/a/..",
			expected: "/",
		},
		{
			name:     "relative path cancelling to nothing",
			given:    "a/..",
			expected: "",
		},
		{
			name:     "leading dot guards a colon segment",
			given:    "x/../a:b",
			expected: "./a:b",
		},
		{
			name:     "colon in first original segment needs no guard",
			given:    "a:b/c",
			expected: "a:b/c",
		},
		{
			name:     "absolute colon segment needs no guard",
			given:    "/x/../a:b",
			expected: "/a:b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := normalizePath(tc.given)
			if err != nil {
				t.Fatalf("error normalizing %q: %s", tc.given, err)
			}
			if result != tc.expected {
				t.Errorf("\nGot:  %s\nWant: %s", result, tc.expected)
			}
		})
	}
}

func TestScanPathCountsSegments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		given  string
		ns     int
		normal bool
	}{
		{"/a/b/c", 3, true},
		{"/", 0, true},
		{"//", 0, false},
		{"//a///b", 2, false},
		{"/./x", 2, false},
		{"..", 1, false},
		{"a/b", 2, true},
	}

	for _, tc := range testCases {
		ns, normal := scanPath(tc.given)
		if ns != tc.ns || normal != tc.normal {
			t.Errorf("scanPath(%q) = (%d, %v), want (%d, %v)", tc.given, ns, normal, tc.ns, tc.normal)
		}
	}
}
