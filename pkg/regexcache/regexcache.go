// Package regexcache provides a thread-safe cache for the compiled regular
// expressions behind regex rules. Rule catalogues are rebuilt per session and
// per loaded rule file, so the same patterns are requested many times.
//
// Usage:
//
//	re, err := regexcache.Get(`union\s+select`, false)
//	if err != nil {
//	    // handle error
//	}
//	blocked := re.MatchString(input)
package regexcache

import (
	"regexp"
	"sync"
)

// cache holds compiled regular expressions keyed by their effective pattern
// (the source pattern with "(?i)" prepended for case-insensitive rules).
var cache sync.Map

// Key returns the effective pattern used for compilation and cache lookup.
func Key(pattern string, caseSensitive bool) string {
	if caseSensitive {
		return pattern
	}
	return "(?i)" + pattern
}

// Get returns a compiled regexp for the given pattern and case mode.
// If the pattern was previously compiled, it returns the cached version.
// If the pattern is invalid, it returns an error.
func Get(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	key := Key(pattern, caseSensitive)

	// Fast path: check if already cached
	if cached, ok := cache.Load(key); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(key)
	if err != nil {
		return nil, err
	}

	// LoadOrStore handles the race between two first callers
	actual, _ := cache.LoadOrStore(key, re)
	return actual.(*regexp.Regexp), nil
}

// MustGet returns a compiled regexp for the given pattern.
// It panics if the pattern is invalid; used for the built-in catalogue only.
func MustGet(pattern string, caseSensitive bool) *regexp.Regexp {
	re, err := Get(pattern, caseSensitive)
	if err != nil {
		panic(err)
	}
	return re
}

// Clear removes all cached regular expressions.
// This is primarily useful for testing.
func Clear() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}

// Size returns the number of cached regular expressions.
func Size() int {
	count := 0
	cache.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
