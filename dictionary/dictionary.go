// Package dictionary answers "is this word valid?" for the rules engine,
// with support for a '?' wildcard standing in for a joker tile.
package dictionary

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"strings"
)

// Checker determines whether words are valid. Words are grouped by length
// so exact lookups are O(1) on average and wildcard lookups only scan the
// bucket of matching length, per spec.md section 4.1.
type Checker struct {
	buckets map[int]map[string]struct{}
	logger  *log.Logger
}

// Config configures the construction of a Checker.
type Config struct {
	// Logger receives a line describing how the dictionary was loaded.
	// Defaults to log.Default() if nil.
	Logger *log.Logger
}

func (cfg Config) validate() error {
	return nil
}

func (cfg Config) logger() *log.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return log.Default()
}

// NewFromReader consumes newline-delimited words from r, trims whitespace,
// uppercases, and ignores empty lines, per spec.md section 4.1's dictionary
// format.
func (cfg Config) NewFromReader(r io.Reader) (*Checker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("dictionary: reader required")
	}
	c := &Checker{
		buckets: make(map[int]map[string]struct{}),
		logger:  cfg.logger(),
	}
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		word := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		bucket, ok := c.buckets[len(word)]
		if !ok {
			bucket = make(map[string]struct{})
			c.buckets[len(word)] = bucket
		}
		bucket[word] = struct{}{}
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	c.logger.Printf("dictionary: loaded %d words in %d length buckets", n, len(c.buckets))
	return c, nil
}

// NewPermissive returns a Checker that accepts every word, for use when no
// word list is available. It logs a line saying so when it is built.
func (cfg Config) NewPermissive() *Checker {
	cfg.logger().Printf("dictionary: using permissive stub, all words accepted")
	return &Checker{logger: cfg.logger()}
}

// IsValid reports whether word is valid. word is uppercase and may contain
// '?', which matches any single letter. Lookup is case-insensitive on
// input. If ctx is canceled or its deadline expires before the lookup
// completes, IsValid returns false rather than blocking.
func (c *Checker) IsValid(ctx context.Context, word string) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	if c.buckets == nil {
		// Permissive stub: every non-empty word is accepted.
		return word != ""
	}
	word = strings.ToUpper(word)
	bucket, ok := c.buckets[len(word)]
	if !ok {
		return false
	}
	if !strings.ContainsRune(word, '?') {
		_, ok := bucket[word]
		return ok
	}
	for candidate := range bucket {
		if ctx.Err() != nil {
			return false
		}
		if matchesWildcard(candidate, word) {
			return true
		}
	}
	return false
}

// matchesWildcard reports whether candidate matches pattern, where pattern
// may contain '?' wildcards. Both strings must be the same length; callers
// guarantee this via the length bucket.
func matchesWildcard(candidate, pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '?' {
			continue
		}
		if pattern[i] != candidate[i] {
			return false
		}
	}
	return true
}
