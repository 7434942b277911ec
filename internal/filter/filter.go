// Package filter implements the model allow-list loaded from a newline
// delimited file. A Set is built once at startup and never mutated, so it is
// safe for concurrent readers without locking.
package filter

import (
	"bufio"
	"os"
	"path"
	"strings"
)

// Set restricts which upstream model IDs are exposed downstream. Entries may
// be exact IDs or glob patterns such as "google/*" or "openai/gpt-4*"
// (path.Match syntax, where "/" is a separator).
//
// A nil *Set means no filtering: every ID is allowed. A non-nil empty Set
// allows nothing; this is the degraded state after a failed load.
type Set struct {
	exact    map[string]struct{}
	patterns []string
}

// Load reads the allow-list from path. Blank lines are skipped. Entries
// containing glob metacharacters are kept as patterns, everything else as
// exact IDs.
func Load(p string) (*Set, error) {
	file, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s := &Set{exact: make(map[string]struct{})}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, "*?[") {
			s.patterns = append(s.patterns, line)
		} else {
			s.exact[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return s, nil
}

// Empty creates a Set that allows nothing. Used when a configured filter file
// cannot be loaded.
func Empty() *Set {
	return &Set{exact: make(map[string]struct{})}
}

// Allows reports whether id passes the filter. A nil Set allows everything.
func (s *Set) Allows(id string) bool {
	if s == nil {
		return true
	}
	if _, ok := s.exact[id]; ok {
		return true
	}
	for _, pattern := range s.patterns {
		if matched, err := path.Match(pattern, id); err == nil && matched {
			return true
		}
	}
	return false
}

// Len returns the number of loaded entries (exact IDs plus patterns).
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.exact) + len(s.patterns)
}
