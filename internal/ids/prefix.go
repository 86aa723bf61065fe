package ids

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMatch indicates no ID starts with the requested prefix.
	ErrNoMatch = errors.New("no matching id")
	// ErrAmbiguousPrefix indicates more than one ID starts with the requested prefix.
	ErrAmbiguousPrefix = errors.New("ambiguous id prefix")
)

// UniquePrefixLengths returns the shortest unique prefix length for each ID.
// Keys are lowercased.
func UniquePrefixLengths(ids []string) map[string]int {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		lower := strings.ToLower(id)
		if lower == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		unique = append(unique, lower)
	}

	lengths := make(map[string]int, len(unique))
	for _, id := range unique {
		lengths[id] = shortestUniquePrefix(id, unique)
	}
	return lengths
}

func shortestUniquePrefix(id string, ids []string) int {
	longest := 0
	for _, other := range ids {
		if other == id {
			continue
		}
		if shared := commonPrefixLen(id, other); shared > longest {
			longest = shared
		}
	}
	if longest >= len(id) {
		return len(id)
	}
	return longest + 1
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// MatchPrefix resolves prefix to the single ID it identifies.
func MatchPrefix(ids []string, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("%w: empty prefix", ErrNoMatch)
	}

	var match string
	for _, id := range ids {
		if !strings.HasPrefix(strings.ToLower(id), prefix) {
			continue
		}
		if match != "" && !strings.EqualFold(match, id) {
			return "", fmt.Errorf("%w: %q", ErrAmbiguousPrefix, prefix)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, prefix)
	}
	return match, nil
}
