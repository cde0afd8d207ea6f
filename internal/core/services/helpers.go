package services

import (
	"sort"
	"strings"
)

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// page applies start/length pagination. A zero length means unlimited.
func page[T any](items []T, start, length int) []T {
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	items = items[start:]
	if length > 0 && length < len(items) {
		items = items[:length]
	}
	return items
}
