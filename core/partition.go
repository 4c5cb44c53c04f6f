package core

import "slices"

// DefaultPartition picks the partition shown when the caller has not chosen one:
// the dataset's declared default when it names a known key, otherwise the
// lexicographically last key.
func DefaultPartition(keys []string, declared string) string {
	if declared != "" && slices.Contains(keys, declared) {
		return declared
	}
	if len(keys) == 0 {
		return ""
	}
	return slices.Max(keys)
}

// ResolvePartition returns selected when it is a known key, otherwise the default.
func ResolvePartition(keys []string, selected, declared string) string {
	if selected != "" && slices.Contains(keys, selected) {
		return selected
	}
	return DefaultPartition(keys, declared)
}

// previousKey returns the key before key in order, or "".
func previousKey(order []string, key string) string {
	i := slices.Index(order, key)
	if i <= 0 {
		return ""
	}
	return order[i-1]
}
