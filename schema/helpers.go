package schema

import (
	"slices"
	"strings"
	"unicode"
)

// cleanParts trims surrounding punctuation from each name part, dropping parts that end up empty.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// AbbreviateName formats a manager name like "Priya Sharma" to "Priya S" for compact table columns.
// Single-word names are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.Trim(strings.TrimSpace(name), "()\"'`")
	cleaned := cleanParts(strings.Fields(trimmed))

	switch {
	case len(cleaned) >= 2:
		last := []rune(cleaned[len(cleaned)-1])
		return cleaned[0] + " " + string(last[0])
	case len(cleaned) == 1:
		return cleaned[0]
	default:
		return trimmed
	}
}

// TextCell builds a plain, unclassified cell.
func TextCell(value string) Cell {
	return Cell{Value: value}
}

// NumberCell builds a cell carrying its raw numeric value.
func NumberCell(value string, raw *float64, class CellClass) Cell {
	return Cell{Value: value, Raw: raw, Class: class}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// IntToFloat converts a nullable int to a nullable float64.
func IntToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	return Float(float64(*v))
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MergePeriodKeys returns declared in its given order followed by any remaining keys in
// ascending order. With nothing declared the result is fully sorted.
func MergePeriodKeys(declared []string, found map[string]struct{}) []string {
	out := make([]string, 0, len(found)+len(declared))
	seen := make(map[string]struct{}, len(found)+len(declared))
	for _, k := range declared {
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	var rest []string
	for k := range found {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
