// Package tmpl fills layout templates by plain placeholder substitution.
// There are no conditionals, loops or escaping: a {{name}} token is
// replaced verbatim by the value supplied for name.
package tmpl

import (
	"sort"
	"strings"
)

// Placeholder returns the token form of a placeholder name.
func Placeholder(name string) string {
	return "{{" + name + "}}"
}

// Fill replaces every occurrence of each {{name}} in template with
// values[name]. Placeholders without a value are left as they are.
//
// Replacement happens in a single pass, so a value containing a token is
// never expanded again and the result does not depend on map order.
func Fill(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	// Longest first so overlapping names resolve the same way every run.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, Placeholder(name), values[name])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
