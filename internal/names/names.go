// Package names implements the qualified-name type shared across the
// extractor, grapher and catalog: an ordered, case-preserved identifier
// path that compares case-insensitively everywhere it is used as a key.
package names

import "strings"

// Q is a qualified name: a non-empty, case-preserved identifier path such
// as ["proj", "dataset", "table"] or ["my_func"].
type Q []string

// NewQ builds a Q from individual path parts, e.g. NewQ("dataset", "t").
func NewQ(parts ...string) Q {
	q := make(Q, len(parts))
	copy(q, parts)
	return q
}

// Parse splits a dot-joined display string into a Q.
func Parse(s string) Q {
	return Q(strings.Split(s, "."))
}

// Key returns the lowercase, dot-joined canonical form used as a map key
// everywhere names are compared (spec §9 "Name comparison").
func (q Q) Key() string {
	if len(q) == 0 {
		return ""
	}
	parts := make([]string, len(q))
	for i, p := range q {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}

// String returns the case-preserved, dot-joined display form.
func (q Q) String() string {
	return strings.Join([]string(q), ".")
}

// Equal reports whether two names are the same under case-insensitive
// comparison.
func (q Q) Equal(other Q) bool {
	return q.Key() == other.Key()
}
