package specfile

import (
	"regexp"
	"strings"
)

// envRef matches the $ENV{VAR} interpolation form, optionally followed by a
// literal path suffix that stays untouched.
var envRef = regexp.MustCompile(`\$ENV\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandValue replaces every $ENV{VAR} reference in s using env and returns
// the expanded string with the variable names that were referenced, in order.
func ExpandValue(s string, env func(string) string) (string, []string) {
	var refs []string
	out := envRef.ReplaceAllStringFunc(s, func(m string) string {
		name := envRef.FindStringSubmatch(m)[1]
		refs = append(refs, name)
		return env(name)
	})
	return out, refs
}

// Interpolate expands $ENV{VAR} references in every value of the document,
// in place. Unset variables expand to the empty string. It returns the
// distinct variable names referenced, in first-use order, so callers can
// report which parts of the environment a spec depends on.
func (d *Document) Interpolate(env func(string) string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, sec := range d.Sections {
		for _, e := range sec.Entries {
			for i, v := range e.Values {
				if !strings.Contains(v, "$ENV{") {
					continue
				}
				expanded, refs := ExpandValue(v, env)
				e.Values[i] = expanded
				for _, r := range refs {
					if !seen[r] {
						seen[r] = true
						names = append(names, r)
					}
				}
			}
		}
	}
	return names
}
