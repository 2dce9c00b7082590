package specfile

import (
	"fmt"
	"strings"
)

// ChangeKind classifies a single difference between two documents.
type ChangeKind int

const (
	// Added means the key exists only in the second document.
	Added ChangeKind = iota
	// Removed means the key exists only in the first document.
	Removed
	// Changed means the key exists in both with different values.
	Changed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	}
	return "unknown"
}

// Change is a key-level difference between two documents.
type Change struct {
	Kind    ChangeKind
	Section string
	Key     string
	Old     []string
	New     []string
}

func (c Change) String() string {
	ref := fmt.Sprintf("[%s] %s", c.Section, c.Key)
	switch c.Kind {
	case Added:
		return fmt.Sprintf("%s: added %q", ref, strings.Join(c.New, ","))
	case Removed:
		return fmt.Sprintf("%s: removed (was %q)", ref, strings.Join(c.Old, ","))
	default:
		return fmt.Sprintf("%s: %q -> %q", ref, strings.Join(c.Old, ","), strings.Join(c.New, ","))
	}
}

// Diff compares two documents key by key and returns the differences.
// Section and key order do not matter; values are compared as the flattened
// comma-split lists, so "a,b" equals "a, b" and a base list plus appends
// equals the same list written in one line.
func Diff(a, b *Document) []Change {
	var changes []Change

	for _, name := range unionSections(a, b) {
		sa, sb := a.Section(name), b.Section(name)
		switch {
		case sb == nil:
			for _, key := range sa.Keys() {
				changes = append(changes, Change{Kind: Removed, Section: name, Key: key, Old: sa.GetList(key)})
			}
		case sa == nil:
			for _, key := range sb.Keys() {
				changes = append(changes, Change{Kind: Added, Section: name, Key: key, New: sb.GetList(key)})
			}
		default:
			changes = append(changes, diffSection(name, sa, sb)...)
		}
	}
	return changes
}

// Equal reports whether two documents carry the same key/value content.
func Equal(a, b *Document) bool {
	return len(Diff(a, b)) == 0
}

func diffSection(name string, sa, sb *Section) []Change {
	var changes []Change

	keys := sa.Keys()
	inA := make(map[string]bool, len(keys))
	for _, k := range keys {
		inA[k] = true
	}
	for _, k := range sb.Keys() {
		if !inA[k] {
			keys = append(keys, k)
		}
	}

	for _, key := range keys {
		switch {
		case !sb.Has(key):
			changes = append(changes, Change{Kind: Removed, Section: name, Key: key, Old: sa.GetList(key)})
		case !sa.Has(key):
			changes = append(changes, Change{Kind: Added, Section: name, Key: key, New: sb.GetList(key)})
		default:
			oldV, newV := sa.GetList(key), sb.GetList(key)
			if !equalLists(oldV, newV) {
				changes = append(changes, Change{Kind: Changed, Section: name, Key: key, Old: oldV, New: newV})
			}
		}
	}
	return changes
}

func unionSections(a, b *Document) []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range a.Sections {
		seen[s.Name] = true
		names = append(names, s.Name)
	}
	for _, s := range b.Sections {
		if !seen[s.Name] {
			names = append(names, s.Name)
		}
	}
	return names
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
