// Package specfile implements parsing, manipulation, and serialization of
// buildozer.spec-style packaging configuration files.
//
// The format is INI-shaped with two extensions: "key += value" appends to a
// previously defined list-valued key, and "$ENV{VAR}" interpolates an
// environment variable into a value. Section order, key order, and comments
// are preserved so a document can be rewritten without destroying its shape.
package specfile

import (
	"strconv"
	"strings"
)

// Document is a parsed spec file: an ordered list of sections.
type Document struct {
	// Path is the source file name, used in error messages. May be empty
	// for documents built in memory.
	Path string

	Sections []*Section

	// TrailingComments holds comment lines after the last entry.
	TrailingComments []string
}

// Section is a named group of entries, e.g. [app] or [buildozer].
type Section struct {
	Name    string
	Line    int
	Entries []*Entry

	// LeadingComments are the comment lines directly above the header.
	LeadingComments []string
}

// Entry is a single key with one or more value parts. The first part comes
// from the "key = value" line; subsequent parts come from "key += value"
// lines and are re-emitted as appends on serialization.
type Entry struct {
	Key    string
	Values []string
	Line   int

	// Comment is the trailing comment of the defining line, without the
	// leading "#".
	Comment string

	// AppendComments holds the trailing comments of the "key += value"
	// lines, aligned with Values[1:]. Lines without a comment hold "".
	AppendComments []string

	// LeadingComments are the comment lines directly above the entry.
	LeadingComments []string
}

// Section returns the named section, or nil.
func (d *Document) Section(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// AddSection appends a new empty section and returns it.
func (d *Document) AddSection(name string) *Section {
	s := &Section{Name: name}
	d.Sections = append(d.Sections, s)
	return s
}

// entry returns the last entry for key. Duplicate scalar definitions are
// legal in the source format; the last one wins, matching configparser.
func (s *Section) entry(key string) *Entry {
	for i := len(s.Entries) - 1; i >= 0; i-- {
		if s.Entries[i].Key == key {
			return s.Entries[i]
		}
	}
	return nil
}

// Has reports whether the key is defined in the section.
func (s *Section) Has(key string) bool {
	return s.entry(key) != nil
}

// Get returns the scalar value for key. Append parts are joined with commas,
// so list-valued keys read back as their full comma-separated form.
func (s *Section) Get(key string) (string, bool) {
	e := s.entry(key)
	if e == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(e.Values, ",")), true
}

// GetList returns the value for key split on commas, trimmed, with empty
// elements dropped. Append parts accumulate in source order.
func (s *Section) GetList(key string) []string {
	e := s.entry(key)
	if e == nil {
		return nil
	}
	var out []string
	for _, part := range e.Values {
		for _, item := range strings.Split(part, ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// GetInt returns the value for key parsed as a base-10 integer.
func (s *Section) GetInt(key string) (int, bool, error) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, &ValueError{Key: key, Value: v, Want: "integer"}
	}
	return n, true, nil
}

// GetBool returns the value for key parsed as a buildozer boolean:
// 0/1, true/false, yes/no (case-insensitive).
func (s *Section) GetBool(key string) (bool, bool, error) {
	v, ok := s.Get(key)
	if !ok {
		return false, false, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, true, nil
	case "0", "false", "no", "off":
		return false, true, nil
	}
	return false, true, &ValueError{Key: key, Value: v, Want: "boolean"}
}

// Set replaces the value of key, or defines it at the end of the section.
func (s *Section) Set(key, value string) {
	if e := s.entry(key); e != nil {
		e.Values = []string{value}
		e.AppendComments = nil
		return
	}
	s.Entries = append(s.Entries, &Entry{Key: key, Values: []string{value}})
}

// Append adds an append part to an existing key, or defines the key if it
// does not exist yet.
func (s *Section) Append(key, value string) {
	if e := s.entry(key); e != nil {
		e.Values = append(e.Values, value)
		e.AppendComments = append(e.AppendComments, "")
		return
	}
	s.Entries = append(s.Entries, &Entry{Key: key, Values: []string{value}})
}

// Keys returns the section's keys in source order, without duplicates.
func (s *Section) Keys() []string {
	seen := make(map[string]bool, len(s.Entries))
	var out []string
	for _, e := range s.Entries {
		if !seen[e.Key] {
			seen[e.Key] = true
			out = append(out, e.Key)
		}
	}
	return out
}
