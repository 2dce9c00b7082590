package specfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads and parses the spec file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a spec document from r. The name is recorded as Document.Path
// and used in error positions.
func Parse(r io.Reader, name string) (*Document, error) {
	doc := &Document{Path: name}

	var (
		cur     *Section
		pending []string
		lineno  int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "#"):
			pending = append(pending, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue

		case strings.HasPrefix(line, "["):
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, &ParseError{File: name, Line: lineno, Msg: "unterminated section header"}
			}
			secName := strings.TrimSpace(line[1:end])
			if secName == "" {
				return nil, &ParseError{File: name, Line: lineno, Msg: "empty section name"}
			}
			if rest := strings.TrimSpace(line[end+1:]); rest != "" && !strings.HasPrefix(rest, "#") {
				return nil, &ParseError{File: name, Line: lineno, Msg: fmt.Sprintf("unexpected text after section header: %q", rest)}
			}
			if doc.Section(secName) != nil {
				return nil, &ParseError{File: name, Line: lineno, Msg: fmt.Sprintf("duplicate section [%s]", secName)}
			}
			cur = &Section{Name: secName, Line: lineno, LeadingComments: pending}
			pending = nil
			doc.Sections = append(doc.Sections, cur)
			continue
		}

		// key = value or key += value
		key, value, appendOp, err := splitEntry(line)
		if err != nil {
			return nil, &ParseError{File: name, Line: lineno, Msg: err.Error()}
		}
		if cur == nil {
			return nil, &ParseError{File: name, Line: lineno, Msg: fmt.Sprintf("%q outside of any section", key)}
		}

		value, comment := splitTrailingComment(value)

		if appendOp {
			e := cur.entry(key)
			if e == nil {
				return nil, &ParseError{File: name, Line: lineno, Msg: fmt.Sprintf("%q appended with += before being defined", key)}
			}
			e.Values = append(e.Values, value)
			e.AppendComments = append(e.AppendComments, comment)
			if len(pending) > 0 {
				e.LeadingComments = append(e.LeadingComments, pending...)
				pending = nil
			}
			continue
		}

		cur.Entries = append(cur.Entries, &Entry{
			Key:             key,
			Values:          []string{value},
			Line:            lineno,
			Comment:         comment,
			LeadingComments: pending,
		})
		pending = nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	doc.TrailingComments = pending
	return doc, nil
}

func splitEntry(line string) (key, value string, appendOp bool, err error) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", false, fmt.Errorf("expected \"key = value\", got %q", line)
	}

	key = strings.TrimSpace(line[:eq])
	value = strings.TrimSpace(line[eq+1:])

	if strings.HasSuffix(key, "+") {
		appendOp = true
		key = strings.TrimSpace(strings.TrimSuffix(key, "+"))
	}
	if key == "" {
		return "", "", false, fmt.Errorf("missing key before %q", "=")
	}
	if strings.ContainsAny(key, " \t") {
		return "", "", false, fmt.Errorf("key %q contains whitespace", key)
	}
	return key, value, appendOp, nil
}

// splitTrailingComment strips an inline comment. Matching configparser, a
// comment marker inside a value counts only when preceded by whitespace.
func splitTrailingComment(value string) (string, string) {
	for i := 1; i < len(value); i++ {
		if value[i] == '#' && (value[i-1] == ' ' || value[i-1] == '\t') {
			return strings.TrimSpace(value[:i]), strings.TrimSpace(value[i+1:])
		}
	}
	if strings.HasPrefix(value, "#") {
		return "", strings.TrimSpace(value[1:])
	}
	return value, ""
}
