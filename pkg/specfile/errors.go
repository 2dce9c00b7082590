package specfile

import "fmt"

// ParseError reports a syntax error with its source position.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// ValueError reports a value that does not parse as the requested kind.
type ValueError struct {
	Key   string
	Value string
	Want  string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid %s", e.Key, e.Value, e.Want)
}
