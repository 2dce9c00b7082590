package specfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write serializes the document in canonical form: one blank line between
// sections, comments re-emitted above the entries they were attached to,
// append parts re-emitted as "key += value" lines. Byte-level fidelity with
// the original source is not a goal; a reparse of the output is semantically
// equal to the document.
func (d *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for i, sec := range d.Sections {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		for _, c := range sec.LeadingComments {
			fmt.Fprintf(bw, "# %s\n", c)
		}
		fmt.Fprintf(bw, "[%s]\n", sec.Name)

		for _, e := range sec.Entries {
			for _, c := range e.LeadingComments {
				fmt.Fprintf(bw, "# %s\n", c)
			}
			line := fmt.Sprintf("%s = %s", e.Key, e.Values[0])
			if e.Comment != "" {
				line += "  # " + e.Comment
			}
			fmt.Fprintln(bw, strings.TrimRight(line, " "))
			for i, v := range e.Values[1:] {
				line := fmt.Sprintf("%s += %s", e.Key, v)
				if i < len(e.AppendComments) && e.AppendComments[i] != "" {
					line += "  # " + e.AppendComments[i]
				}
				fmt.Fprintln(bw, line)
			}
		}
	}

	for _, c := range d.TrailingComments {
		fmt.Fprintf(bw, "# %s\n", c)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}
	return nil
}

// String returns the canonical serialization of the document.
func (d *Document) String() string {
	var sb strings.Builder
	d.Write(&sb) // strings.Builder never errors
	return sb.String()
}
