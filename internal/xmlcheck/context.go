package xmlcheck

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
	"unicode/utf8"
)

// substitute replaces the offending byte in the reported snippet.
const substitute = "?"

// maxLineBytes caps the line scanner buffer. Project files authored by
// desktop tools occasionally contain very long single-line documents.
const maxLineBytes = 4 * 1024 * 1024

// Context is a three-part, display-ready explanation of a parse failure.
// EscapedSnippet is always HTML-escaped.
type Context struct {
	Description    string
	PrefixMessage  string
	EscapedSnippet string
}

// Contextualize re-reads the stream to produce a human-safe snippet of the
// line where parsing failed. The faulty byte is reported using its raw
// byte representation, never decoded: decoding is exactly what failed.
// The prefix strictly before the column is assumed to be well-formed
// UTF-8; it is trimmed, terminated with the substitute marker and
// HTML-escaped before being surfaced in reports.
//
// Contextualize never fails: on any malformed input (unknown location,
// stream shorter than the reported line, column outside the line) it
// returns nil and the caller falls back to the raw parser message.
func Contextualize(loc *Location, r io.ReadSeeker) *Context {
	if loc == nil || loc.Line < 1 || loc.Column < 1 {
		return nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		if lineNo != loc.Line {
			continue
		}

		raw := scanner.Bytes()
		if loc.Column > len(raw) {
			return nil
		}

		faulty := raw[loc.Column-1]
		prefix := raw[:loc.Column-1]
		if !utf8.Valid(prefix) {
			return nil
		}

		snippet := strings.TrimSpace(string(prefix)) + substitute
		return &Context{
			Description:    fmt.Sprintf("Unable to parse this character: %#02x", faulty),
			PrefixMessage:  fmt.Sprintf("It was replaced by %q on line %d that starts with:", substitute, loc.Line),
			EscapedSnippet: html.EscapeString(snippet),
		}
	}

	return nil
}

// Segments returns the context parts in display order.
func (c *Context) Segments() []string {
	return []string{c.Description, c.PrefixMessage, c.EscapedSnippet}
}

// Joined returns the context as a single string suitable for an error payload.
func (c *Context) Joined() string {
	return strings.Join(c.Segments(), " ")
}
