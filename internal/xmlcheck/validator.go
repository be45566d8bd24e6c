package xmlcheck

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/geowerk/projfile/pkg/projfile"
)

// CheckProjectFile verifies that a project file exists, carries a
// recognized container extension, and (for the XML container) is
// well-formed XML.
//
// The XML container is parsed incrementally so an arbitrarily large file
// never has to be held in memory just to check well-formedness, and the
// first violation is reported with byte-position precision. Such files are
// often authored by third-party desktop tools and may contain encoding
// mistakes invisible in a normal text view.
//
// The compressed container is accepted without content inspection; its
// internal well-formedness is validated later by the loader.
func CheckProjectFile(path string, log projfile.Logger) error {
	log.Info("Checking project file validity: %s", path)

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s: %w", path, projfile.ErrProjectFileNotFound)
	}

	switch ext := filepath.Ext(path); ext {
	case projfile.ExtProjectXML:
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		if fail := scanWellFormed(f, log); fail != nil {
			return describeParseError(path, f, fail, log)
		}
	case projfile.ExtProjectArchive:
		// Accepted as-is. The loader rejects broken archives.
	default:
		return fmt.Errorf("%s: extension %q: %w", path, ext, projfile.ErrInvalidFileExtension)
	}

	log.Info("Project file is valid")
	return nil
}

// parseFailure is the engine-reported outcome of a failed well-formedness
// scan. Msg is the canonical locatable message handed to ParseLocation.
type parseFailure struct {
	Msg string
}

// scanWellFormed drives an event-based parse over the file, stopping at
// the first well-formedness violation. Returns nil when the document is
// well-formed.
//
// The token stream alone is not enough: the decoder happily tokenizes
// character data outside any element and additional top-level elements.
// Document-level rules are enforced here by tracking element depth, so
// junk text around the root, a second root element, and a document with
// no element at all are all rejected.
func scanWellFormed(f *os.File, log projfile.Logger) *parseFailure {
	dec := xml.NewDecoder(f)
	depth := 0
	rootSeen := false
	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if !rootSeen {
					log.Verbose("document contains no element")
					return failureAt(f, 1)
				}
				return nil
			}

			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				log.Verbose("parser reported: %s (line %d)", syntaxErr.Msg, syntaxErr.Line)
			} else {
				log.Verbose("parser reported: %v", err)
			}
			return failureAt(f, dec.InputOffset())
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && rootSeen {
				log.Verbose("second top-level element <%s>", t.Name.Local)
				return failureAt(f, before+1)
			}
			rootSeen = true
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 {
				if i := indexNonSpace(t); i >= 0 {
					log.Verbose("character data outside the document element")
					return failureAt(f, before+int64(i)+1)
				}
			}
		}
	}
}

// failureAt builds the canonical located failure for the byte just
// before off.
func failureAt(f *os.File, off int64) *parseFailure {
	line, column := offsetPosition(f, off)
	return &parseFailure{
		Msg: fmt.Sprintf("not well-formed (invalid token): line %d, column %d", line, column),
	}
}

// indexNonSpace returns the index of the first non-whitespace byte, or -1
// when the slice is all XML whitespace.
func indexNonSpace(b []byte) int {
	for i, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
		default:
			return i
		}
	}
	return -1
}

// offsetPosition converts a decoder byte offset into a 1-based line and
// column pointing at the last consumed byte. The file is re-read from the
// start; the decoder is done with it by the time this runs.
func offsetPosition(r io.ReadSeeker, off int64) (line, column int) {
	line, column = 1, 1
	if off <= 1 {
		return
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return
	}

	// Bytes strictly before the offending byte.
	buf := make([]byte, off-1)
	n, _ := io.ReadFull(r, buf)
	for _, b := range buf[:n] {
		if b == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

// describeParseError builds the structured invalid-project error for a
// failed scan,
// reusing the already-open stream for context extraction. Localization
// failures degrade to the raw engine message; a message that violates the
// canonical shape surfaces as its own error.
func describeParseError(path string, f *os.File, fail *parseFailure, log projfile.Logger) error {
	loc, err := ParseLocation(fail.Msg, log)
	if err != nil {
		return err
	}

	xmlErr := &XMLError{Path: path, Detail: fail.Msg}
	if loc != nil {
		xmlErr.Line = loc.Line
		xmlErr.Column = loc.Column
	}

	if ctx := Contextualize(loc, f); ctx != nil {
		for _, segment := range ctx.Segments() {
			log.Error("%s", segment)
		}
		xmlErr.Detail = ctx.Joined()
	}

	return xmlErr
}
