package xmlcheck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geowerk/projfile/pkg/projfile"
)

// Location is a 1-based parse error position inside a project file.
// Both fields are present together or not at all.
type Location struct {
	Line   int
	Column int
}

// ParseLocation extracts line and column numbers from a parser error
// message of the canonical shape
//
//	"... (invalid token): line N, column M"
//
// A message without the "invalid token" marker cannot be localized: that
// case is logged and (nil, nil) is returned so the caller can fall back to
// the raw message. A message that carries the marker but does not match
// the "line N, column M" shape violates the parser message contract and
// is returned as an error with the offending message attached.
func ParseLocation(msg string, log projfile.Logger) (*Location, error) {
	if !strings.Contains(strings.ToLower(msg), "invalid token") {
		log.Error("unable to find 'invalid token' details in the given message")
		return nil, nil
	}

	_, details, found := strings.Cut(msg, ":")
	if !found {
		return nil, shapeError(msg)
	}

	lineClause, columnClause, found := strings.Cut(details, ",")
	if !found {
		return nil, shapeError(msg)
	}

	line, err := trailingInt(lineClause)
	if err != nil {
		return nil, shapeError(msg)
	}
	column, err := trailingInt(columnClause)
	if err != nil {
		return nil, shapeError(msg)
	}

	return &Location{Line: line, Column: column}, nil
}

// trailingInt isolates the integer after the last space of a clause such
// as " line 7" or " column 12".
func trailingInt(clause string) (int, error) {
	clause = strings.TrimSpace(clause)
	i := strings.LastIndex(clause, " ")
	if i < 0 {
		return 0, fmt.Errorf("clause %q has no trailing number", clause)
	}
	return strconv.Atoi(clause[i+1:])
}

func shapeError(msg string) error {
	return fmt.Errorf("parser message %q does not match the expected \"line N, column M\" shape", msg)
}
