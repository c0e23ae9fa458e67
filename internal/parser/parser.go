package parser

import "io"

// Parser defines the interface for health log file parsers.
type Parser interface {
	// Name returns the unique name of the parser.
	Name() string
	// CanParse reports whether the parser handles a file, given its name and
	// its first bytes.
	CanParse(fileName string, head []byte) bool
	// Parse reads the whole file. Row-level defects are reported in the
	// Result; an error means the input could not be read at all.
	Parse(r io.Reader) (*Result, error)
}
