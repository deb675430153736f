// Package parser reads tabular input files into an undecoded grid of cells.
package parser

import (
	"errors"
	"fmt"
)

// Table is the raw header and rows read from an input file. Cells are kept
// verbatim; interpretation happens in the analysis package.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Options controls how input files are read.
type Options struct {
	// Encoding of delimited text input. Empty means latin1.
	Encoding string
	// Delimiter for delimited text. If 0, chosen from the filename.
	Delimiter rune
	// SheetName selects the worksheet of an .xlsx input; empty means the first sheet.
	SheetName string
}

// Reader defines an input format implementation.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrEmptyInput is returned when the input holds no header row.
var ErrEmptyInput = errors.New("input has no header row")

// ReadFile selects a reader based on filename and returns the raw table.
// Unknown extensions are read as delimited text.
func ReadFile(path string, opt Options) (*Table, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return delimitedReader{}.Read(path, opt)
}

func init() {
	Register(xlsxReader{})
	Register(delimitedReader{})
}

func emptyInput(path string) error {
	return fmt.Errorf("%s: %w", path, ErrEmptyInput)
}
