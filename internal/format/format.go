// Package format renders prediction results as plain text columns or XML.
package format

import (
	"fmt"
	"io"
	"strings"
)

// Encoding selects the output encoding.
type Encoding int

const (
	Plain Encoding = 1
	XML   Encoding = 2
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "plain"
	case XML:
		return "xml"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// ParseEncoding accepts "plain" or "xml" in any case.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "text", "txt":
		return Plain, nil
	case "xml":
		return XML, nil
	}
	return 0, fmt.Errorf("unknown output format %q", s)
}

// MatrixReader is the read side of a result matrix. Formatters clear the
// matrix once they are done with it.
type MatrixReader interface {
	Rows() int
	Cols() int
	At(row, col int) (float64, error)
	Clear()
}

// Formatter writes one result document. Begin and End wrap the whole
// document; Header and Footer wrap each result section.
type Formatter interface {
	Begin(generator, version string) error
	Header(desc, name string) error
	Scalar(v float64) error
	Matrix(m MatrixReader) error
	Footer() error
	End() error
}

// New returns the formatter for enc. Verbose output adds descriptive
// headers in plain mode and extra attributes in XML mode.
func New(w io.Writer, enc Encoding, verbose bool) (Formatter, error) {
	switch enc {
	case Plain:
		return &plainFormatter{w: w, verbose: verbose}, nil
	case XML:
		return &xmlFormatter{w: w, verbose: verbose}, nil
	}
	return nil, fmt.Errorf("unsupported output format %d", int(enc))
}
