package format

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type xmlFormatter struct {
	w       io.Writer
	verbose bool
}

func (f *xmlFormatter) Begin(generator, version string) error {
	if _, err := io.WriteString(f.w, "<?xml version=\"1.0\"?>\n"); err != nil {
		return err
	}
	if f.verbose {
		_, err := fmt.Fprintf(f.w, "<result generator=\"%s\" version=\"%s\">\n", escape(generator), escape(version))
		return err
	}
	_, err := io.WriteString(f.w, "<result>\n")
	return err
}

func (f *xmlFormatter) End() error {
	_, err := io.WriteString(f.w, "</result>\n")
	return err
}

func (f *xmlFormatter) Header(desc, name string) error {
	if f.verbose {
		_, err := fmt.Fprintf(f.w, "  <prediction name=\"%s\" desc=\"%s\">\n", escape(name), escape(desc))
		return err
	}
	_, err := fmt.Fprintf(f.w, "  <prediction name=\"%s\">\n", escape(name))
	return err
}

func (f *xmlFormatter) Scalar(v float64) error {
	_, err := fmt.Fprintf(f.w, "    <values num=\"1\">\n      <value>%f</value>\n    </values>\n", v)
	return err
}

// Matrix writes one values block per column.
func (f *xmlFormatter) Matrix(m MatrixReader) error {
	defer m.Clear()

	for c := 1; c <= m.Cols(); c++ {
		if _, err := fmt.Fprintf(f.w, "    <values num=\"%d\">\n      ", m.Rows()); err != nil {
			return err
		}
		for r := 1; r <= m.Rows(); r++ {
			v, err := m.At(r, c)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(f.w, "<value>%f</value>", v); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(f.w, "\n    </values>\n"); err != nil {
			return err
		}
	}
	return nil
}

func (f *xmlFormatter) Footer() error {
	_, err := io.WriteString(f.w, "  </prediction>\n")
	return err
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
