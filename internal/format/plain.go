package format

import (
	"fmt"
	"io"
)

const plainRule = "# ----------------------------------------------\n"

type plainFormatter struct {
	w       io.Writer
	verbose bool
}

func (f *plainFormatter) Begin(generator, version string) error { return nil }

func (f *plainFormatter) End() error { return nil }

func (f *plainFormatter) Header(desc, name string) error {
	if !f.verbose {
		return nil
	}
	_, err := fmt.Fprintf(f.w, "%s# %s (%s):\n%s", plainRule, desc, name, plainRule)
	return err
}

func (f *plainFormatter) Scalar(v float64) error {
	_, err := fmt.Fprintf(f.w, "%f\t\n", v)
	return err
}

// Matrix writes one line per column.
func (f *plainFormatter) Matrix(m MatrixReader) error {
	defer m.Clear()

	for c := 1; c <= m.Cols(); c++ {
		for r := 1; r <= m.Rows(); r++ {
			v, err := m.At(r, c)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(f.w, "%f\t", v); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(f.w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (f *plainFormatter) Footer() error {
	_, err := io.WriteString(f.w, "\n")
	return err
}
