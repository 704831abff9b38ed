package matrix

import "fmt"

// String is a dense matrix of text values used for qualitative data.
type String struct {
	rows, cols int
	data       []string
}

// NewString allocates an empty-string filled rows x cols matrix.
func NewString(rows, cols int) *String {
	s := &String{}
	s.Init(rows, cols)
	return s
}

// Init (re)allocates the matrix.
func (s *String) Init(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		s.rows, s.cols, s.data = 0, 0, nil
		return
	}
	s.rows, s.cols = rows, cols
	s.data = make([]string, rows*cols)
}

func (s *String) Rows() int {
	if s == nil {
		return 0
	}
	return s.rows
}

func (s *String) Cols() int {
	if s == nil {
		return 0
	}
	return s.cols
}

func (s *String) Empty() bool { return s.Rows() == 0 }

// At returns the value at the 1-based position.
func (s *String) At(row, col int) (string, error) {
	if err := s.check(row, col); err != nil {
		return "", err
	}
	return s.data[(row-1)*s.cols+col-1], nil
}

// Set stores v at the 1-based position.
func (s *String) Set(row, col int, v string) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	s.data[(row-1)*s.cols+col-1] = v
	return nil
}

func (s *String) Clear() {
	if s != nil {
		s.Init(0, 0)
	}
}

func (s *String) check(row, col int) error {
	if row < 1 || row > s.Rows() || col < 1 || col > s.Cols() {
		return fmt.Errorf("index (%d,%d) out of range for %dx%d matrix", row, col, s.Rows(), s.Cols())
	}
	return nil
}
