package matrix

import "fmt"

// StringVector is an ordered list of names.
type StringVector struct {
	items []string
}

func NewStringVector(items ...string) StringVector {
	return StringVector{items: append([]string(nil), items...)}
}

func (v *StringVector) Len() int { return len(v.items) }

// At returns the 1-based element.
func (v *StringVector) At(i int) (string, error) {
	if i < 1 || i > len(v.items) {
		return "", fmt.Errorf("index %d out of range for vector of %d strings", i, len(v.items))
	}
	return v.items[i-1], nil
}

func (v *StringVector) Append(s ...string) { v.items = append(v.items, s...) }

// Values returns a copy of the elements.
func (v *StringVector) Values() []string { return append([]string(nil), v.items...) }

func (v *StringVector) Clear() { v.items = nil }

// IntVector is an ordered list of 1-based indices.
type IntVector struct {
	items []int
}

func NewIntVector(n int) IntVector {
	return IntVector{items: make([]int, n)}
}

func (v *IntVector) Len() int { return len(v.items) }

func (v *IntVector) At(i int) (int, error) {
	if i < 1 || i > len(v.items) {
		return 0, fmt.Errorf("index %d out of range for vector of %d ints", i, len(v.items))
	}
	return v.items[i-1], nil
}

func (v *IntVector) Set(i, value int) error {
	if i < 1 || i > len(v.items) {
		return fmt.Errorf("index %d out of range for vector of %d ints", i, len(v.items))
	}
	v.items[i-1] = value
	return nil
}

func (v *IntVector) Values() []int { return append([]int(nil), v.items...) }

func (v *IntVector) Clear() { v.items = nil }
