package result

import (
	"fmt"
	"strings"
)

// Mask is a set of requested result kinds, one bit per Kind.
type Mask uint32

// Fill selects every kind.
func (m *Mask) Fill() { *m = ^Mask(0) }

// Empty clears every kind.
func (m *Mask) Empty() { *m = 0 }

// Set adds k. Setting All fills the mask.
func (m *Mask) Set(k Kind) {
	if k == All {
		m.Fill()
		return
	}
	*m |= 1 << uint(k)
}

// Clear removes k.
func (m *Mask) Clear(k Kind) { *m &^= 1 << uint(k) }

// IsSet reports whether k is requested.
func (m Mask) IsSet(k Kind) bool { return m&(1<<uint(k)) != 0 }

// Kinds lists the requested kinds in catalog order.
func (m Mask) Kinds() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if m.IsSet(k) {
			out = append(out, k)
		}
	}
	return out
}

// MaskOf builds a mask from kinds.
func MaskOf(kinds ...Kind) Mask {
	var m Mask
	for _, k := range kinds {
		m.Set(k)
	}
	return m
}

// ParseMask converts short names (as accepted by --result) into a mask.
// Names may be given as separate arguments or comma separated.
func ParseMask(names ...string) (Mask, error) {
	var m Mask
	for _, arg := range names {
		for _, name := range strings.Split(arg, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			e, ok := ByName(name)
			if !ok {
				return 0, fmt.Errorf("unknown result name %q", name)
			}
			m.Set(e.ID)
		}
	}
	return m, nil
}

// Names returns the short names of the requested kinds.
func (m Mask) Names() []string {
	kinds := m.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
