package arbor

import (
	"fmt"
	"strconv"
	"strings"
)

// Span is a half-open interval [Start, End) of terminal positions.
type Span struct {
	Start int
	End   int
}

// Len returns the number of terminals in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Address is a path of child indices from a node down to one of its
// descendants. The empty address denotes the node itself.
type Address []int

// String renders the address as dot-separated indices, or "." when empty.
func (a Address) String() string {
	if len(a) == 0 {
		return "."
	}
	parts := make([]string, len(a))
	for i, idx := range a {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// ParseAddress reads an address written by Address.String.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "." || s == "" {
		return Address{}, nil
	}
	parts := strings.Split(s, ".")
	addr := make(Address, len(parts))
	for i, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		addr[i] = idx
	}
	return addr, nil
}
