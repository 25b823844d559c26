package attributes

import "strings"

// Slot is a case-insensitive equipment position such as "hat".
// The zero value is the empty slot name and is never valid in a Set.
type Slot struct {
	name string
}

// NewSlot normalizes raw to lower case. It never rejects input; use
// ValidateSlot at registration boundaries.
func NewSlot(raw string) Slot {
	return Slot{name: lowerASCII(raw)}
}

func (s Slot) String() string {
	return s.name
}

func (s Slot) IsZero() bool {
	return s.name == ""
}

// Compare orders slots byte-wise on their normalized form.
func (s Slot) Compare(other Slot) int {
	return strings.Compare(s.name, other.name)
}

// Display returns the normalized name with its first letter capitalized.
func (s Slot) Display() string {
	if s.name == "" {
		return ""
	}
	first := s.name[0]
	if first >= 'a' && first <= 'z' {
		return string(first-'a'+'A') + s.name[1:]
	}
	return s.name
}

// ValidateSlot rejects slots that cannot round-trip through the wire grammar.
func ValidateSlot(s Slot) error {
	if s.name == "" || strings.ContainsAny(s.name, ":;") {
		return ErrInvalidSlot
	}
	return nil
}

// lowerASCII folds A-Z only, so normalization never rewrites non-ASCII bytes.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
