package domain

import (
	"strings"
	"unicode/utf8"

	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
)

const (
	maxTokenIDLength   = 64
	maxPrincipalLength = 128
)

// TokenID identifies a token collection (e.g. "PENGUIN-a1b2c3", "HAT-a1a1a1").
// Identifiers may contain '-' but never whitespace, parentheses, ':' or ';',
// since they are embedded in encoded attribute strings.
type TokenID string

// ParseTokenID validates a collection identifier at a trust boundary.
func ParseTokenID(s string) (TokenID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "token identifier is required")
	}
	if len(s) > maxTokenIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "token identifier is too long")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f {
			return "", dErrors.New(dErrors.CodeInvalidInput, "token identifier must be printable ASCII")
		}
		switch c {
		case '(', ')', ':', ';':
			return "", dErrors.New(dErrors.CodeInvalidInput, "token identifier contains a reserved character")
		}
	}
	return TokenID(s), nil
}

func (t TokenID) String() string {
	return string(t)
}

func (t TokenID) IsNil() bool {
	return t == ""
}

// Principal is the opaque identity of a caller. It is used for authorization
// comparisons and as a transfer destination.
type Principal string

// ParsePrincipal validates a caller identity taken from a token or config.
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is required")
	}
	if len(s) > maxPrincipalLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is too long")
	}
	if !utf8.ValidString(s) || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == 0x7f }) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal contains invalid characters")
	}
	return Principal(s), nil
}

func (p Principal) String() string {
	return string(p)
}

func (p Principal) IsNil() bool {
	return p == ""
}
