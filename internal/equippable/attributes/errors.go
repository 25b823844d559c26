package attributes

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCharacter = errors.New("attributes: name contains ':' or ';'")
	ErrReservedName     = errors.New("attributes: name is reserved")
	ErrEmptyName        = errors.New("attributes: name is empty")
	ErrNameTooLong      = errors.New("attributes: name is too long")
	ErrAmbiguousName    = errors.New("attributes: name without identity cannot end with ')'")
	ErrInvalidSlot      = errors.New("attributes: slot is empty or contains ':' or ';'")
	ErrBufferTooLarge   = errors.New("attributes: encoded attributes exceed buffer size")
	ErrMalformedEntry   = errors.New("attributes: malformed attribute entry")
	ErrDuplicateSlot    = errors.New("attributes: duplicate slot")
	ErrUnknownSlot      = errors.New("attributes: unknown slot")
)

// EntryError reports which entry of an encoded string failed to decode.
type EntryError struct {
	Index int
	Entry string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%v: entry %d %q", e.Err, e.Index, e.Entry)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// IsCodecError reports whether err came from decoding or encoding wire bytes,
// as opposed to rejecting a caller-supplied name or slot.
func IsCodecError(err error) bool {
	return errors.Is(err, ErrMalformedEntry) ||
		errors.Is(err, ErrDuplicateSlot) ||
		errors.Is(err, ErrBufferTooLarge) ||
		errors.As(err, new(*EntryError))
}
