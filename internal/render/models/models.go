// Package models holds the render queue types: attribute combinations
// waiting for an image and the URIs recorded once they are rendered.
package models

import (
	"strconv"
	"strings"
	"time"
)

// EnqueuePrice is the exact fee, in the smallest native unit, charged to
// enqueue a render (0.001 of the native token).
const EnqueuePrice uint64 = 1_000_000_000_000_000

// Job is one attribute combination waiting to be rendered. Name is the
// display name of the equippable and is unique across the queue.
type Job struct {
	Name       string    `cbor:"1,keyasint"`
	Attributes string    `cbor:"2,keyasint"`
	EnqueuedAt time.Time `cbor:"3,keyasint"`
	// Requester is the principal that paid the fee.
	Requester string `cbor:"4,keyasint,omitempty"`
}

// Key identifies the rendered image of Attributes for Name.
func (j Job) Key() string {
	return Key(j.Attributes, j.Name)
}

// URIAssignment records the image URI of one queued job.
type URIAssignment struct {
	Attributes string
	Name       string
	URI        string
}

func (a URIAssignment) Key() string {
	return Key(a.Attributes, a.Name)
}

// Key joins canonical attributes and a name into a URI lookup key. The
// attributes are length-prefixed so that an '@' inside a name or an item
// name cannot make two pairs share a key.
func Key(attributes, name string) string {
	prefix := strconv.Itoa(len(attributes))
	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(attributes) + 1 + len(name))
	b.WriteString(prefix)
	b.WriteByte(':')
	b.WriteString(attributes)
	b.WriteByte('@')
	b.WriteString(name)
	return b.String()
}
