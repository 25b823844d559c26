package attributes

// DefaultMaxSize bounds an encoded attribute string, in bytes.
const DefaultMaxSize = 512

// SlotStyle selects how slot names are written.
type SlotStyle int

const (
	// SlotStyleLower writes normalized names: "hat:Pirate Hat".
	SlotStyleLower SlotStyle = iota
	// SlotStyleCapitalized writes display names: "Hat:Pirate Hat".
	SlotStyleCapitalized
)

// Codec converts a Set to and from its canonical text form for one universe.
type Codec struct {
	universe Universe
	style    SlotStyle
	maxSize  int
}

type Option func(*Codec)

func WithSlotStyle(style SlotStyle) Option {
	return func(c *Codec) {
		c.style = style
	}
}

func WithMaxSize(n int) Option {
	return func(c *Codec) {
		c.maxSize = n
	}
}

func NewCodec(universe Universe, opts ...Option) *Codec {
	c := &Codec{universe: universe, style: SlotStyleLower, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	if c.universe == nil {
		c.universe = OpenUniverse
	}
	return c
}

func (c *Codec) Universe() Universe {
	return c.universe
}

var defaultCodec = NewCodec(OpenUniverse)

// Encode renders set with an open universe and lower-case slots.
func Encode(set *Set) ([]byte, error) {
	return defaultCodec.Encode(set)
}

// Decode parses data with an open universe.
func Decode(data []byte) (*Set, error) {
	return defaultCodec.Decode(data)
}
