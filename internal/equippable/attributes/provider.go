package attributes

import (
	"context"
	"fmt"
)

// SlotLister reports the slots known to the item registry.
type SlotLister interface {
	ListSlots(ctx context.Context) ([]Slot, error)
}

// Provider builds the codec of the current slot universe: the fixed slot
// list when one is configured, otherwise the registry's slots at call time.
type Provider struct {
	slots SlotLister
	fixed *FixedUniverse
	style SlotStyle
}

// NewProvider returns a Provider. An empty fixed list selects the registered universe.
func NewProvider(slots SlotLister, fixed []string, style SlotStyle) *Provider {
	p := &Provider{slots: slots, style: style}
	if len(fixed) > 0 {
		p.fixed = NewFixedUniverse(fixed...)
	}
	return p
}

func (p *Provider) Codec(ctx context.Context) (*Codec, error) {
	if p.fixed != nil {
		return NewCodec(p.fixed, WithSlotStyle(p.style)), nil
	}
	slots, err := p.slots.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registered slots: %w", err)
	}
	return NewCodec(NewRegisteredUniverse(slots...), WithSlotStyle(p.style)), nil
}

// Canonicalize decodes raw and re-encodes it, so that equal slot states
// compare equal as strings.
func (p *Provider) Canonicalize(ctx context.Context, raw string) (string, error) {
	codec, err := p.Codec(ctx)
	if err != nil {
		return "", err
	}
	set, err := codec.Decode([]byte(raw))
	if err != nil {
		return "", err
	}
	out, err := codec.Encode(set)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
