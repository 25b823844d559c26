package attributes

import "testing"

// FuzzDecode checks that decoding never panics and that anything accepted
// re-encodes to a canonical form that is a fixed point of decode/encode.
func FuzzDecode(f *testing.F) {
	f.Add("")
	f.Add("hat:Pirate Hat;weapon:Gun")
	f.Add("Hat:unequipped")
	f.Add("weapon:Gun (WEAPON-b2b2b2-0a);hat:Pirate Hat (HAT-a1a1a1-01)")
	f.Add("hat:Hat (of doom) (MY-HAT-a1a1a1-1770)")
	f.Add("hat:A;HAT:B")
	f.Add("hat:A (HAT-)")
	f.Add(";;:")

	f.Fuzz(func(t *testing.T, input string) {
		set, err := Decode([]byte(input))
		if err != nil {
			if !IsCodecError(err) {
				t.Fatalf("decode error %v is not a codec error", err)
			}
			return
		}

		canonical, err := Encode(set)
		if err != nil {
			return
		}
		again, err := Decode(canonical)
		if err != nil {
			t.Fatalf("canonical form %q does not decode: %v", canonical, err)
		}
		if !set.Equal(again) {
			t.Fatalf("round trip changed %q into %q", input, canonical)
		}
		second, err := Encode(again)
		if err != nil || string(second) != string(canonical) {
			t.Fatalf("canonical form %q is not stable: %q (%v)", canonical, second, err)
		}
	})
}
