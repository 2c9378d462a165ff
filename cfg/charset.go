package cfg

import "math/bits"

// CharSet is a set of bytes, used for terminal character classes.
// The zero value is an empty set.
type CharSet struct {
	bits [4]uint64 // bit i is set if byte i is a member
}

// Chars creates a set of bytes.
func Chars(cs ...byte) *CharSet {
	set := &CharSet{}
	for _, c := range cs {
		set.Add(c)
	}
	return set
}

// CharRange creates the set of bytes from lo to hi, inclusive.
func CharRange(lo, hi byte) *CharSet {
	return (&CharSet{}).AddRange(lo, hi)
}

// Add adds byte c to the set.
func (cs *CharSet) Add(c byte) *CharSet {
	cs.bits[c/64] |= 1 << (c % 64)
	return cs
}

// AddRange adds bytes lo…hi to the set.
func (cs *CharSet) AddRange(lo, hi byte) *CharSet {
	for c := int(lo); c <= int(hi); c++ {
		cs.Add(byte(c))
	}
	return cs
}

// Contains checks for membership of c.
func (cs *CharSet) Contains(c byte) bool {
	return cs.bits[c/64]&(1<<(c%64)) != 0
}

// Union adds all members of other to cs.
func (cs *CharSet) Union(other *CharSet) *CharSet {
	for i := range cs.bits {
		cs.bits[i] |= other.bits[i]
	}
	return cs
}

// Complement returns a new set containing every byte not in cs.
func (cs *CharSet) Complement() *CharSet {
	c := &CharSet{}
	for i := range cs.bits {
		c.bits[i] = ^cs.bits[i]
	}
	return c
}

// Len returns the number of members.
func (cs *CharSet) Len() int {
	n := 0
	for _, w := range cs.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty is true for a set without members.
func (cs *CharSet) IsEmpty() bool {
	return cs.bits == [4]uint64{}
}

// Each calls f for every member, in increasing order.
func (cs *CharSet) Each(f func(c byte)) {
	for c := 0; c < 256; c++ {
		if cs.Contains(byte(c)) {
			f(byte(c))
		}
	}
}

func (cs *CharSet) copy() *CharSet {
	c := *cs
	return &c
}
