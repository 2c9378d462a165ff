/*
Package strset implements sets of bounded-length strings as byte-indexed tries.

Strings are made of bytes and may be terminated by a distinguished end-of-input
symbol (written as '$' in debug output). The empty string ε is a member like any
other. Sets of this kind are the results of FIRSTₖ and FOLLOWₖ computations.

A node of the trie is a Set. Membership of a string is tested by walking one byte
at a time through the branches of a node: the epsilon-flag of a node marks an exact
match, the end-flag marks a match where the next symbol is end-of-input. Nothing
may follow end-of-input.

   S := strset.New()
   S.Insert([]byte("a"), false)   // add "a"
   S.Insert([]byte("bc"), true)   // add "bc$"
   S.Contains([]byte("bc"), true) // => true
   S.String()                     // => {a,bc$}

Sets are not safe for concurrent modification.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package strset

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// Set is a node of a string trie, representing a set of strings.
// The zero value is not usable, create sets with New.
type Set struct {
	epsilon  bool         // ε is a member
	end      bool         // "$" is a member
	children *treemap.Map // byte (as int) → *Set, ordered by byte value
}

// New creates an empty set.
func New() *Set {
	return &Set{
		children: treemap.NewWith(utils.IntComparator),
	}
}

// Epsilon creates the set {ε}.
func Epsilon() *Set {
	s := New()
	s.epsilon = true
	return s
}

// PutEpsilon adds the empty string to s.
func (s *Set) PutEpsilon() {
	s.epsilon = true
}

// PutEnd adds the string consisting of end-of-input only.
func (s *Set) PutEnd() {
	s.end = true
}

// PutChar adds the one-character string c.
func (s *Set) PutChar(c byte) {
	s.ChildOrNew(c).epsilon = true
}

// HasEpsilon is true if ε is a member of s.
func (s *Set) HasEpsilon() bool {
	return s.epsilon
}

// HasEnd is true if the end-of-input string is a member of s.
func (s *Set) HasEnd() bool {
	return s.end
}

// Child returns the branch for byte c, i.e. the set { w | cw ∈ s }, or nil.
func (s *Set) Child(c byte) *Set {
	v, found := s.children.Get(int(c))
	if !found {
		return nil
	}
	return v.(*Set)
}

// ChildOrNew returns the branch for byte c, creating an empty one if necessary.
func (s *Set) ChildOrNew(c byte) *Set {
	if child := s.Child(c); child != nil {
		return child
	}
	child := New()
	s.children.Put(int(c), child)
	return child
}

// Branches returns a snapshot of the branches of s, ordered by byte value.
// Modifying s afterwards does not alter the returned slices, which makes it
// safe to extend s while iterating over a former state.
func (s *Set) Branches() ([]byte, []*Set) {
	keys := s.children.Keys()
	values := s.children.Values()
	chars := make([]byte, len(keys))
	nodes := make([]*Set, len(values))
	for i := range keys {
		chars[i] = byte(keys[i].(int))
		nodes[i] = values[i].(*Set)
	}
	return chars, nodes
}

// Update adds all members of n to s (set union, in place).
// s and n do not share nodes afterwards.
func (s *Set) Update(n *Set) {
	if s == n || n == nil {
		return
	}
	if n.epsilon {
		s.epsilon = true
	}
	if n.end {
		s.end = true
	}
	chars, nodes := n.Branches()
	for i, c := range chars {
		s.ChildOrNew(c).Update(nodes[i])
	}
}

// Insert adds a single string to s. If end is true, the string is
// terminated by end-of-input.
func (s *Set) Insert(str []byte, end bool) {
	node := s
	for _, c := range str {
		node = node.ChildOrNew(c)
	}
	if end {
		node.end = true
	} else {
		node.epsilon = true
	}
}

// Contains checks if a string is a member of s. If end is true, the string
// checked for is str followed by end-of-input.
func (s *Set) Contains(str []byte, end bool) bool {
	node := s
	for _, c := range str {
		if node = node.Child(c); node == nil {
			return false
		}
	}
	if end {
		return node.end
	}
	return node.epsilon
}

// IsEmpty is true if s has no members.
func (s *Set) IsEmpty() bool {
	if s.epsilon || s.end {
		return false
	}
	_, nodes := s.Branches()
	for _, n := range nodes {
		if !n.IsEmpty() {
			return false
		}
	}
	return true
}

// IsSingletonEpsilon is true if s = {ε}.
func (s *Set) IsSingletonEpsilon() bool {
	if !s.epsilon || s.end {
		return false
	}
	_, nodes := s.Branches()
	for _, n := range nodes {
		if !n.IsEmpty() {
			return false
		}
	}
	return true
}

// AnyShorter is true if s contains a string of length less than k.
// Strings terminated by end-of-input are considered to be of full length.
func (s *Set) AnyShorter(k int) bool {
	if k <= 0 {
		return false
	}
	if s.epsilon {
		return true
	}
	_, nodes := s.Branches()
	for _, n := range nodes {
		if n.AnyShorter(k - 1) {
			return true
		}
	}
	return false
}

// Each calls f for every member of s, in a stable order: ε before "$",
// then branches ordered by byte value. f must not keep str, it will be re-used.
func (s *Set) Each(f func(str []byte, end bool)) {
	s.each(make([]byte, 0, 8), f)
}

func (s *Set) each(prefix []byte, f func([]byte, bool)) {
	if s.epsilon {
		f(prefix, false)
	}
	if s.end {
		f(prefix, true)
	}
	chars, nodes := s.Branches()
	for i, c := range chars {
		nodes[i].each(append(prefix, c), f)
	}
}

// Member is a string in a Set, optionally terminated by end-of-input.
type Member struct {
	Str []byte
	End bool
}

func (m Member) String() string {
	var b bytes.Buffer
	writeMember(&b, m.Str, m.End)
	return b.String()
}

// Members returns all members of s in the order of Each.
func (s *Set) Members() []Member {
	var m []Member
	s.Each(func(str []byte, end bool) {
		m = append(m, Member{Str: append([]byte(nil), str...), End: end})
	})
	return m
}

// Len returns the number of members of s.
func (s *Set) Len() int {
	n := 0
	s.Each(func([]byte, bool) { n++ })
	return n
}

// Equal compares the members of two sets.
func (s *Set) Equal(o *Set) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	m1, m2 := s.Members(), o.Members()
	if len(m1) != len(m2) {
		return false
	}
	for i := range m1 {
		if m1[i].End != m2[i].End || !bytes.Equal(m1[i].Str, m2[i].Str) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	c := New()
	c.Update(s)
	return c
}

// String returns a debug representation like {'',a,bc$}.
// '' denotes ε, a trailing $ denotes end-of-input.
func (s *Set) String() string {
	var b bytes.Buffer
	b.WriteByte('{')
	first := true
	s.Each(func(str []byte, end bool) {
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeMember(&b, str, end)
	})
	b.WriteByte('}')
	return b.String()
}

func writeMember(b *bytes.Buffer, str []byte, end bool) {
	if len(str) == 0 && !end {
		b.WriteString("''")
		return
	}
	for _, c := range str {
		b.WriteString(EscapeChar(c))
	}
	if end {
		b.WriteByte('$')
	}
}

// EscapeChar renders a byte for string-set output. '$' is escaped as it
// denotes end-of-input.
func EscapeChar(c byte) string {
	switch c {
	case '$':
		return `\$`
	case '"':
		return `\"`
	case '\\':
		return `\\`
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	}
	if c >= 0x20 && c < 0x7f {
		return string(rune(c))
	}
	return fmt.Sprintf(`\x%.2X`, c)
}
