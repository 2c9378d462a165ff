package cfg

import (
	"fmt"

	"github.com/npillmayer/lookahead/cfg/strset"
)

// Kind is the variant of a grammar symbol.
type Kind int8

// Symbol kinds. The zero Kind is invalid and flags a malformed symbol.
const (
	CharKind        Kind = iota + 1 // single terminal byte
	EndKind                         // end-of-input terminal
	CharSetKind                     // terminal byte class
	NonterminalKind                 // grammar variable with productions
)

func (k Kind) String() string {
	switch k {
	case CharKind:
		return "char"
	case EndKind:
		return "end"
	case CharSetKind:
		return "charset"
	case NonterminalKind:
		return "nonterminal"
	}
	return fmt.Sprintf("kind(%d)", int8(k))
}

// ReshapeFirst is the reshape action of nonterminals synthesized to wrap a
// terminal start symbol: the value of the wrapper is the value of its single item.
const ReshapeFirst = "#first"

// Symbol is a node in the graph of a context-free grammar. Symbols are compared
// by identity.
type Symbol struct {
	kind    Kind
	chr     byte        // for CharKind
	charset *CharSet    // for CharSetKind
	seqs    []*Sequence // productions of a nonterminal, in insertion order
	Reshape interface{} // opaque semantic action of a nonterminal
}

// Sequence is the right hand side of a production. An empty sequence is an
// ε-production.
type Sequence struct {
	Items []*Symbol
}

// NewChar creates a terminal for byte c.
func NewChar(c byte) *Symbol {
	return &Symbol{kind: CharKind, chr: c}
}

// NewEnd creates an end-of-input terminal.
func NewEnd() *Symbol {
	return &Symbol{kind: EndKind}
}

// NewCharSet creates a terminal for a byte class. The set is copied.
func NewCharSet(cs *CharSet) *Symbol {
	if cs == nil {
		cs = &CharSet{}
	}
	return &Symbol{kind: CharSetKind, charset: cs.copy()}
}

// NewNonterminal creates a nonterminal without productions.
// reshape is an opaque reference to a semantic action and may be nil.
func NewNonterminal(reshape interface{}) *Symbol {
	return &Symbol{kind: NonterminalKind, Reshape: reshape}
}

// AddProduction appends a production to a nonterminal. Calling it without items
// adds an ε-production. Returns the nonterminal (for chaining).
//
// Adding productions to a terminal is an invariant violation and will panic.
func (x *Symbol) AddProduction(items ...*Symbol) *Symbol {
	if x.kind != NonterminalKind {
		violation("add production", x, "symbol is not a nonterminal")
	}
	seq := &Sequence{Items: make([]*Symbol, len(items))}
	copy(seq.Items, items)
	x.seqs = append(x.seqs, seq)
	return x
}

// Kind returns the variant of x.
func (x *Symbol) Kind() Kind {
	return x.kind
}

// IsTerminal is true for chars, char sets and end-of-input.
func (x *Symbol) IsTerminal() bool {
	return x.kind == CharKind || x.kind == EndKind || x.kind == CharSetKind
}

// Char returns the byte of a char terminal.
func (x *Symbol) Char() byte {
	return x.chr
}

// CharSet returns the byte class of a char-set terminal, or nil.
func (x *Symbol) CharSet() *CharSet {
	return x.charset
}

// Productions returns the productions of a nonterminal, in insertion order.
// Clients must not modify the slice.
func (x *Symbol) Productions() []*Sequence {
	return x.seqs
}

// String is a debug Stringer. Nonterminals are not named outside of a grammar,
// use Grammar.Name for a readable form.
func (x *Symbol) String() string {
	switch x.kind {
	case CharKind:
		return `"` + escapeChar(x.chr) + `"`
	case EndKind:
		return "$"
	case CharSetKind:
		return charsetString(x.charset)
	case NonterminalKind:
		return fmt.Sprintf("<N%p|%d>", x, len(x.seqs))
	}
	return fmt.Sprintf("<invalid %s>", x.kind)
}

// Len returns the number of items in a sequence.
func (s *Sequence) Len() int {
	return len(s.Items)
}

// terminalSet returns FIRST₁ of a terminal, which is the set of its strings of length 1.
func terminalSet(x *Symbol) *strset.Set {
	S := strset.New()
	switch x.kind {
	case EndKind:
		S.PutEnd()
	case CharKind:
		S.PutChar(x.chr)
	case CharSetKind:
		x.charset.Each(func(c byte) {
			S.PutChar(c)
		})
	default:
		violation("terminal set", x, "unknown symbol kind %s", x.kind)
	}
	return S
}
