package cfg

import (
	"fmt"
	"sync"

	"github.com/npillmayer/lookahead/cfg/strset"
)

// DefaultMaxLookahead is the default ceiling for k in FIRSTₖ/FOLLOWₖ.
const DefaultMaxLookahead = 1

// Desugarer is a type for converting a grammar description (e.g., a tree of
// parser combinators) into a root symbol. Desugar returns an error if the
// description has no CFG form.
type Desugarer interface {
	Desugar() (*Symbol, error)
}

// Option configures a grammar.
type Option func(*Grammar)

// WithMaxLookahead sets the ceiling for lookahead depths k. Requests for
// FIRSTₖ or FOLLOWₖ with k > max will fail with ErrUnsupportedK.
func WithMaxLookahead(max int) Option {
	return func(g *Grammar) {
		g.kceiling = max
	}
}

// Grammar is a context-free grammar, together with memoized analysis results.
// All symbols reachable from the start symbol belong to the grammar.
//
// A Grammar may be shared between goroutines. Memo tables are guarded by a
// mutex, which serializes lookahead computations.
type Grammar struct {
	mu       sync.Mutex
	start    *Symbol                   // start symbol, always a nonterminal
	nts      []*Symbol                 // nonterminals, indexed by ID
	ntIDs    map[*Symbol]int           // nonterminal → ID
	geneps   map[*Symbol]struct{}      // nonterminals deriving ε
	first    []map[*Symbol]*strset.Set // FIRSTₖ tables, index k
	follow   []map[*Symbol]*strset.Set // FOLLOWₖ tables, index k
	kmax     int                       // highest k with tables allocated
	kceiling int                       // highest k supported
	epsilon  *strset.Set               // {ε}, shared by all k=0 results
}

var exists = struct{}{}

// New creates a grammar for a start symbol. All nonterminals reachable from root
// are collected and numbered, with root getting ID 0. If root is a terminal, it is
// wrapped into a nonterminal with a single production.
//
// Malformed symbol graphs (e.g., nil items within a production) will panic with
// an *InvariantError.
func New(root *Symbol, opts ...Option) (*Grammar, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: no start symbol", ErrNotCFG)
	}
	g := &Grammar{
		ntIDs:    make(map[*Symbol]int),
		kceiling: DefaultMaxLookahead,
		epsilon:  strset.Epsilon(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.collectNonterminals(root)
	if len(g.nts) == 0 { // root is a terminal
		nt := NewNonterminal(ReshapeFirst)
		nt.AddProduction(root)
		g.addNonterminal(nt)
		g.start = nt
	} else {
		g.start = root
	}
	tracer().Debugf("grammar has %d nonterminals", len(g.nts))
	g.collectGeneps(nil)
	return g, nil
}

// FromDesugarer creates a grammar from a desugaring step. If desugaring fails,
// the error returned wraps ErrNotCFG as well as the cause.
func FromDesugarer(d Desugarer, opts ...Option) (*Grammar, error) {
	root, err := d.Desugar()
	if err != nil {
		tracer().Infof("grammar construction failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrNotCFG, err)
	}
	return New(root, opts...)
}

// Add all nonterminals reachable from symbol x, in depth-first order.
func (g *Grammar) collectNonterminals(x *Symbol) {
	if x == nil {
		violation("nonterminal discovery", nil, "nil item in production")
	}
	if _, ok := g.ntIDs[x]; ok {
		return // already visited
	}
	switch x.kind {
	case CharKind, EndKind, CharSetKind:
		// terminals are not collected
	case NonterminalKind:
		g.addNonterminal(x)
		for _, seq := range x.seqs {
			if seq == nil {
				violation("nonterminal discovery", x, "nil production")
			}
			for _, item := range seq.Items {
				g.collectNonterminals(item)
			}
		}
	default:
		violation("nonterminal discovery", x, "unknown symbol kind %s", x.kind)
	}
}

func (g *Grammar) addNonterminal(x *Symbol) {
	g.ntIDs[x] = len(g.nts)
	g.nts = append(g.nts, x)
}

// Start returns the start symbol, which is always a nonterminal.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// NonterminalCount returns the number of nonterminals of the grammar.
func (g *Grammar) NonterminalCount() int {
	return len(g.nts)
}

// ID returns the number of a nonterminal, or false if x is not a nonterminal
// of g.
func (g *Grammar) ID(x *Symbol) (int, bool) {
	id, ok := g.ntIDs[x]
	return id, ok
}

// Nonterminal returns the nonterminal with a given ID, or nil.
func (g *Grammar) Nonterminal(id int) *Symbol {
	if id < 0 || id >= len(g.nts) {
		return nil
	}
	return g.nts[id]
}

// Nonterminals returns all nonterminals, ordered by ID.
func (g *Grammar) Nonterminals() []*Symbol {
	nts := make([]*Symbol, len(g.nts))
	copy(nts, g.nts)
	return nts
}

// EachNonterminal calls f for every nonterminal, ordered by ID.
func (g *Grammar) EachNonterminal(f func(id int, A *Symbol)) {
	for id, A := range g.nts {
		f(id, A)
	}
}

// MaxLookahead returns the ceiling for k.
func (g *Grammar) MaxLookahead() int {
	return g.kceiling
}

// --- Lookahead tables ------------------------------------------------------

func (g *Grammar) checkK(k int) error {
	if k < 0 || k > g.kceiling {
		return &KError{K: k, Max: g.kceiling}
	}
	return nil
}

// ensureK allocates FIRST/FOLLOW tables up to k. Existing tables are kept.
// Tables for k=0 are allocated but unused, so that indices correspond to k.
func (g *Grammar) ensureK(k int) {
	for g.first == nil || g.kmax < k {
		g.first = append(g.first, make(map[*Symbol]*strset.Set))
		g.follow = append(g.follow, make(map[*Symbol]*strset.Set))
		g.kmax = len(g.first) - 1
	}
}

// First returns FIRSTₖ(x), the set of strings of length ≤ k which are prefixes
// of strings derivable from x. Strings may end with end-of-input.
//
// The set returned is owned by g and must not be modified.
func (g *Grammar) First(k int, x *Symbol) (*strset.Set, error) {
	if err := g.checkK(k); err != nil {
		return nil, err
	}
	if x == nil {
		violation("FIRST", nil, "nil symbol")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.firstOf(k, x), nil
}

// FirstSeq returns FIRSTₖ of a sequence of symbols. For the empty sequence the
// result is {ε}.
//
// The set returned is owned by g and must not be modified.
func (g *Grammar) FirstSeq(k int, items []*Symbol) (*strset.Set, error) {
	if err := g.checkK(k); err != nil {
		return nil, err
	}
	for _, x := range items {
		if x == nil {
			violation("FIRST", nil, "nil item in sequence")
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.firstSeq(k, items), nil
}

// Follow returns FOLLOWₖ(x), the set of strings of length ≤ k which may
// immediately follow x in a derivation from the start symbol.
//
// The set returned is owned by g and must not be modified.
func (g *Grammar) Follow(k int, x *Symbol) (*strset.Set, error) {
	if err := g.checkK(k); err != nil {
		return nil, err
	}
	if x == nil {
		violation("FOLLOW", nil, "nil symbol")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.followOf(k, x), nil
}
