/*
Package cfg implements context-free grammars and their static lookahead analysis.

Building a Grammar

Grammars are graphs of symbols. Terminals are single bytes, byte classes or the
end-of-input marker; nonterminals carry an ordered list of productions, each
being a sequence of symbols. Symbols are identified by pointer, so cycles
(left- or right-recursive rules) are fine.

Example:

    S := cfg.NewNonterminal(nil)
    a, b := cfg.NewChar('a'), cfg.NewChar('b')
    S.AddProduction(a, S, a)      // S  ->  "a" S "a"
    S.AddProduction(b)            // S  |   "b"
    g, err := cfg.New(S)

Usually symbol graphs are not built by hand, but are the result of desugaring a
parser-combinator description (see package comb) or a textual grammar (see
package notation). Desugaring steps implement interface Desugarer and may be
handed to FromDesugarer. Failing desugaring is reported as ErrNotCFG.

Constructing a grammar discovers and numbers all nonterminals reachable from
the start symbol (the start symbol is number 0) and determines which of them
derive the empty string.

Static Grammar Analysis

FIRSTₖ and FOLLOWₖ sets are computed on demand and memoized within the
grammar. Results are sets of strings of length ≤ k, represented as tries
(see package strset), and may contain ε and the end-of-input marker '$'.

    F, err := g.First(1, S)        // {a,b}
    L, err := g.Follow(1, S)       // {$,a}

Lookahead depths beyond a configurable ceiling are rejected with an error
matching ErrUnsupportedK. The ceiling defaults to 1 and may be lifted with
option WithMaxLookahead.

Sets returned by the analysis are owned by the grammar and must not be
modified by clients.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cfg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lookahead.cfg'.
func tracer() tracing.Trace {
	return tracing.Select("lookahead.cfg")
}
