/*
Package notation reads textual grammar descriptions and turns them into combinator
descriptions (see package comb), ready for lookahead analysis.

Two notations are supported. The first one is a small BNF dialect:

    # comments run to the end of the line
    Expr   -> Term ( '+' Term )* ;
    Term   -> [0-9]+ | "(" Expr ")" ;

Rules have the form Name -> alternatives ; where alternatives are separated by
'|'. Items may be names of rules, "strings", 'c'haracters, character classes
like [a-z] or [^"], the end-of-input marker $, and groups ( … ). Items may be
followed by one of the repetition operators * + ?. The empty string is written
as "". Prefixes & and ! denote lookahead predicates, which are accepted by the
parser but have no context-free counterpart: analyzing a grammar using them
will fail with cfg.ErrNotCFG. The first rule is the start rule.

The second notation is EBNF as defined by package golang.org/x/exp/ebnf:

    Expr   = Term { "+" Term } .
    Term   = digit { digit } | "(" Expr ")" .
    digit  = "0" … "9" .

Both front ends produce a Grammar, which may be analyzed:

    G, err := notation.ParseBNF(src)
    g, err := G.Analyze(cfg.WithMaxLookahead(2))
    first, err := g.First(2, G.Symbol("Expr"))

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package notation

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lookahead.notation'.
func tracer() tracing.Trace {
	return tracing.Select("lookahead.notation")
}
