/*
Package comb provides a small set of parser combinators, together with a desugaring
step which converts a combinator description into a context-free grammar.

Combinators are not executed: package comb does not parse input. A combinator tree
is a description of a language, and clients use it to obtain lookahead information
for each choice point (see package cfg).

    expr := comb.Indirect()
    atom := comb.Choice(comb.Range('0', '9'), comb.Sequence(comb.Ch('('), expr, comb.Ch(')')))
    expr.Bind(comb.SepBy1(atom, comb.Ch('+')))
    g, err := comb.Analyze(expr)

Desugaring maps every combinator to a grammar symbol, where terminal parsers become
terminal symbols and everything else becomes a nonterminal. The mapping is kept by
the Desugaring and may be queried with SymbolFor. Combinators without a context-free
counterpart (lookahead predicates And and Not) make desugaring fail with
ErrNotContextFree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package comb

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lookahead.comb'.
func tracer() tracing.Trace {
	return tracing.Select("lookahead.comb")
}
