/*
Package lookahead is a toolbox for static lookahead analysis of context-free
grammars.

Grammars usually originate from a parser-combinator description. After
desugaring, the combinator tree is converted into an explicit CFG, and FIRSTₖ and
FOLLOWₖ sets are computed for its symbols. Parsing backends use these sets to decide,
at each choice point, which alternative to take by inspecting the next k input
symbols. Package structure is as follows:

■ cfg: Package cfg implements the grammar model and the analysis engine, i.e.
nonterminal discovery, the epsilon-derivability fixpoint and FIRSTₖ/FOLLOWₖ.

■ cfg/strset: Package strset implements tries for sets of bounded-length strings.

■ comb: Package comb implements a small set of parser combinators and their
desugaring into CFG symbols.

■ notation: Package notation reads grammars written in BNF or in Go-style EBNF.

■ scanner: Package scanner defines an interface for scanners, with an adapter for
lexmachine in sub-package lexmach.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lookahead
