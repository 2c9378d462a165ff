/*
Command lookahead provides an interactive command line tool for the lookahead
analysis of context-free grammars.

Grammars are read from files in BNF (suffix .bnf) or EBNF (suffix .ebnf)
notation, see package notation. After loading a grammar, users may query
epsilon-derivability, FIRSTₖ and FOLLOWₖ sets of its rules:

    lookahead --maxk 2 expr.bnf
    la> rules
    la> first 2 Expr
    la> follow 1 Term
    la> table 1
    la> tree 2 Expr

Flags:

    --trace   trace level [Debug|Info|Error]
    --config  configuration file in TOML format
    --maxk    maximum lookahead depth
    --init    file with commands to execute on startup

A configuration file may contain the keys trace, maxk, prompt and start (the
start rule for EBNF grammars). Flags given on the command line take precedence.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lookahead.cli'
func tracer() tracing.Trace {
	return tracing.Select("lookahead.cli")
}

// traceKeys are the trace keys of the packages of this module.
var traceKeys = []string{
	"lookahead.cli",
	"lookahead.cfg",
	"lookahead.comb",
	"lookahead.notation",
	"lookahead.scanner",
}
