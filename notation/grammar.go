package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/npillmayer/lookahead"
	"github.com/npillmayer/lookahead/cfg"
	"github.com/npillmayer/lookahead/comb"
)

// ErrUndefinedRule is matched by errors for references to rules which are never
// defined.
var ErrUndefinedRule = errors.New("undefined rule")

// SyntaxError reports malformed grammar sources.
type SyntaxError struct {
	Pos lookahead.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Grammar is a set of named rules, read from a grammar notation.
type Grammar struct {
	Start string                          // name of the start rule
	Rules map[string]*comb.IndirectParser // rule name → parser
	Order []string                        // rule names in source order, start rule first
	text  map[string]string               // rule name → canonical right hand side

	desugaring *comb.Desugaring // of the most recent analysis
}

func newGrammar() *Grammar {
	return &Grammar{
		Rules: make(map[string]*comb.IndirectParser),
		text:  make(map[string]string),
	}
}

// rule returns the parser for a rule name, creating an unbound one if necessary.
func (G *Grammar) rule(name string) *comb.IndirectParser {
	p, ok := G.Rules[name]
	if !ok {
		p = comb.Indirect()
		G.Rules[name] = p
	}
	return p
}

// define binds the parser of a rule. A rule may be defined only once.
func (G *Grammar) define(name string, p comb.Parser, text string) error {
	if _, ok := G.text[name]; ok {
		return fmt.Errorf("rule %s defined twice", name)
	}
	G.rule(name).Bind(p)
	G.text[name] = text
	G.Order = append(G.Order, name)
	if G.Start == "" {
		G.Start = name
	}
	return nil
}

// Analyze creates a CFG for the start rule of G.
func (G *Grammar) Analyze(opts ...cfg.Option) (*cfg.Grammar, error) {
	start, ok := G.Rules[G.Start]
	if !ok {
		return nil, fmt.Errorf("%w: no start rule", cfg.ErrNotCFG)
	}
	G.desugaring = comb.Desugar(start)
	g, err := cfg.FromDesugarer(G.desugaring, opts...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("grammar for %s has %d nonterminals", G.Start, g.NonterminalCount())
	return g, nil
}

// Symbol returns the nonterminal of a rule, as created by the most recent call
// to Analyze. It returns nil for unknown rules or if G has not been analyzed.
func (G *Grammar) Symbol(name string) *cfg.Symbol {
	if G.desugaring == nil {
		return nil
	}
	p, ok := G.Rules[name]
	if !ok {
		return nil
	}
	return G.desugaring.SymbolFor(p)
}

// Text returns the canonical form of the right hand side of a rule.
func (G *Grammar) Text(name string) string {
	return G.text[name]
}

// String returns the rules of G in canonical BNF form, one per line.
func (G *Grammar) String() string {
	var b strings.Builder
	for _, name := range G.Order {
		fmt.Fprintf(&b, "%s -> %s ;\n", name, G.text[name])
	}
	return b.String()
}

type ruleHash struct {
	Name string
	Text string
}

type grammarHash struct {
	Start string
	Rules []ruleHash
}

// Fingerprint returns a hash of the canonical form of G. Grammars differing only
// in layout or comments have the same fingerprint.
func (G *Grammar) Fingerprint() (string, error) {
	h := grammarHash{Start: G.Start}
	for _, name := range G.Order {
		h.Rules = append(h.Rules, ruleHash{Name: name, Text: G.text[name]})
	}
	return structhash.Hash(h, 1)
}

// checkReferences reports the first reference to a rule which is never defined.
func (G *Grammar) checkReferences(refs map[string]lookahead.Position, order []string) error {
	for _, name := range order {
		if _, ok := G.text[name]; !ok {
			return fmt.Errorf("%s: %w %s", refs[name], ErrUndefinedRule, name)
		}
	}
	return nil
}
