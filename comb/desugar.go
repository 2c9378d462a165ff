package comb

import (
	"errors"
	"fmt"

	"github.com/npillmayer/lookahead/cfg"
)

// ErrNotContextFree is returned for combinators which cannot be expressed by a
// context-free grammar.
var ErrNotContextFree = errors.New("combinator is not context-free")

// ErrUnbound is returned for indirections without a target.
var ErrUnbound = errors.New("unbound indirection")

// ErrIndirectCycle is returned for indirections referring to themselves without
// any intermediate parser.
var ErrIndirectCycle = errors.New("cyclic chain of indirections")

// Desugaring converts a combinator tree into grammar symbols. It implements
// cfg.Desugarer.
type Desugaring struct {
	root    Parser
	start   *cfg.Symbol
	err     error
	done    bool
	symbols map[Parser]*cfg.Symbol
}

// Desugar prepares the desugaring of a combinator tree. The conversion happens on
// the first call to (*Desugaring).Desugar.
func Desugar(root Parser) *Desugaring {
	return &Desugaring{
		root:    root,
		symbols: make(map[Parser]*cfg.Symbol),
	}
}

// Analyze desugars a combinator tree and creates a grammar from it.
func Analyze(root Parser, opts ...cfg.Option) (*cfg.Grammar, error) {
	return cfg.FromDesugarer(Desugar(root), opts...)
}

// Desugar returns the symbol for the root parser. Repeated calls return the
// same result.
func (d *Desugaring) Desugar() (*cfg.Symbol, error) {
	if d.done {
		return d.start, d.err
	}
	d.done = true
	if d.root == nil {
		d.err = errors.New("no root parser")
		return nil, d.err
	}
	d.start, d.err = d.symbol(d.root)
	if d.err != nil {
		d.start = nil
		tracer().Infof("desugaring failed: %v", d.err)
		return nil, d.err
	}
	tracer().Debugf("desugared %d parsers", len(d.symbols))
	return d.start, nil
}

// SymbolFor returns the grammar symbol of a parser, or nil if p is not part of the
// desugared tree. For indirections, the symbol of the indirection's nonterminal is
// returned.
func (d *Desugaring) SymbolFor(p Parser) *cfg.Symbol {
	return d.symbols[p]
}

// symbol returns the memoized symbol of p, desugaring p if necessary.
func (d *Desugaring) symbol(p Parser) (*cfg.Symbol, error) {
	if p == nil {
		return nil, errors.New("nil parser in combinator tree")
	}
	if sym, ok := d.symbols[p]; ok {
		return sym, nil
	}
	return p.desugar(d)
}

// nonterminal creates and registers the nonterminal for p. Registering happens
// before any child is visited, which terminates recursion through cycles.
func (d *Desugaring) nonterminal(p Parser, reshape interface{}) *cfg.Symbol {
	N := cfg.NewNonterminal(reshape)
	d.symbols[p] = N
	return N
}

func (d *Desugaring) symbolsOf(ps []Parser) ([]*cfg.Symbol, error) {
	items := make([]*cfg.Symbol, len(ps))
	for i, p := range ps {
		sym, err := d.symbol(p)
		if err != nil {
			return nil, err
		}
		items[i] = sym
	}
	return items, nil
}

func (p *chParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	sym := cfg.NewChar(p.c)
	d.symbols[p] = sym
	return sym, nil
}

func (p *setParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	sym := cfg.NewCharSet(p.cs)
	d.symbols[p] = sym
	return sym, nil
}

func (p *endParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	sym := cfg.NewEnd()
	d.symbols[p] = sym
	return sym, nil
}

// Token → "c1" "c2" …
func (p *tokenParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	N := d.nonterminal(p, nil)
	items := make([]*cfg.Symbol, len(p.str))
	for i := 0; i < len(p.str); i++ {
		items[i] = cfg.NewChar(p.str[i])
	}
	N.AddProduction(items...)
	return N, nil
}

// Epsilon → ε
func (p *epsilonParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	return d.nonterminal(p, nil).AddProduction(), nil
}

// Sequence → p1 p2 …
func (p *seqParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	N := d.nonterminal(p, nil)
	items, err := d.symbolsOf(p.ps)
	if err != nil {
		return nil, err
	}
	return N.AddProduction(items...), nil
}

// Choice → p1 | p2 | …
func (p *choiceParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	N := d.nonterminal(p, nil)
	items, err := d.symbolsOf(p.ps)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		N.AddProduction(item)
	}
	return N, nil
}

// Optional → p | ε
func (p *optionalParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	N := d.nonterminal(p, nil)
	X, err := d.symbol(p.p)
	if err != nil {
		return nil, err
	}
	return N.AddProduction(X).AddProduction(), nil
}

// Repetitions are right-recursive:
//
//    Many(p)        N → p N | ε
//    Many1(p)       N → p N | p
//    SepBy(p,s)     N → p R | ε       R → s p R | ε
//    SepBy1(p,s)    N → p R           R → s p R | ε
//
func (p *manyParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	N := d.nonterminal(p, nil)
	X, err := d.symbol(p.p)
	if err != nil {
		return nil, err
	}
	if p.sep == nil {
		N.AddProduction(X, N)
		if p.min > 0 {
			return N.AddProduction(X), nil
		}
		return N.AddProduction(), nil
	}
	S, err := d.symbol(p.sep)
	if err != nil {
		return nil, err
	}
	R := cfg.NewNonterminal(nil)
	R.AddProduction(S, X, R).AddProduction()
	N.AddProduction(X, R)
	if p.min == 0 {
		N.AddProduction()
	}
	return N, nil
}

// Action → p, carrying the reshape
func (p *actionParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	N := d.nonterminal(p, p.reshape)
	X, err := d.symbol(p.p)
	if err != nil {
		return nil, err
	}
	return N.AddProduction(X), nil
}

// Indirect → target
func (p *IndirectParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	seen := map[*IndirectParser]struct{}{p: {}}
	for t := p.target; ; {
		if t == nil {
			return nil, ErrUnbound
		}
		ind, ok := t.(*IndirectParser)
		if !ok {
			break
		}
		if _, ok := seen[ind]; ok {
			return nil, fmt.Errorf("%w: %s", ErrIndirectCycle, p)
		}
		seen[ind] = struct{}{}
		t = ind.target
	}
	N := d.nonterminal(p, nil)
	X, err := d.symbol(p.target)
	if err != nil {
		return nil, err
	}
	return N.AddProduction(X), nil
}

func (p *andParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotContextFree, p)
}

func (p *notParser) desugar(d *Desugaring) (*cfg.Symbol, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotContextFree, p)
}
