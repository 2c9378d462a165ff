package comb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/lookahead/cfg"
)

// Parser is a combinator. Parsers are compared by identity: using the same parser
// twice in a description refers to the same grammar symbol.
type Parser interface {
	fmt.Stringer
	desugar(d *Desugaring) (*cfg.Symbol, error)
}

// --- Terminals -------------------------------------------------------------

type chParser struct {
	c byte
}

// Ch matches a single byte c.
func Ch(c byte) Parser {
	return &chParser{c: c}
}

func (p *chParser) String() string {
	return strconv.QuoteRune(rune(p.c))
}

type setParser struct {
	cs *cfg.CharSet
}

// In matches any of the bytes in chars.
func In(chars ...byte) Parser {
	return &setParser{cs: cfg.Chars(chars...)}
}

// NotIn matches any byte except the ones in chars.
func NotIn(chars ...byte) Parser {
	return &setParser{cs: cfg.Chars(chars...).Complement()}
}

// Range matches a byte in lo…hi.
func Range(lo, hi byte) Parser {
	return &setParser{cs: cfg.CharRange(lo, hi)}
}

// Class matches any byte of a char set. The set is copied.
func Class(cs *cfg.CharSet) Parser {
	return &setParser{cs: cfg.Chars().Union(cs)}
}

func (p *setParser) String() string {
	return cfg.NewCharSet(p.cs).String()
}

type endParser struct{}

// End matches end-of-input.
func End() Parser {
	return &endParser{}
}

func (p *endParser) String() string {
	return "$"
}

// --- Compound parsers ------------------------------------------------------

type tokenParser struct {
	str string
}

// Token matches a literal string. The empty token matches ε.
func Token(str string) Parser {
	return &tokenParser{str: str}
}

func (p *tokenParser) String() string {
	return strconv.Quote(p.str)
}

type epsilonParser struct{}

// Epsilon matches the empty string.
func Epsilon() Parser {
	return &epsilonParser{}
}

func (p *epsilonParser) String() string {
	return "ε"
}

type seqParser struct {
	ps []Parser
}

// Sequence matches ps one after the other.
func Sequence(ps ...Parser) Parser {
	return &seqParser{ps: ps}
}

func (p *seqParser) String() string {
	return "(" + join(p.ps, " ") + ")"
}

type choiceParser struct {
	ps []Parser
}

// Choice matches one of ps.
func Choice(ps ...Parser) Parser {
	return &choiceParser{ps: ps}
}

func (p *choiceParser) String() string {
	return "(" + join(p.ps, " | ") + ")"
}

type optionalParser struct {
	p Parser
}

// Optional matches p or ε.
func Optional(p Parser) Parser {
	return &optionalParser{p: p}
}

func (p *optionalParser) String() string {
	return p.p.String() + "?"
}

type manyParser struct {
	p   Parser
	sep Parser // may be nil
	min int    // 0 or 1
}

// Many matches zero or more repetitions of p.
func Many(p Parser) Parser {
	return &manyParser{p: p}
}

// Many1 matches one or more repetitions of p.
func Many1(p Parser) Parser {
	return &manyParser{p: p, min: 1}
}

// SepBy matches zero or more repetitions of p, separated by sep.
func SepBy(p, sep Parser) Parser {
	return &manyParser{p: p, sep: sep}
}

// SepBy1 matches one or more repetitions of p, separated by sep.
func SepBy1(p, sep Parser) Parser {
	return &manyParser{p: p, sep: sep, min: 1}
}

func (p *manyParser) String() string {
	op := "*"
	if p.min > 0 {
		op = "+"
	}
	if p.sep == nil {
		return p.p.String() + op
	}
	return fmt.Sprintf("sepBy%s(%s, %s)", op, p.p, p.sep)
}

type actionParser struct {
	p       Parser
	reshape interface{}
}

// Action attaches a semantic action to p. The action is opaque to the grammar
// analysis and is carried as the Reshape of p's nonterminal.
func Action(p Parser, reshape interface{}) Parser {
	return &actionParser{p: p, reshape: reshape}
}

func (p *actionParser) String() string {
	return fmt.Sprintf("action(%s)", p.p)
}

// IndirectParser is a placeholder for a parser which is defined later. It is
// used to create recursive descriptions.
type IndirectParser struct {
	target Parser
}

// Indirect creates an unbound indirection. Call Bind before desugaring.
func Indirect() *IndirectParser {
	return &IndirectParser{}
}

// Bind sets the parser an indirection refers to. Re-binding replaces a former target.
func (p *IndirectParser) Bind(target Parser) {
	p.target = target
}

func (p *IndirectParser) String() string {
	if p.target == nil {
		return "indirect(?)"
	}
	return fmt.Sprintf("indirect@%p", p)
}

// --- Predicates ------------------------------------------------------------

type andParser struct {
	p Parser
}

// And is a positive lookahead predicate. It has no CFG counterpart.
func And(p Parser) Parser {
	return &andParser{p: p}
}

func (p *andParser) String() string {
	return "&" + p.p.String()
}

type notParser struct {
	p Parser
}

// Not is a negative lookahead predicate. It has no CFG counterpart.
func Not(p Parser) Parser {
	return &notParser{p: p}
}

func (p *notParser) String() string {
	return "!" + p.p.String()
}

func join(ps []Parser, sep string) string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = p.String()
	}
	return strings.Join(s, sep)
}
