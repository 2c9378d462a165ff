package notation

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/lookahead"
	"github.com/npillmayer/lookahead/cfg"
	"github.com/npillmayer/lookahead/comb"
	"github.com/npillmayer/lookahead/scanner"
	"github.com/npillmayer/lookahead/scanner/lexmach"
	"github.com/timtadh/lexmachine"
)

// Token types of the BNF lexer.
const (
	tokName = iota + 10
	tokString
	tokChar
	tokClass
	tokLiteral // first literal, others follow in the order of bnfLiterals
)

var bnfLiterals = []string{"->", "::=", "|", ";", "(", ")", "*", "+", "?", "&", "!", "$"}

var bnfLexer struct {
	once    sync.Once
	adapter *lexmach.LMAdapter
	err     error
}

var bnfTokenIds = func() map[string]int {
	ids := map[string]int{
		"NAME":   tokName,
		"STRING": tokString,
		"CHAR":   tokChar,
		"CLASS":  tokClass,
	}
	for i, lit := range bnfLiterals {
		ids[lit] = tokLiteral + i
	}
	return ids
}()

// lexer returns the shared BNF lexer, compiling its DFA on first use.
func lexer() (*lexmach.LMAdapter, error) {
	bnfLexer.once.Do(func() {
		init := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`#[^\n]*`), lexmach.Skip)
			lexer.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
			lexer.Add([]byte(`[A-Za-z_][A-Za-z0-9_]*`), lexmach.MakeToken("NAME", tokName))
			lexer.Add([]byte(`"([^"\\]|\\.)*"`), lexmach.MakeToken("STRING", tokString))
			lexer.Add([]byte(`'([^'\\]|\\.)+'`), lexmach.MakeToken("CHAR", tokChar))
			lexer.Add([]byte(`\[([^\]\\]|\\.)*\]`), lexmach.MakeToken("CLASS", tokClass))
		}
		bnfLexer.adapter, bnfLexer.err = lexmach.NewLMAdapter(init, bnfLiterals, nil, bnfTokenIds)
	})
	return bnfLexer.adapter, bnfLexer.err
}

// ParseBNF reads a grammar in BNF notation (see package documentation).
// The first rule is the start rule.
func ParseBNF(src string) (*Grammar, error) {
	lm, err := lexer()
	if err != nil {
		return nil, err
	}
	sc, err := lm.Scanner(src)
	if err != nil {
		return nil, err
	}
	p := &bnfParser{
		sc:   sc,
		G:    newGrammar(),
		refs: make(map[string]lookahead.Position),
	}
	sc.SetErrorHandler(func(e error) {
		if p.err == nil {
			p.err = e
		}
	})
	p.next()
	if err := p.parse(); err != nil {
		tracer().Infof("BNF syntax error: %v", err)
		return nil, err
	}
	if err := p.G.checkReferences(p.refs, p.refOrder); err != nil {
		return nil, err
	}
	return p.G, nil
}

type bnfParser struct {
	sc       *lexmach.LMScanner
	tok      scanner.Token
	G        *Grammar
	refs     map[string]lookahead.Position // first reference of each rule name
	refOrder []string
	err      error // first scanner error
}

func (p *bnfParser) next() {
	p.tok = p.sc.NextToken()
}

func (p *bnfParser) is(lit string) bool {
	return int(p.tok.TokType()) == bnfTokenIds[lit]
}

func (p *bnfParser) errorf(format string, args ...interface{}) error {
	if p.err != nil {
		return p.err
	}
	return &SyntaxError{Pos: p.tok.Position(), Msg: fmt.Sprintf(format, args...)}
}

func (p *bnfParser) describe() string {
	if p.tok.TokType() == scanner.EOF {
		return "end of input"
	}
	return strconv.Quote(p.tok.Lexeme())
}

// grammar := rule { rule }
func (p *bnfParser) parse() error {
	if p.tok.TokType() == scanner.EOF {
		return p.errorf("empty grammar")
	}
	for p.tok.TokType() != scanner.EOF {
		if err := p.rule(); err != nil {
			return err
		}
	}
	return p.err
}

// rule := NAME ( "->" | "::=" ) alternatives ";"
func (p *bnfParser) rule() error {
	if p.tok.TokType() != tokName {
		return p.errorf("expected rule name, found %s", p.describe())
	}
	name := p.tok.Lexeme()
	p.next()
	if !p.is("->") && !p.is("::=") {
		return p.errorf("expected -> after %s, found %s", name, p.describe())
	}
	p.next()
	parser, text, err := p.alternatives()
	if err != nil {
		return err
	}
	if !p.is(";") {
		return p.errorf("expected ; at end of rule %s, found %s", name, p.describe())
	}
	p.next()
	if err := p.G.define(name, parser, text); err != nil {
		return p.errorf("%v", err)
	}
	return nil
}

// alternatives := sequence { "|" sequence }
func (p *bnfParser) alternatives() (comb.Parser, string, error) {
	var ps []comb.Parser
	var texts []string
	for {
		seq, text, err := p.sequence()
		if err != nil {
			return nil, "", err
		}
		ps = append(ps, seq)
		texts = append(texts, text)
		if !p.is("|") {
			break
		}
		p.next()
	}
	if len(ps) == 1 {
		return ps[0], texts[0], nil
	}
	return comb.Choice(ps...), strings.Join(texts, " | "), nil
}

// sequence := { item }
func (p *bnfParser) sequence() (comb.Parser, string, error) {
	var ps []comb.Parser
	var texts []string
	for !p.is("|") && !p.is(";") && !p.is(")") && p.tok.TokType() != scanner.EOF {
		item, text, err := p.item()
		if err != nil {
			return nil, "", err
		}
		ps = append(ps, item)
		texts = append(texts, text)
	}
	switch len(ps) {
	case 0:
		return comb.Epsilon(), `""`, nil
	case 1:
		return ps[0], texts[0], nil
	}
	return comb.Sequence(ps...), strings.Join(texts, " "), nil
}

// item := [ "&" | "!" ] primary { "*" | "+" | "?" }
func (p *bnfParser) item() (comb.Parser, string, error) {
	var prefix string
	if p.is("&") || p.is("!") {
		prefix = p.tok.Lexeme()
		p.next()
	}
	item, text, err := p.primary()
	if err != nil {
		return nil, "", err
	}
	for {
		switch {
		case p.is("*"):
			item, text = comb.Many(item), text+"*"
		case p.is("+"):
			item, text = comb.Many1(item), text+"+"
		case p.is("?"):
			item, text = comb.Optional(item), text+"?"
		default:
			switch prefix {
			case "&":
				return comb.And(item), "&" + text, nil
			case "!":
				return comb.Not(item), "!" + text, nil
			}
			return item, text, nil
		}
		p.next()
	}
}

// primary := NAME | STRING | CHAR | CLASS | "$" | "(" alternatives ")"
func (p *bnfParser) primary() (comb.Parser, string, error) {
	tok := p.tok
	switch {
	case tok.TokType() == tokName:
		name := tok.Lexeme()
		if _, ok := p.refs[name]; !ok {
			p.refs[name] = tok.Position()
			p.refOrder = append(p.refOrder, name)
		}
		p.next()
		return p.G.rule(name), name, nil
	case tok.TokType() == tokString:
		s, err := strconv.Unquote(tok.Lexeme())
		if err != nil {
			return nil, "", p.errorf("malformed string %s", tok.Lexeme())
		}
		p.next()
		if len(s) == 1 {
			return comb.Ch(s[0]), strconv.Quote(s), nil
		}
		return comb.Token(s), strconv.Quote(s), nil
	case tok.TokType() == tokChar:
		c, err := unquoteChar(tok.Lexeme())
		if err != nil {
			return nil, "", p.errorf("%v", err)
		}
		p.next()
		return comb.Ch(c), strconv.Quote(string([]byte{c})), nil
	case tok.TokType() == tokClass:
		cs, err := parseClass(tok.Lexeme())
		if err != nil {
			return nil, "", p.errorf("%v", err)
		}
		p.next()
		return comb.Class(cs), cfg.NewCharSet(cs).String(), nil
	case p.is("$"):
		p.next()
		return comb.End(), "$", nil
	case p.is("("):
		p.next()
		alt, text, err := p.alternatives()
		if err != nil {
			return nil, "", err
		}
		if !p.is(")") {
			return nil, "", p.errorf("expected ), found %s", p.describe())
		}
		p.next()
		return alt, "(" + text + ")", nil
	}
	return nil, "", p.errorf("unexpected %s", p.describe())
}

// unquoteChar reads a single byte from a character literal 'c'.
func unquoteChar(lit string) (byte, error) {
	body := lit[1 : len(lit)-1]
	v, _, tail, err := strconv.UnquoteChar(body, '\'')
	if err != nil || tail != "" {
		return 0, fmt.Errorf("malformed character %s", lit)
	}
	if v > 0xff {
		return 0, fmt.Errorf("character %s is not a byte", lit)
	}
	return byte(v), nil
}

// parseClass reads a character class [a-z_] or [^"].
func parseClass(lit string) (*cfg.CharSet, error) {
	body := lit[1 : len(lit)-1]
	negate := strings.HasPrefix(body, "^")
	if negate {
		body = body[1:]
	}
	cs := cfg.Chars()
	for len(body) > 0 {
		lo, rest, err := classChar(body)
		if err != nil {
			return nil, fmt.Errorf("%v in class %s", err, lit)
		}
		body = rest
		if len(body) > 1 && body[0] == '-' {
			hi, rest, err := classChar(body[1:])
			if err != nil {
				return nil, fmt.Errorf("%v in class %s", err, lit)
			}
			if hi < lo {
				return nil, fmt.Errorf("empty range in class %s", lit)
			}
			cs.AddRange(lo, hi)
			body = rest
			continue
		}
		cs.Add(lo)
	}
	if negate {
		return cs.Complement(), nil
	}
	return cs, nil
}

func classChar(s string) (byte, string, error) {
	if s[0] != '\\' {
		return s[0], s[1:], nil
	}
	if len(s) < 2 {
		return 0, "", fmt.Errorf("dangling escape")
	}
	switch s[1] {
	case ']', '-', '^', '\\', '"', '\'':
		return s[1], s[2:], nil
	}
	v, _, tail, err := strconv.UnquoteChar(s, 0)
	if err != nil || v > 0xff {
		return 0, "", fmt.Errorf("malformed escape %q", s[:2])
	}
	return byte(v), tail, nil
}
