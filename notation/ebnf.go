package notation

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/lookahead/comb"
	"golang.org/x/exp/ebnf"
)

// ParseEBNF reads a grammar in EBNF notation, as defined by package
// golang.org/x/exp/ebnf, and verifies it for start rule start. name is used
// for error messages.
//
// As EBNF grammars are unordered, rules are ordered by name, with the start rule
// first.
func ParseEBNF(name string, r io.Reader, start string) (*Grammar, error) {
	eg, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("ebnf: %w", err)
	}
	if err := ebnf.Verify(eg, start); err != nil {
		return nil, fmt.Errorf("ebnf: %w", err)
	}
	names := make([]string, 0, len(eg))
	for n := range eg {
		if n != start {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	names = append([]string{start}, names...)
	G := newGrammar()
	for _, n := range names {
		prod := eg[n]
		if prod.Expr == nil { // production without right hand side, e.g. "A = ."
			if err := G.define(n, comb.Epsilon(), `""`); err != nil {
				return nil, err
			}
			continue
		}
		p, text, err := convertEBNF(G, prod.Expr)
		if err != nil {
			return nil, fmt.Errorf("ebnf: %s: %w", n, err)
		}
		if err := G.define(n, p, text); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("read %d EBNF productions", len(names))
	return G, nil
}

func convertEBNF(G *Grammar, x ebnf.Expression) (comb.Parser, string, error) {
	switch x := x.(type) {
	case ebnf.Alternative:
		ps, texts, err := convertAll(G, x)
		if err != nil {
			return nil, "", err
		}
		return comb.Choice(ps...), strings.Join(texts, " | "), nil
	case ebnf.Sequence:
		ps, texts, err := convertAll(G, x)
		if err != nil {
			return nil, "", err
		}
		return comb.Sequence(ps...), strings.Join(texts, " "), nil
	case *ebnf.Name:
		return G.rule(x.String), x.String, nil
	case *ebnf.Token:
		if len(x.String) == 1 {
			return comb.Ch(x.String[0]), strconv.Quote(x.String), nil
		}
		return comb.Token(x.String), strconv.Quote(x.String), nil
	case *ebnf.Range:
		if len(x.Begin.String) != 1 || len(x.End.String) != 1 {
			return nil, "", fmt.Errorf("%s: range %q … %q is not a byte range", x.Pos(), x.Begin.String, x.End.String)
		}
		lo, hi := x.Begin.String[0], x.End.String[0]
		p := comb.Range(lo, hi)
		return p, p.String(), nil
	case *ebnf.Group:
		p, text, err := convertEBNF(G, x.Body)
		return p, "(" + text + ")", err
	case *ebnf.Option:
		p, text, err := convertEBNF(G, x.Body)
		if err != nil {
			return nil, "", err
		}
		return comb.Optional(p), "(" + text + ")?", nil
	case *ebnf.Repetition:
		p, text, err := convertEBNF(G, x.Body)
		if err != nil {
			return nil, "", err
		}
		return comb.Many(p), "(" + text + ")*", nil
	case *ebnf.Bad:
		return nil, "", fmt.Errorf("%s: %s", x.Pos(), x.Error)
	}
	return nil, "", fmt.Errorf("unsupported EBNF expression %T", x)
}

func convertAll(G *Grammar, xs []ebnf.Expression) ([]comb.Parser, []string, error) {
	ps := make([]comb.Parser, len(xs))
	texts := make([]string, len(xs))
	for i, x := range xs {
		p, text, err := convertEBNF(G, x)
		if err != nil {
			return nil, nil, err
		}
		ps[i], texts[i] = p, text
	}
	return ps, texts, nil
}
