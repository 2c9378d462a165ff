package comb

import (
	"errors"
	"testing"

	"github.com/npillmayer/lookahead/cfg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func analyze(t *testing.T, root Parser, opts ...cfg.Option) (*cfg.Grammar, *Desugaring) {
	t.Helper()
	d := Desugar(root)
	g, err := cfg.FromDesugarer(d, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return g, d
}

func first(t *testing.T, g *cfg.Grammar, k int, sym *cfg.Symbol) string {
	t.Helper()
	F, err := g.First(k, sym)
	if err != nil {
		t.Fatal(err)
	}
	return F.String()
}

func follow(t *testing.T, g *cfg.Grammar, k int, sym *cfg.Symbol) string {
	t.Helper()
	F, err := g.Follow(k, sym)
	if err != nil {
		t.Fatal(err)
	}
	return F.String()
}

func TestFirstOfCombinators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.comb")
	defer teardown()
	//
	testCases := []struct {
		name    string
		p       Parser
		k       int
		first   string
		epsilon bool
	}{
		{"char", Ch('x'), 1, "{x}", false},
		{"choice", Choice(Ch('a'), Ch('b')), 1, "{a,b}", false},
		{"in", In('c', 'a'), 1, "{a,c}", false},
		{"range", Range('0', '2'), 1, "{0,1,2}", false},
		{"end", End(), 1, "{$}", false},
		{"epsilon", Epsilon(), 1, "{''}", true},
		{"token", Token("if"), 2, "{if}", false},
		{"empty token", Token(""), 1, "{''}", true},
		{"sequence", Sequence(Optional(Ch('-')), Ch('1')), 2, "{-1,1}", false},
		{"optional", Optional(Ch('a')), 1, "{'',a}", true},
		{"many", Many(Ch('a')), 2, "{'',a,aa}", true},
		{"many1", Many1(Ch('a')), 2, "{a,aa}", false},
		{"sepBy", SepBy(Ch('a'), Ch(';')), 2, "{'',a,a;}", true},
		{"sepBy1", SepBy1(Range('0', '1'), Ch(';')), 2, "{0,0;,1,1;}", false},
		{"action", Action(Ch('a'), "reshape"), 1, "{a}", false},
		{"end of input", Sequence(Ch('a'), End()), 2, "{a$}", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, d := analyze(t, tc.p, cfg.WithMaxLookahead(2))
			sym := d.SymbolFor(tc.p)
			if sym.IsTerminal() {
				sym = g.Start()
			}
			assert.Equal(t, tc.first, first(t, g, tc.k, sym))
			assert.Equal(t, tc.epsilon, g.DerivesEpsilon(sym))
		})
	}
}

func TestNotIn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.comb")
	defer teardown()
	//
	p := NotIn('a')
	g, _ := analyze(t, p)
	F, err := g.First(1, g.Start())
	if err != nil {
		t.Fatal(err)
	}
	if F.Len() != 255 || F.Contains([]byte("a"), false) || !F.Contains([]byte("b"), false) {
		t.Errorf("expected FIRST to contain every byte except 'a', have %d members", F.Len())
	}
}

func TestRecursiveDescription(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.comb")
	defer teardown()
	//
	expr := Indirect()
	atom := Choice(Range('0', '9'), Sequence(Ch('('), expr, Ch(')')))
	expr.Bind(SepBy1(atom, Ch('+')))
	g, d := analyze(t, expr)
	assert := assert.New(t)
	assert.Equal(d.SymbolFor(expr), g.Start())
	assert.Equal("{$,)}", follow(t, g, 1, g.Start()))
	assert.Equal("{$,),+}", follow(t, g, 1, d.SymbolFor(atom)))
	assert.Equal("{(,0,1,2,3,4,5,6,7,8,9}", first(t, g, 1, g.Start()))
}

func TestLeftRecursiveDescription(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.comb")
	defer teardown()
	//
	list := Indirect()
	list.Bind(Choice(Sequence(list, Ch('a')), Ch('b')))
	g, _ := analyze(t, list)
	assert.Equal(t, "{b}", first(t, g, 1, g.Start()))
	assert.Equal(t, "{$,a}", follow(t, g, 1, g.Start()))
}

func TestSharedParsers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.comb")
	defer teardown()
	//
	a := Ch('a')
	act := Action(a, "double")
	seq := Sequence(a, act, a)
	g, d := analyze(t, seq)
	assert := assert.New(t)
	prods := d.SymbolFor(seq).Productions()
	if assert.Len(prods, 1) && assert.Equal(3, prods[0].Len()) {
		assert.True(prods[0].Items[0] == prods[0].Items[2], "expected shared symbol for shared parser")
		assert.Equal(d.SymbolFor(a), prods[0].Items[0])
	}
	assert.Equal("double", d.SymbolFor(act).Reshape)
	assert.Equal(2, g.NonterminalCount())
	assert.Nil(d.SymbolFor(Ch('a')))
}

func TestDesugaringIsMemoized(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.comb")
	defer teardown()
	//
	d := Desugar(Many(Ch('z')))
	s1, err1 := d.Desugar()
	s2, err2 := d.Desugar()
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors %v, %v", err1, err2)
	}
	if s1 != s2 {
		t.Errorf("expected repeated desugaring to return the same symbol")
	}
}

func TestDesugaringFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.comb")
	defer teardown()
	//
	cyclic1, cyclic2 := Indirect(), Indirect()
	cyclic1.Bind(cyclic2)
	cyclic2.Bind(cyclic1)
	testCases := []struct {
		name  string
		p     Parser
		cause error
	}{
		{"and", Sequence(And(Ch('a')), Ch('a')), ErrNotContextFree},
		{"not", Choice(Not(Ch('a')), Ch('b')), ErrNotContextFree},
		{"unbound", Many(Indirect()), ErrUnbound},
		{"indirect cycle", Sequence(Ch('x'), cyclic1), ErrIndirectCycle},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Analyze(tc.p)
			if !errors.Is(err, cfg.ErrNotCFG) {
				t.Errorf("expected error to match ErrNotCFG, is %v", err)
			}
			if !errors.Is(err, tc.cause) {
				t.Errorf("expected error to match %v, is %v", tc.cause, err)
			}
		})
	}
	if _, err := Desugar(nil).Desugar(); err == nil {
		t.Errorf("expected desugaring of nil root to fail")
	}
}

func TestParserStrings(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(`('a' | "bc")`, Choice(Ch('a'), Token("bc")).String())
	assert.Equal(`'a'*`, Many(Ch('a')).String())
	assert.Equal(`[0-9]+`, Many1(Range('0', '9')).String())
	assert.Equal(`!'a'`, Not(Ch('a')).String())
	assert.Equal("indirect(?)", Indirect().String())
}
