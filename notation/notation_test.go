package notation

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/lookahead/cfg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/txtar"
)

// Golden archives in testdata contain a grammar source (grammar.bnf or grammar.ebnf)
// together with the expected canonical rules, grammar dump and lookahead sets.
// The archive comment may set the lookahead depth ("k: 2") and, for EBNF, the
// start rule ("start: List").
func TestGoldenArchives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.notation")
	defer teardown()
	//
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no golden archives found")
	}
	for _, path := range archives {
		t.Run(filepath.Base(path), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			checkArchive(t, ar)
		})
	}
}

func checkArchive(t *testing.T, ar *txtar.Archive) {
	k, start := 1, ""
	for _, line := range strings.Split(string(ar.Comment), "\n") {
		if v := strings.TrimPrefix(line, "k: "); v != line {
			k, _ = strconv.Atoi(v)
		} else if v := strings.TrimPrefix(line, "start: "); v != line {
			start = v
		}
	}
	files := make(map[string]string)
	for _, f := range ar.Files {
		files[f.Name] = string(f.Data)
	}
	var G *Grammar
	var err error
	if src, ok := files["grammar.bnf"]; ok {
		G, err = ParseBNF(src)
	} else {
		G, err = ParseEBNF("grammar.ebnf", strings.NewReader(files["grammar.ebnf"]), start)
	}
	if err != nil {
		t.Fatal(err)
	}
	g, err := G.Analyze(cfg.WithMaxLookahead(k))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, files["rules"], G.String(), "rules")
	var dump bytes.Buffer
	if err := g.Dump(&dump, 0); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, files["dump"], dump.String(), "dump")
	var first, follow strings.Builder
	for _, name := range G.Order {
		F, err := g.First(k, G.Symbol(name))
		if err != nil {
			t.Fatal(err)
		}
		fmt.Fprintf(&first, "%s %v\n", name, F)
	}
	for _, name := range G.Order {
		F, err := g.Follow(k, G.Symbol(name))
		if err != nil {
			t.Fatal(err)
		}
		fmt.Fprintf(&follow, "%s %v\n", name, F)
	}
	assert.Equal(t, files["first"], first.String(), "first")
	assert.Equal(t, files["follow"], follow.String(), "follow")
}

func TestBNFItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.notation")
	defer teardown()
	//
	testCases := []struct {
		name  string
		src   string
		first string
	}{
		{"string", `S -> "ab" ;`, "{a}"},
		{"char escapes", `S -> '\n' | '\x41' | '\'' ;`, `{\n,',A}`},
		{"string escapes", `S -> "\"q" ;`, `{\"}`},
		{"class", `S -> [a-c_] ;`, "{_,a,b,c}"},
		{"class escapes", `S -> [\]\-] ;`, `{-,]}`},
		{"class hex range", `S -> [\x41-\x43] ;`, "{A,B,C}"},
		{"end", `S -> $ ;`, "{$}"},
		{"optional", `S -> 'a'? 'b' ;`, "{a,b}"},
		{"star", `S -> 'a'* ;`, "{'',a}"},
		{"plus", `S -> ('a' | 'b')+ 'c' ;`, "{a,b}"},
		{"empty", `S -> ;`, "{''}"},
		{"bnf arrow", `S ::= T ; T ::= 'x' ;`, "{x}"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			G, err := ParseBNF(tc.src)
			if err != nil {
				t.Fatal(err)
			}
			g, err := G.Analyze()
			if err != nil {
				t.Fatal(err)
			}
			F, err := g.First(1, G.Symbol(G.Start))
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, tc.first, F.String())
		})
	}
}

func TestNegatedClass(t *testing.T) {
	cs, err := parseClass(`[^"]`)
	if err != nil {
		t.Fatal(err)
	}
	if cs.Len() != 255 || cs.Contains('"') {
		t.Errorf("expected every byte except '\"', have %d members", cs.Len())
	}
	if _, err := parseClass(`[z-a]`); err == nil {
		t.Errorf("expected empty range to be rejected")
	}
}

func TestClassRendersBack(t *testing.T) {
	sets := []*cfg.CharSet{
		cfg.Chars('^', 'a'),
		cfg.Chars('^', '_', '`'),
		cfg.Chars('-', ']', '"', '\\'),
		cfg.CharRange(0, 3).Add('^'),
	}
	for _, cs := range sets {
		lit := cfg.NewCharSet(cs).String()
		back, err := parseClass(lit)
		if err != nil {
			t.Errorf("cannot read back %s: %v", lit, err)
			continue
		}
		if *back != *cs {
			t.Errorf("class %s reads back as %s", lit, cfg.NewCharSet(back))
		}
	}
}

func TestBNFErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.notation")
	defer teardown()
	//
	testCases := []struct {
		name   string
		src    string
		syntax bool
	}{
		{"empty source", "# nothing here\n", true},
		{"missing arrow", `S 'a' ;`, true},
		{"missing semicolon", `S -> 'a'`, true},
		{"unbalanced group", `S -> ('a' ;`, true},
		{"duplicate rule", "S -> 'a' ;\nS -> 'b' ;", true},
		{"illegal character", `S -> 'a' ~ ;`, false},
		{"undefined rule", `S -> T 'a' ;`, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBNF(tc.src)
			if err == nil {
				t.Fatalf("expected %q to be rejected", tc.src)
			}
			var synerr *SyntaxError
			if tc.syntax && !errors.As(err, &synerr) {
				t.Errorf("expected a syntax error, have %v", err)
			}
		})
	}
	_, err := ParseBNF(`S -> T 'a' ;`)
	assert.True(t, errors.Is(err, ErrUndefinedRule))
}

func TestPredicatesAreNotContextFree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.notation")
	defer teardown()
	//
	G, err := ParseBNF(`S -> !'a' [a-z] ;`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = G.Analyze(); !errors.Is(err, cfg.ErrNotCFG) {
		t.Errorf("expected analysis to fail with ErrNotCFG, is %v", err)
	}
	assert.Equal(t, "S -> !\"a\" [a-z] ;\n", G.String())
}

func TestSymbolLookup(t *testing.T) {
	G, err := ParseBNF(`S -> T T ; T -> 'x' ;`)
	if err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	assert.Nil(G.Symbol("S"))
	g, err := G.Analyze()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(g.Start(), G.Symbol("S"))
	assert.NotNil(G.Symbol("T"))
	assert.Nil(G.Symbol("U"))
	assert.Equal([]string{"S", "T"}, G.Order)
	assert.Equal("T T", G.Text("S"))
}

func TestFingerprint(t *testing.T) {
	G1, err1 := ParseBNF("S -> 'a' S | \"\" ;")
	G2, err2 := ParseBNF("# same grammar\nS ->\n   \"a\" S\n | \"\" ;")
	G3, err3 := ParseBNF("S -> 'b' S | \"\" ;")
	if err1 != nil || err2 != nil || err3 != nil {
		t.Fatalf("unexpected errors: %v, %v, %v", err1, err2, err3)
	}
	h1, _ := G1.Fingerprint()
	h2, _ := G2.Fingerprint()
	h3, _ := G3.Fingerprint()
	if h1 == "" || h1 != h2 {
		t.Errorf("expected equal fingerprints for equal grammars, have %q and %q", h1, h2)
	}
	if h1 == h3 {
		t.Errorf("expected different fingerprints for different grammars")
	}
}

func TestEBNFErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.notation")
	defer teardown()
	//
	_, err := ParseEBNF("bad", strings.NewReader(`S = "a"`), "S")
	assert.Error(t, err)
	_, err = ParseEBNF("undefined", strings.NewReader(`S = T .`), "S")
	assert.Error(t, err)
	_, err = ParseEBNF("wide range", strings.NewReader(`S = "aa" … "zz" .`), "S")
	assert.Error(t, err)
	G, err := ParseEBNF("empty", strings.NewReader(`S = "a" E . E = .`), "S")
	if assert.NoError(t, err) {
		g, err := G.Analyze()
		if assert.NoError(t, err) {
			assert.True(t, g.DerivesEpsilon(G.Symbol("E")))
		}
	}
}
