package cfg

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// S -> "a" S "a" | "b"
func palindromeGrammar(t *testing.T, opts ...Option) (*Grammar, *Symbol) {
	S := NewNonterminal(nil)
	a := NewChar('a')
	S.AddProduction(a, S, a)
	S.AddProduction(NewChar('b'))
	g, err := New(S, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return g, S
}

// S -> "a" S "b" | ε
func balancedGrammar(t *testing.T, opts ...Option) (*Grammar, *Symbol) {
	S := NewNonterminal(nil)
	S.AddProduction(NewChar('a'), S, NewChar('b'))
	S.AddProduction()
	g, err := New(S, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return g, S
}

// E  -> T E'
// E' -> "+" T E' | ε
// T  -> "x" | "(" E ")"
func expressionGrammar(t *testing.T) (g *Grammar, E, E1, T *Symbol) {
	E, E1, T = NewNonterminal(nil), NewNonterminal(nil), NewNonterminal(nil)
	E.AddProduction(T, E1)
	E1.AddProduction(NewChar('+'), T, E1)
	E1.AddProduction()
	T.AddProduction(NewChar('x'))
	T.AddProduction(NewChar('('), E, NewChar(')'))
	var err error
	if g, err = New(E); err != nil {
		t.Fatal(err)
	}
	return
}

func expectViolation(t *testing.T, op string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("expected invariant violation during %s", op)
			return
		}
		err, ok := r.(*InvariantError)
		if !ok {
			t.Errorf("expected panic with *InvariantError, have %T: %v", r, r)
			return
		}
		if err.Op != op {
			t.Errorf("expected violation during %q, have %q", op, err.Op)
		}
	}()
	f()
}

// --- Grammar construction --------------------------------------------------

func TestDiscoveryOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.cfg")
	defer teardown()
	//
	g, E, E1, T := expressionGrammar(t)
	assert := assert.New(t)
	assert.Equal(3, g.NonterminalCount())
	assert.Equal(E, g.Start())
	for i, A := range []*Symbol{E, T, E1} { // depth-first, first visit
		id, ok := g.ID(A)
		assert.True(ok)
		assert.Equal(i, id)
		assert.Equal(A, g.Nonterminal(i))
	}
	_, ok := g.ID(NewChar('x'))
	assert.False(ok)
	assert.Nil(g.Nonterminal(3))
	var visited []int
	g.EachNonterminal(func(id int, A *Symbol) {
		visited = append(visited, id)
	})
	assert.Equal([]int{0, 1, 2}, visited)
}

func TestTerminalRootIsWrapped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.cfg")
	defer teardown()
	//
	x := NewChar('x')
	g, err := New(x)
	if err != nil {
		t.Fatal(err)
	}
	if g.NonterminalCount() != 1 {
		t.Fatalf("expected 1 nonterminal, have %d", g.NonterminalCount())
	}
	start := g.Start()
	if id, _ := g.ID(start); id != 0 || start.Kind() != NonterminalKind {
		t.Errorf("expected start to be nonterminal #0, is %v", start)
	}
	if start.Reshape != ReshapeFirst {
		t.Errorf("expected wrapper to have reshape %q", ReshapeFirst)
	}
	F, err := g.First(1, start)
	if err != nil {
		t.Fatal(err)
	}
	if F.String() != "{x}" {
		t.Errorf("expected FIRST(start) = {x}, is %v", F)
	}
}

type failingDesugarer struct{ err error }

func (d failingDesugarer) Desugar() (*Symbol, error) {
	return nil, d.err
}

type symbolDesugarer struct{ root *Symbol }

func (d symbolDesugarer) Desugar() (*Symbol, error) {
	return d.root, nil
}

func TestConstructionFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.cfg")
	defer teardown()
	//
	_, err := New(nil)
	if !errors.Is(err, ErrNotCFG) {
		t.Errorf("expected ErrNotCFG for nil root, have %v", err)
	}
	cause := errors.New("lookahead predicate")
	_, err = FromDesugarer(failingDesugarer{cause})
	if !errors.Is(err, ErrNotCFG) || !errors.Is(err, cause) {
		t.Errorf("expected error to wrap ErrNotCFG and cause, have %v", err)
	}
	g, err := FromDesugarer(symbolDesugarer{NewEnd()})
	if err != nil || g.NonterminalCount() != 1 {
		t.Errorf("expected desugared grammar with 1 nonterminal, have %v", err)
	}
}

func TestInvariantViolations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.cfg")
	defer teardown()
	//
	expectViolation(t, "add production", func() {
		NewChar('a').AddProduction(NewChar('b'))
	})
	expectViolation(t, "nonterminal discovery", func() {
		S := NewNonterminal(nil)
		S.AddProduction(NewChar('a'), nil)
		_, _ = New(S)
	})
	expectViolation(t, "nonterminal discovery", func() {
		S := NewNonterminal(nil)
		S.AddProduction(&Symbol{})
		_, _ = New(S)
	})
	g, _ := palindromeGrammar(t)
	expectViolation(t, "FIRST", func() {
		_, _ = g.First(1, &Symbol{})
	})
	expectViolation(t, "FIRST", func() {
		_, _ = g.First(1, nil)
	})
	expectViolation(t, "FOLLOW", func() {
		_, _ = g.Follow(1, nil)
	})
	expectViolation(t, "epsilon check", func() {
		g.DerivesEpsilon(nil)
	})
	expectViolation(t, "epsilon check", func() {
		g.DerivesEpsilonSeq([]*Symbol{NewChar('a'), nil})
	})
}

func TestUnsupportedK(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.cfg")
	defer teardown()
	//
	g, S := palindromeGrammar(t)
	assert := assert.New(t)
	assert.Equal(DefaultMaxLookahead, g.MaxLookahead())
	for _, k := range []int{-1, 2, 5} {
		_, err := g.First(k, S)
		assert.True(errors.Is(err, ErrUnsupportedK), "FIRST k=%d", k)
		var kerr *KError
		if assert.True(errors.As(err, &kerr)) {
			assert.Equal(k, kerr.K)
			assert.Equal(1, kerr.Max)
		}
		_, err = g.Follow(k, S)
		assert.True(errors.Is(err, ErrUnsupportedK), "FOLLOW k=%d", k)
		_, err = g.FirstSeq(k, nil)
		assert.True(errors.Is(err, ErrUnsupportedK), "FIRST seq k=%d", k)
	}
	g, S = palindromeGrammar(t, WithMaxLookahead(2))
	_, err := g.First(2, S)
	assert.NoError(err)
}

// --- Epsilon ---------------------------------------------------------------

func TestDerivesEpsilon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.cfg")
	defer teardown()
	//
	assert := assert.New(t)
	g, S := balancedGrammar(t)
	assert.True(g.DerivesEpsilon(S))
	g, S = palindromeGrammar(t)
	assert.False(g.DerivesEpsilon(S))
	assert.False(g.DerivesEpsilon(NewEnd()))
	assert.False(g.DerivesEpsilon(NewChar('a')))
	assert.False(g.DerivesEpsilon(NewCharSet(CharRange('a', 'z'))))
	g, E, E1, T := expressionGrammar(t)
	assert.False(g.DerivesEpsilon(E))
	assert.True(g.DerivesEpsilon(E1))
	assert.False(g.DerivesEpsilon(T))
	assert.True(g.DerivesEpsilonSeq(nil))
	assert.True(g.DerivesEpsilonSeq([]*Symbol{E1, E1}))
	assert.False(g.DerivesEpsilonSeq([]*Symbol{E1, T}))
	assert.Equal([]*Symbol{E1}, g.EpsilonNonterminals())
}

func TestEpsilonFixpointPasses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.cfg")
	defer teardown()
	//
	// A -> B C,  B -> ε,  C -> B
	A, B, C := NewNonterminal(nil), NewNonterminal(nil), NewNonterminal(nil)
	A.AddProduction(B, C)
	B.AddProduction()
	C.AddProduction(B)
	g, err := New(A)
	if err != nil {
		t.Fatal(err)
	}
	g.geneps = nil
	var sizes []int
	g.collectGeneps(func(pass, size int) {
		sizes = append(sizes, size)
	})
	assert.Equal(t, []int{2, 3, 3}, sizes)
	for i := 1; i < len(sizes); i++ {
		if sizes[i] < sizes[i-1] {
			t.Errorf("ε-set shrinks in pass %d", i+1)
		}
	}
	if len(sizes) > g.NonterminalCount()+1 {
		t.Errorf("fixpoint took %d passes", len(sizes))
	}
	g.collectGeneps(func(pass, size int) {
		t.Errorf("expected repeated fixpoint computation to be a no-op")
	})
	assert.True(t, g.DerivesEpsilon(A))
}
