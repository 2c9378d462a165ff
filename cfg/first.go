package cfg

import (
	"github.com/npillmayer/lookahead/cfg/strset"
)

// Refer to "Parsing Techniques" by Dick Grune and Ceriel J.H. Jacobs,
// Section 8.2.2.1 (FIRSTₖ and FOLLOWₖ for LL(k) grammars).

// firstOf computes FIRSTₖ(x), memoized in g.first[k].
//
// Before recursing, an empty placeholder is stored as the memo entry. Unions are
// applied to the placeholder in place, so a reentrant call for the same (x,k),
// caused by left recursion, sees whatever has been collected so far instead of
// recursing forever.
func (g *Grammar) firstOf(k int, x *Symbol) *strset.Set {
	if k == 0 {
		return g.epsilon // FIRST₀(x) = {ε}
	}
	g.ensureK(k)
	if S, ok := g.first[k][x]; ok {
		return S
	}
	S := strset.New()
	g.first[k][x] = S
	switch x.kind {
	case EndKind, CharKind, CharSetKind:
		S.Update(terminalSet(x))
	case NonterminalKind:
		// union of the first sets of all productions
		for _, seq := range x.seqs {
			S.Update(g.firstSeq(k, seq.Items))
		}
	default:
		violation("FIRST", x, "unknown symbol kind %s", x.kind)
	}
	return S
}

// firstSeq computes FIRSTₖ of a sequence X tail:
//
//    FIRSTₖ(X tail) = { a·b | a ∈ FIRSTₖ(X), b ∈ FIRSTₗ(tail), l = k-|a| }
//
func (g *Grammar) firstSeq(k int, items []*Symbol) *strset.Set {
	if len(items) == 0 {
		return g.epsilon
	}
	x, tail := items[0], items[1:]
	firstX := g.firstOf(k, x)
	if firstX.IsSingletonEpsilon() { // X contributes nothing
		return g.firstSeq(k, tail)
	}
	if !firstX.AnyShorter(k) { // no string of FIRSTₖ(X) may be extended
		return firstX
	}
	S := strset.New()
	g.extend(S, k, firstX, func(l int) *strset.Set {
		return g.firstSeq(l, tail)
	})
	return S
}

// extend adds { a·b | a ∈ as, b ∈ f(l), l = k-|a| } to S.
//
// It walks the trie of as: at an ε-branch f(k) is spliced in, the end-marker is
// copied unchanged (nothing may follow it; formally it is of length k), and every
// byte branch recurses one level deeper with k decremented, re-attaching results
// under that byte.
func (g *Grammar) extend(S *strset.Set, k int, as *strset.Set, f func(l int) *strset.Set) {
	if as.HasEpsilon() {
		S.Update(f(k))
	}
	if as.HasEnd() {
		S.PutEnd()
	}
	chars, nodes := as.Branches() // snapshot, f may add to as
	for i, c := range chars {
		if k == 0 {
			if nodes[i].IsEmpty() {
				continue
			}
			violation("string concatenation", nil, "lookahead string longer than k in %v", as)
		}
		g.extend(S.ChildOrNew(c), k-1, nodes[i], f)
	}
}
