package cfg

import (
	"github.com/npillmayer/lookahead/cfg/strset"
)

// followOf computes FOLLOWₖ(x), memoized in g.follow[k]. We consider all
// occurrences of x in g. The follow set of x is the union of
//
//    {$}                                  if x is the start symbol
//    FIRSTₖ(tail · FOLLOWₖ(A))            for every production A → α x tail
//
// where
//
//    FIRSTₖ(tail · FOLLOWₖ(A)) = { a·b | a ∈ FIRSTₖ(tail), b ∈ FOLLOWₗ(A), l = k-|a| }
//
// As with FIRSTₖ, an empty placeholder is stored before recursing, which breaks
// cycles between mutually dependent follow sets.
func (g *Grammar) followOf(k int, x *Symbol) *strset.Set {
	if k == 0 {
		return g.epsilon // FOLLOW₀(x) = {ε}
	}
	g.ensureK(k)
	if S, ok := g.follow[k][x]; ok {
		return S
	}
	S := strset.New()
	g.follow[k][x] = S
	if x == g.start {
		S.PutEnd()
	}
	for _, A := range g.nts { // A is the production's left hand side
		lhs := A
		for _, seq := range A.seqs {
			for i, item := range seq.Items {
				if item != x {
					continue
				}
				tail := seq.Items[i+1:]
				firstTail := g.firstSeq(k, tail)
				g.extend(S, k, firstTail, func(l int) *strset.Set {
					return g.followOf(l, lhs)
				})
			}
		}
	}
	return S
}
