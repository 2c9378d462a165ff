package cfg

// DerivesEpsilon is true if x can derive the empty string. Terminals never do,
// not even the end-of-input marker.
func (g *Grammar) DerivesEpsilon(x *Symbol) bool {
	if x == nil {
		violation("epsilon check", nil, "nil symbol")
	}
	switch x.kind {
	case CharKind, EndKind, CharSetKind:
		return false
	case NonterminalKind:
		_, ok := g.geneps[x]
		return ok
	}
	violation("epsilon check", x, "unknown symbol kind %s", x.kind)
	return false
}

// DerivesEpsilonSeq is true if all symbols of a sequence derive ε.
// This holds trivially for the empty sequence.
func (g *Grammar) DerivesEpsilonSeq(items []*Symbol) bool {
	for _, x := range items {
		if !g.DerivesEpsilon(x) {
			return false
		}
	}
	return true
}

// EpsilonNonterminals returns all nonterminals deriving ε, ordered by ID.
func (g *Grammar) EpsilonNonterminals() []*Symbol {
	var eps []*Symbol
	for _, A := range g.nts {
		if _, ok := g.geneps[A]; ok {
			eps = append(eps, A)
		}
	}
	return eps
}

// collectGeneps determines the nonterminals which derive ε. It iterates over
// all nonterminals, adding any we can identify as deriving ε, and repeats until
// a pass does not add anything new. A nonterminal derives ε if any of its
// productions consists of ε-deriving symbols only.
//
// observe, if not nil, is called after every pass with the current size of the
// set. Calling collectGeneps more than once is a no-op.
func (g *Grammar) collectGeneps(observe func(pass, size int)) {
	if g.geneps != nil {
		return
	}
	g.geneps = make(map[*Symbol]struct{})
	pass := 0
	for {
		prev := len(g.geneps)
		for _, A := range g.nts {
			if A.kind != NonterminalKind {
				violation("epsilon fixpoint", A, "collected symbol is not a nonterminal")
			}
			if _, ok := g.geneps[A]; ok {
				continue
			}
			for _, seq := range A.seqs {
				if g.DerivesEpsilonSeq(seq.Items) {
					g.geneps[A] = exists
					break
				}
			}
		}
		pass++
		if observe != nil {
			observe(pass, len(g.geneps))
		}
		if len(g.geneps) == prev {
			break
		}
	}
	tracer().Debugf("ε-fixpoint reached after %d passes, %d nonterminals derive ε", pass, len(g.geneps))
}
