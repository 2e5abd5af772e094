package grammar

// nullableSet marks the nonterminals that derive the empty token sequence.
// Terminals and built-in types are never nullable.
type nullableSet struct {
	set map[Symbol]struct{}
}

func (ns *nullableSet) add(sym Symbol) bool {
	if _, ok := ns.set[sym]; ok {
		return false
	}
	ns.set[sym] = struct{}{}
	return true
}

func (ns *nullableSet) isNullable(sym Symbol) bool {
	if !sym.IsNonTerminal() {
		return false
	}
	_, ok := ns.set[sym]
	return ok
}

// genNullableSet computes the least fixpoint: a nonterminal is nullable iff
// some production for it has an RHS whose symbols are all nullable.
func genNullableSet(prods *productionSet) *nullableSet {
	ns := &nullableSet{
		set: map[Symbol]struct{}{},
	}
	for {
		changed := false
		for _, prod := range prods.getAllProductions() {
			if ns.isNullable(prod.LHS) {
				continue
			}
			allNullable := true
			for _, sym := range prod.RHS {
				if !ns.isNullable(sym.Sym) {
					allNullable = false
					break
				}
			}
			if allNullable {
				ns.add(prod.LHS)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return ns
}
