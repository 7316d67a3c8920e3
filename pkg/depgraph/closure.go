package depgraph

// Closure returns seed together with everything reachable from it through
// expand. Items are processed first-in first-out and the result lists
// them in discovery order. An item is enqueued only the first time it is
// seen, so cycles and repeated seeds are harmless and every item is
// expanded exactly once.
func Closure(seed []string, expand func(string) []string) []string {
	seen := make(map[string]struct{}, len(seed))
	var order []string
	visit := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}

	for _, id := range seed {
		visit(id)
	}
	for i := 0; i < len(order); i++ {
		for _, next := range expand(order[i]) {
			visit(next)
		}
	}
	return order
}
