package ecs

// intersect returns the ids of a that are also present in every set of
// rest, in a's dense order.
func intersect(a *SparseSet, rest ...*SparseSet) []entityID {
	if a == nil {
		return nil
	}
	for _, s := range rest {
		if s == nil {
			return nil
		}
	}
	out := make([]entityID, 0, a.Len())
	for _, id := range a.ids() {
		in := true
		for _, s := range rest {
			if !s.Has(id) {
				in = false
				break
			}
		}
		if in {
			out = append(out, id)
		}
	}
	return out
}
