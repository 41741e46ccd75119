package ecs

// intersect returns the slots present in both sets, iterating the smaller.
func intersect[A, B any](a *sparseSet[A], b *sparseSet[B]) []entityID {
	if a == nil || b == nil {
		return nil
	}
	if a.len() <= b.len() {
		out := make([]entityID, 0, a.len())
		for _, id := range a.dense {
			if b.has(id) {
				out = append(out, id)
			}
		}
		return out
	}
	out := make([]entityID, 0, b.len())
	for _, id := range b.dense {
		if a.has(id) {
			out = append(out, id)
		}
	}
	return out
}
