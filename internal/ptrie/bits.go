package ptrie

// zeroBit reports whether key has a 0 bit at the given branching position.
func zeroBit(key, bit hkey) bool {
	return key&bit == 0
}

// branchingBit finds the lowest bit at which p0 and p1 differ.
func branchingBit(p0, p1 hkey) hkey {
	diff := p0 ^ p1
	return diff & -diff
}
