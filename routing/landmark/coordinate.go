package landmark

// Coordinate locates a node in one landmark tree. The empty coordinate is
// the landmark itself.
type Coordinate []uint64

// Depth returns the distance to the landmark.
func (c Coordinate) Depth() int { return len(c) }

// Child returns a new coordinate extending c by suffix.
func (c Coordinate) Child(suffix uint64) Coordinate {
	out := make(Coordinate, len(c)+1)
	copy(out, c)
	out[len(c)] = suffix
	return out
}

// HasPrefix reports whether p is a prefix of c (c lies in p's subtree).
func (c Coordinate) HasPrefix(p Coordinate) bool {
	if len(p) > len(c) {
		return false
	}
	for i := range p {
		if c[i] != p[i] {
			return false
		}
	}
	return true
}

// Distance returns the tree distance between a and b: the combined lengths
// remaining after their longest common prefix.
func Distance(a, b Coordinate) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return (len(a) - i) + (len(b) - i)
}
