// Package bloom implements a fixed-size Bloom filter, the approximate
// membership structure that gates next hops in the randomized router.
//
// What:
//
//	A bit array of m bits probed at k positions per item. Positions come
//	from one 128-bit murmur3 hash split into two 64-bit halves h1, h2 and
//	combined as h1 + i*h2 (Kirsch–Mitzenmacher double hashing).
//
// Sizing:
//
//	m = ceil(-n·ln(p) / (ln 2)²), k = round(m/n · ln 2), k >= 1,
//	for n expected items and target false-positive rate p.
//
// Guarantees:
//
//	No false negatives: every added item always tests positive.
//	False positives occur with probability close to p while Len() <= n.
//
// Errors:
//
//	ErrBadCapacity for n == 0, ErrBadRate for p outside (0,1).
package bloom
