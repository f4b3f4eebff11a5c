package puzzle

// RNG is a deterministic pseudo-random number generator (mulberry32).
// The algorithm is pinned: ports of the generator to other platforms must
// reproduce the exact sequence bit-for-bit so that a (seed, parameters)
// pair yields the same board everywhere.
type RNG struct {
	state uint32
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint32) *RNG {
	if seed == 0 {
		seed = 0x9E3779B9 // Default seed
	}
	return &RNG{state: seed}
}

// Next returns the next random uint32.
func (r *RNG) Next() uint32 {
	r.state += 0x6D2B79F5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// Float returns a random float64 in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.Next()) / 4294967296.0
}

// Intn returns a random int in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint32(n))
}

// Jitter returns a random float64 in [-scale, scale).
func (r *RNG) Jitter(scale float64) float64 {
	return (r.Float()*2 - 1) * scale
}

// Shuffle performs a Fisher-Yates shuffle over n elements.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

// Fork derives an independent generator for a retry attempt. Mixing the
// attempt index into the state keeps attempts decorrelated while staying
// reproducible from the original seed.
func (r *RNG) Fork(attempt int) *RNG {
	s := r.state ^ (uint32(attempt+1) * 0x85EBCA6B)
	if s == 0 {
		s = 1
	}
	return NewRNG(s)
}
