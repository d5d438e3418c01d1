package raffle

import "math/rand/v2"

// Picker selects an index in [0, n). Seam for the draw's randomness so the
// selection policy stays swappable and tests stay deterministic.
type Picker interface {
	IntN(n int) int
}

type UniformPicker struct{}

// NewUniformPicker picks uniformly: every pool member has probability
// exactly 1/n. math/rand/v2's global source is seeded per process.
func NewUniformPicker() Picker {
	return &UniformPicker{}
}

func (p *UniformPicker) IntN(n int) int {
	return rand.IntN(n)
}
