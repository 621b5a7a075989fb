package agents

// Rand is the slice of the shared random source the agent rules draw from.
type Rand interface {
	Float() float64
	Chance(p float64) bool
	Intn(n int) int
}
