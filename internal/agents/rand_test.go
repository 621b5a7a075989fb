package agents

// scriptedRand replays fixed draws so rule tests can steer every branch.
type scriptedRand struct {
	floats []float64
	ints   []int
	draws  int
}

func (r *scriptedRand) Float() float64 {
	r.draws++
	if len(r.floats) == 0 {
		return 0.5
	}
	u := r.floats[0]
	r.floats = r.floats[1:]
	return u
}

func (r *scriptedRand) Chance(p float64) bool {
	u := r.Float()
	return p > 0 && u <= p
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}
