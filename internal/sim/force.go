package sim

// Force returns the scalar interaction strength at normalized distance r
// (distance divided by the cutoff radius) for attraction coefficient a.
//
// Below beta every pair repels, ramping linearly from -1 at r=0 to 0 at
// r=beta regardless of a. Between beta and 1 the force is a triangle that
// peaks at a halfway through the band. At and beyond the cutoff it is 0.
func Force(r, a, beta float32) float32 {
	switch {
	case r < beta:
		return r/beta - 1
	case r < 1:
		return a * (1 - abs32(2*r-1-beta)/(1-beta))
	default:
		return 0
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
