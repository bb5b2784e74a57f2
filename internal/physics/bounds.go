package physics

// Restitution is the fraction of normal velocity kept after a wall bounce.
const Restitution = 0.9

// Bounce keeps every body inside the square [-half, half]², reflecting the
// normal velocity component with Restitution. It reports whether any wall
// was hit.
func Bounce(bs *Bodies, half float64) bool {
	hit := false
	for i := range bs {
		for axis := 0; axis < 2; axis++ {
			p := bs[i].Pos[axis]
			switch {
			case p < -half:
				bs[i].Pos[axis] = -half
			case p > half:
				bs[i].Pos[axis] = half
			default:
				continue
			}
			bs[i].Vel[axis] = -Restitution * bs[i].Vel[axis]
			hit = true
		}
	}
	return hit
}
