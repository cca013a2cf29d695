package game

import "math/rand"

// PickTip returns one of tips chosen uniformly at random, or "" when there are none.
// Tips are cosmetic and never affect play.
func PickTip(tips []string, rng *rand.Rand) string {
	if len(tips) == 0 {
		return ""
	}
	return tips[intn(rng, len(tips))]
}
