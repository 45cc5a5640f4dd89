package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Search tree depth never exceeds this, in plies.
const MaxDepth = 100

func clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// ScoreString renders a score the way "info score ..." wants it: mate
// distances in moves once the score is inside the mate band, raw
// centipawns otherwise.
func ScoreString(score int) string {
	if score >= Checkmate {
		plies := MaxScore - score
		if plies < 0 {
			plies = 0
		}
		return fmt.Sprintf("mate %d", (plies+1)/2)
	}
	if score <= -Checkmate {
		plies := MaxScore + score
		if plies < 0 {
			plies = 0
		}
		return fmt.Sprintf("mate %d", -(plies+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// IsMateScore reports whether a score encodes a forced mate distance.
func IsMateScore(score int) bool {
	return score >= Checkmate || score <= -Checkmate
}
