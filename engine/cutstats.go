package engine

import "fmt"

// cutStats counts where the search saved work during one search. Dumped
// as "info string" lines when the UCI debug flag is on.
type cutStats struct {
	ttCuts       uint64
	rfpCuts      uint64
	nmpCuts      uint64
	futilitySkip uint64
	lmpSkip      uint64
	seeSkip      uint64
	betaCuts     uint64
	betaCutFirst uint64
}

func (c *cutStats) reset() { *c = cutStats{} }

// lines renders the counters for the info string channel.
func (c *cutStats) lines() []string {
	firstPct := 0.0
	if c.betaCuts > 0 {
		firstPct = 100 * float64(c.betaCutFirst) / float64(c.betaCuts)
	}
	return []string{
		fmt.Sprintf("tt cuts %d", c.ttCuts),
		fmt.Sprintf("rfp cuts %d", c.rfpCuts),
		fmt.Sprintf("nullmove cuts %d", c.nmpCuts),
		fmt.Sprintf("futility skips %d", c.futilitySkip),
		fmt.Sprintf("lmp skips %d", c.lmpSkip),
		fmt.Sprintf("see skips %d", c.seeSkip),
		fmt.Sprintf("beta cuts %d (first move %.1f%%)", c.betaCuts, firstPct),
	}
}
