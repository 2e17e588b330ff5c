// Package ranking holds the pure result computations for play sessions:
// rank assignment for one session and the best-score aggregation across a
// game's history. Nothing in here touches the database.
package ranking

import "sort"

// Entry is one registrant's result input for a session.
type Entry struct {
	PlayerID     uint
	Score        int
	ForcedWinner bool
}

// Ranked is an Entry annotated with its computed rank (1 = best).
type Ranked struct {
	Entry
	Rank int
}

// Compute assigns a rank to every registrant.
//
// Forced winners always share rank 1. Everyone else is ordered by score
// descending and ranked with standard competition ranking (equal scores
// share a rank, the next distinct score takes the rank of its position),
// starting at 2 when at least one forced winner exists. The returned slice
// lists forced winners first, then the rest by ascending rank.
func Compute(entries []Entry) []Ranked {
	if len(entries) == 0 {
		return nil
	}

	var winners, others []Entry
	for _, e := range entries {
		if e.ForcedWinner {
			winners = append(winners, e)
		} else {
			others = append(others, e)
		}
	}

	sort.SliceStable(others, func(i, j int) bool {
		return others[i].Score > others[j].Score
	})

	out := make([]Ranked, 0, len(entries))
	for _, w := range winners {
		out = append(out, Ranked{Entry: w, Rank: 1})
	}

	offset := 1
	if len(winners) > 0 {
		offset = 2
	}
	for i, e := range others {
		rank := i + offset
		if i > 0 && e.Score == others[i-1].Score {
			rank = out[len(out)-1].Rank
		}
		out = append(out, Ranked{Entry: e, Rank: rank})
	}

	return out
}
