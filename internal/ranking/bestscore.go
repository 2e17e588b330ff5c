package ranking

// ScoreRecord is one historical registration of a game, with its recorded
// score if any.
type ScoreRecord struct {
	PlayerID uint
	Score    *int
}

// BestResult is the aggregate outcome for one game. BestScore is nil when
// no registration carries a positive score, in which case Players is empty.
type BestResult struct {
	BestScore *int
	Players   []uint
}

// BestScores finds the maximum positive score across all of a game's
// registrations and every player who achieved it, in input order.
func BestScores(records []ScoreRecord) BestResult {
	best := 0
	for _, r := range records {
		if r.Score != nil && *r.Score > best {
			best = *r.Score
		}
	}
	if best == 0 {
		return BestResult{}
	}

	var players []uint
	for _, r := range records {
		if r.Score != nil && *r.Score == best {
			players = append(players, r.PlayerID)
		}
	}
	return BestResult{BestScore: &best, Players: players}
}
