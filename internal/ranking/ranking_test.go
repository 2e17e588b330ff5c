package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranksByPlayer(ranked []Ranked) map[uint]int {
	m := make(map[uint]int, len(ranked))
	for _, r := range ranked {
		m[r.PlayerID] = r.Rank
	}
	return m
}

func TestCompute_EmptyInput(t *testing.T) {
	assert.Empty(t, Compute(nil))
	assert.Empty(t, Compute([]Entry{}))
}

func TestCompute_CompetitionRankingWithTie(t *testing.T) {
	// Scores 10, 10, 5 -> ranks 1, 1, 3. Rank 2 is skipped after the tie.
	ranked := Compute([]Entry{
		{PlayerID: 1, Score: 10},
		{PlayerID: 2, Score: 10},
		{PlayerID: 3, Score: 5},
	})
	require.Len(t, ranked, 3)

	ranks := ranksByPlayer(ranked)
	assert.Equal(t, 1, ranks[1])
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 3, ranks[3])
}

func TestCompute_ForcedWinnerBeatsHigherScore(t *testing.T) {
	ranked := Compute([]Entry{
		{PlayerID: 1, Score: 0, ForcedWinner: true},
		{PlayerID: 2, Score: 99},
	})
	require.Len(t, ranked, 2)

	// Forced winner comes first in the output and holds rank 1; the higher
	// scorer starts at 2.
	assert.Equal(t, uint(1), ranked[0].PlayerID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, uint(2), ranked[1].PlayerID)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestCompute_MultipleForcedWinnersShareRankOne(t *testing.T) {
	ranked := Compute([]Entry{
		{PlayerID: 1, Score: 3, ForcedWinner: true},
		{PlayerID: 2, Score: 7, ForcedWinner: true},
		{PlayerID: 3, Score: 7},
		{PlayerID: 4, Score: 2},
	})
	ranks := ranksByPlayer(ranked)
	assert.Equal(t, 1, ranks[1])
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 2, ranks[3])
	assert.Equal(t, 3, ranks[4])
}

func TestCompute_AllZeroScoresTieAtOne(t *testing.T) {
	ranked := Compute([]Entry{
		{PlayerID: 1},
		{PlayerID: 2},
		{PlayerID: 3},
	})
	for _, r := range ranked {
		assert.Equal(t, 1, r.Rank)
	}
}

func TestCompute_OutputSortedByRank(t *testing.T) {
	ranked := Compute([]Entry{
		{PlayerID: 1, Score: 2},
		{PlayerID: 2, Score: 9},
		{PlayerID: 3, Score: 4, ForcedWinner: true},
		{PlayerID: 4, Score: 6},
	})
	require.Len(t, ranked, 4)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i].Rank, ranked[i-1].Rank)
	}
	assert.Equal(t, uint(3), ranked[0].PlayerID)
}

func TestCompute_RankOneCountMatchesForcedWinners(t *testing.T) {
	entries := []Entry{
		{PlayerID: 1, Score: 5, ForcedWinner: true},
		{PlayerID: 2, Score: 8, ForcedWinner: true},
		{PlayerID: 3, Score: 8},
		{PlayerID: 4, Score: 1},
	}
	var rankOnes int
	for _, r := range Compute(entries) {
		if r.Rank == 1 {
			rankOnes++
		}
	}
	assert.Equal(t, 2, rankOnes)
}

func TestCompute_Idempotent(t *testing.T) {
	entries := []Entry{
		{PlayerID: 1, Score: 4},
		{PlayerID: 2, Score: 4},
		{PlayerID: 3, Score: 9, ForcedWinner: true},
		{PlayerID: 4, Score: 1},
	}
	first := Compute(entries)
	second := Compute(entries)
	assert.Equal(t, first, second)
}
