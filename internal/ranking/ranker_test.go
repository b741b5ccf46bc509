package ranking

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortunelab/internal/contracts"
)

func cand(ticker string, action contracts.Action, grade contracts.Grade, volume float64) contracts.Candidate {
	return contracts.Candidate{
		Ticker: ticker,
		Name:   ticker,
		Action: action,
		Grade:  grade,
		Volume: volume,
	}
}

func tickers(cs []contracts.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Ticker
	}
	return out
}

// sortedByPriority checks every adjacent pair is non-increasing in
// (actionWeight, gradeWeight, volume).
func sortedByPriority(t *testing.T, cs []contracts.Candidate) {
	t.Helper()
	for i := 1; i < len(cs); i++ {
		a, b := cs[i-1], cs[i]
		ta := []float64{float64(a.Action.Weight()), float64(a.Grade.Weight()), a.Volume}
		tb := []float64{float64(b.Action.Weight()), float64(b.Grade.Weight()), b.Volume}

		for k := range ta {
			if ta[k] != tb[k] {
				require.Greater(t, ta[k], tb[k], "pair %d (%s, %s) out of order", i, a.Ticker, b.Ticker)
				break
			}
		}
	}
}

func randomCandidates(r *rand.Rand, n int) []contracts.Candidate {
	actions := []contracts.Action{contracts.ActionReady, contracts.ActionWait, contracts.ActionNoTrade, "WATCH", ""}
	grades := []contracts.Grade{contracts.GradeS, contracts.GradeA, contracts.GradeB, contracts.GradeC, "Z"}

	out := make([]contracts.Candidate, n)
	for i := range out {
		out[i] = cand(
			string(rune('A'+i%26))+string(rune('0'+i/26%10)),
			actions[r.Intn(len(actions))],
			grades[r.Intn(len(grades))],
			float64(r.Intn(5)*100), // coarse volumes force ties
		)
	}
	return out
}

func TestRank_Example(t *testing.T) {
	in := []contracts.Candidate{
		cand("A", contracts.ActionReady, contracts.GradeA, 100),
		cand("B", contracts.ActionReady, contracts.GradeS, 50),
		cand("C", contracts.ActionWait, contracts.GradeS, 1000),
	}

	assert.Equal(t, []string{"B", "A", "C"}, tickers(Rank(in)))
}

func TestRank_Empty(t *testing.T) {
	out := Rank(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)

	assert.Empty(t, Rank([]contracts.Candidate{}))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []contracts.Candidate{
		cand("low", contracts.ActionNoTrade, contracts.GradeC, 1),
		cand("high", contracts.ActionReady, contracts.GradeS, 1),
	}

	_ = Rank(in)
	assert.Equal(t, []string{"low", "high"}, tickers(in))
}

func TestRank_UnknownEnumsWeighZero(t *testing.T) {
	in := []contracts.Candidate{
		cand("unknown", "UNKNOWN", contracts.GradeS, 1_000_000),
		cand("wait", contracts.ActionWait, contracts.GradeC, 1),
		cand("ready", contracts.ActionReady, contracts.GradeC, 1),
		cand("notrade", contracts.ActionNoTrade, contracts.GradeA, 10),
		cand("badgrade", contracts.ActionNoTrade, "Z", 999_999_999),
	}

	out := tickers(Rank(in))

	// UNKNOWN action sorts below WAIT and READY, then competes with
	// NO_TRADE on grade (S beats A).
	assert.Equal(t, []string{"ready", "wait", "unknown", "notrade", "badgrade"}, out)
}

func TestRank_StableTieBreak(t *testing.T) {
	in := []contracts.Candidate{
		cand("first", contracts.ActionWait, contracts.GradeB, 500),
		cand("second", contracts.ActionWait, contracts.GradeB, 500),
		cand("third", contracts.ActionWait, contracts.GradeB, 500),
	}

	assert.Equal(t, []string{"first", "second", "third"}, tickers(Rank(in)))
}

func TestRank_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(13))

	for round := 0; round < 50; round++ {
		in := randomCandidates(r, r.Intn(40))
		out := Rank(in)

		// total order
		sortedByPriority(t, out)

		// idempotence
		assert.Equal(t, out, Rank(out))

		// permutation of the input
		a, b := tickers(in), tickers(out)
		sort.Strings(a)
		sort.Strings(b)
		assert.Equal(t, a, b)
	}
}

func TestCompare(t *testing.T) {
	ready := cand("r", contracts.ActionReady, contracts.GradeC, 0)
	wait := cand("w", contracts.ActionWait, contracts.GradeS, 1e12)

	assert.Negative(t, Compare(&ready, &wait))
	assert.Positive(t, Compare(&wait, &ready))
	assert.Zero(t, Compare(&ready, &ready))
}

func TestWithPositions(t *testing.T) {
	in := []contracts.Candidate{
		cand("C", contracts.ActionWait, contracts.GradeS, 1000),
		cand("B", contracts.ActionReady, contracts.GradeS, 50),
	}

	ranked := WithPositions(in)
	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].Ticker)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.True(t, ranked[0].IsTopRanked(1))
	assert.False(t, ranked[1].IsTopRanked(1))
}
