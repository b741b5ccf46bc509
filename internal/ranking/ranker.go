package ranking

import (
	"sort"

	"github.com/wonny/fortunelab/internal/contracts"
)

// Ranked is a candidate with its 1-based display position
type Ranked struct {
	contracts.Candidate
	Rank int `json:"rank"`
}

// Rank orders candidates by (action, grade, volume), all descending.
// ⭐ SSOT: 워치리스트 정렬 규칙은 여기서만
//
// The sort is stable: candidates equal on all three keys keep their fetch
// order. The input slice is not modified.
func Rank(candidates []contracts.Candidate) []contracts.Candidate {
	ranked := make([]contracts.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return Compare(&ranked[i], &ranked[j]) < 0
	})

	return ranked
}

// Compare returns a negative number when a sorts before b, positive when
// after, and 0 when the priority tuples are equal.
func Compare(a, b *contracts.Candidate) int {
	// 1. Action: READY > WAIT > NO_TRADE
	if d := a.Action.Weight() - b.Action.Weight(); d != 0 {
		return -d
	}

	// 2. Grade: S > A > B > C
	if d := a.Grade.Weight() - b.Grade.Weight(); d != 0 {
		return -d
	}

	// 3. 거래대금 내림차순
	switch {
	case a.Volume > b.Volume:
		return -1
	case a.Volume < b.Volume:
		return 1
	default:
		return 0
	}
}

// WithPositions ranks candidates and attaches display positions
func WithPositions(candidates []contracts.Candidate) []Ranked {
	ordered := Rank(candidates)

	out := make([]Ranked, len(ordered))
	for i := range ordered {
		out[i] = Ranked{Candidate: ordered[i], Rank: i + 1}
	}

	return out
}

// IsTopRanked checks if the candidate is within the top n positions
func (r *Ranked) IsTopRanked(n int) bool {
	return r.Rank <= n && r.Rank > 0
}
