package valuation

import (
	"math"
	"sort"

	"github.com/wonny/fortunelab/internal/contracts"
)

// DefaultCheapCount is how many lowest-residual items are flagged cheap
const DefaultCheapCount = 3

// Point is one eligible item after the fit
type Point struct {
	contracts.ValuationItem
	ExpectedPBR      float64 `json:"expected_pbr"`
	Residual         float64 `json:"residual"`          // PBR - expected (음수 = 회귀선 아래)
	UndervaluedScore float64 `json:"undervalued_score"` // residual / PBR
	IsUndervalued    bool    `json:"is_undervalued"`
	IsCheap          bool    `json:"is_cheap"`
}

// Result is the OLS fit of PBR on ROE for one sector
type Result struct {
	Slope         float64   `json:"slope"`
	Intercept     float64   `json:"intercept"`
	Residuals     []float64 `json:"residuals"` // aligned with Points
	ExcludedCount int       `json:"excluded_count"`
	Points        []Point   `json:"points"` // eligible items, input order
	Cheap         []Point   `json:"cheap"`  // lowest residuals first
}

// Fit runs an ordinary least-squares regression pbr = slope*roe + intercept
// and flags the DefaultCheapCount lowest-residual items as cheap.
// ⭐ SSOT: PBR-ROE 회귀 계산은 여기서만
//
// Items with pbr <= 0 or a non-finite pbr/roe are excluded from both the fit
// and the cheap ranking; ExcludedCount reports how many were dropped.
func Fit(items []contracts.ValuationItem) (*Result, error) {
	return FitN(items, DefaultCheapCount)
}

// FitN is Fit with a custom cheap count
func FitN(items []contracts.ValuationItem, cheapCount int) (*Result, error) {
	eligible, excluded := filterEligible(items)
	if len(eligible) == 0 {
		return nil, ErrEmptyInput
	}

	n := float64(len(eligible))

	var sumROE, sumPBR float64
	for _, it := range eligible {
		sumROE += it.ROE
		sumPBR += it.PBR
	}
	meanROE := sumROE / n
	meanPBR := sumPBR / n

	var cov, variance float64
	for _, it := range eligible {
		dx := it.ROE - meanROE
		cov += dx * (it.PBR - meanPBR)
		variance += dx * dx
	}

	// 부동소수 평균 오차로 variance가 0이 아닐 수 있어 동일 ROE를 직접 확인
	if variance == 0 || sameROE(eligible) {
		return nil, &DegenerateInputError{ROE: eligible[0].ROE, Items: len(eligible)}
	}

	slope := cov / variance
	intercept := meanPBR - slope*meanROE

	res := &Result{
		Slope:         slope,
		Intercept:     intercept,
		ExcludedCount: excluded,
		Residuals:     make([]float64, len(eligible)),
		Points:        make([]Point, len(eligible)),
	}

	for i, it := range eligible {
		expected := slope*it.ROE + intercept
		residual := it.PBR - expected

		res.Residuals[i] = residual
		res.Points[i] = Point{
			ValuationItem:    it,
			ExpectedPBR:      expected,
			Residual:         residual,
			UndervaluedScore: residual / it.PBR,
			IsUndervalued:    residual < 0,
		}
	}

	res.flagCheap(cheapCount)

	return res, nil
}

// filterEligible drops items that cannot take part in the fit
func filterEligible(items []contracts.ValuationItem) ([]contracts.ValuationItem, int) {
	eligible := make([]contracts.ValuationItem, 0, len(items))
	for _, it := range items {
		if !isFinite(it.PBR) || !isFinite(it.ROE) || it.PBR <= 0 {
			continue
		}
		eligible = append(eligible, it)
	}
	return eligible, len(items) - len(eligible)
}

func sameROE(items []contracts.ValuationItem) bool {
	for _, it := range items[1:] {
		if it.ROE != items[0].ROE {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// flagCheap sorts point indices by residual ascending and marks the first n
func (r *Result) flagCheap(n int) {
	order := make([]int, len(r.Points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.Points[order[a]].Residual < r.Points[order[b]].Residual
	})

	if n > len(order) {
		n = len(order)
	}
	if n < 0 {
		n = 0
	}

	r.Cheap = make([]Point, 0, n)
	for _, idx := range order[:n] {
		r.Points[idx].IsCheap = true
		r.Cheap = append(r.Cheap, r.Points[idx])
	}
}

// Predict evaluates the fitted line at roe
func (r *Result) Predict(roe float64) float64 {
	return r.Slope*roe + r.Intercept
}

// Line returns the fitted line's endpoints over the observed ROE range
func (r *Result) Line() (x1, y1, x2, y2 float64) {
	minROE, maxROE := math.Inf(1), math.Inf(-1)
	for _, p := range r.Points {
		minROE = math.Min(minROE, p.ROE)
		maxROE = math.Max(maxROE, p.ROE)
	}
	return minROE, r.Predict(minROE), maxROE, r.Predict(maxROE)
}

// ByResidual returns the points sorted by residual ascending (most
// undervalued first), the order the quant table is shown in.
func (r *Result) ByResidual() []Point {
	out := make([]Point, len(r.Points))
	copy(out, r.Points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Residual < out[j].Residual
	})
	return out
}
