package valuation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wonny/fortunelab/internal/contracts"
)

// ErrTooFewItems marks a sector that fitted but has fewer items than the
// configured minimum. Empty and degenerate sectors keep their own errors.
var ErrTooFewItems = errors.New("valuation: too few items in sector")

// SectorFit is the outcome of fitting one sector
type SectorFit struct {
	Sector string  `json:"sector"`
	Items  int     `json:"items"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	Reason string  `json:"reason,omitempty"` // Reason(Err)
	Error  string  `json:"error,omitempty"`
}

// OK reports whether the sector has a usable regression
func (s *SectorFit) OK() bool {
	return s.Err == nil && s.Result != nil
}

// Options tunes FitSectors
type Options struct {
	CheapCount     int
	MinSectorItems int
}

// FitSectors fits every sector independently, sorted by sector name.
// A failed sector keeps its error so the view can render an empty state.
func FitSectors(stats contracts.QuantStats, opts Options) []SectorFit {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	cheap := opts.CheapCount
	if cheap <= 0 {
		cheap = DefaultCheapCount
	}

	fits := make([]SectorFit, 0, len(names))
	for _, name := range names {
		items := stats[name].Items
		fit := SectorFit{Sector: name, Items: len(items)}

		// 최소 종목 수는 회귀가 성립한 섹터에만 적용 (empty/degenerate 우선)
		fit.Result, fit.Err = FitN(items, cheap)
		if fit.Err == nil && opts.MinSectorItems > 0 && len(items) < opts.MinSectorItems {
			fit.Err = fmt.Errorf("%w: %d < %d", ErrTooFewItems, len(items), opts.MinSectorItems)
		}
		if fit.Err != nil {
			fit.Result = nil
			fit.Reason = Reason(fit.Err)
			fit.Error = fit.Err.Error()
		}

		fits = append(fits, fit)
	}

	return fits
}
