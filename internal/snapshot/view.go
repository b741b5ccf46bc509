package snapshot

import (
	"sort"
	"time"

	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/internal/dashboardconfig"
	"github.com/wonny/fortunelab/internal/ranking"
	"github.com/wonny/fortunelab/internal/valuation"
)

// View is the computed, read-only state of one snapshot
// ⭐ SSOT: API/렌더링은 View만 읽음 (원본 Snapshot 직접 접근 금지)
type View struct {
	Meta       contracts.Meta           `json:"meta"`
	Sectors    []contracts.SectorLeader `json:"sectors"`   // top N by input order
	Watchlist  []ranking.Ranked         `json:"watchlist"` // ranked
	Quant      []valuation.SectorFit    `json:"quant"`     // sorted by sector name
	Backtests  []BacktestPanel          `json:"backtests"` // sorted by strategy
	News       contracts.NewsFeed       `json:"news"`
	LoadedAt   time.Time                `json:"loaded_at"`
	Generation uint64                   `json:"generation"`

	WhyBadges int `json:"-"`
}

// BacktestPanel is one strategy's report with derived statistics
type BacktestPanel struct {
	Strategy string                   `json:"strategy"`
	Report   contracts.BacktestReport `json:"report"`
	Stats    BacktestStats            `json:"stats"`
}

// BacktestStats summarises an equity curve
type BacktestStats struct {
	FinalEquity float64 `json:"final_equity"`
	TotalReturn float64 `json:"total_return"` // percent, from the report summary
	MaxDrawdown float64 `json:"max_drawdown"` // fraction, <= 0
	TradeCount  int     `json:"trade_count"`
	Points      int     `json:"points"`
}

// Build computes a View from a loaded snapshot.
// Ranking and valuation run fresh on every call; nothing is reused from a
// previous view.
func Build(snap *contracts.Snapshot, cfg *dashboardconfig.Config) *View {
	topN := cfg.Display.TopSectors
	sectors := snap.Sectors
	if topN > 0 && len(sectors) > topN {
		sectors = sectors[:topN]
	}

	view := &View{
		Meta:      snap.Meta,
		Sectors:   append([]contracts.SectorLeader{}, sectors...),
		Watchlist: ranking.WithPositions(snap.Watchlist),
		Quant:     valuation.FitSectors(snap.Quant, cfg.ValuationOptions()),
		Backtests: buildBacktests(snap.Backtests),
		News:      snap.News,
		LoadedAt:  snap.LoadedAt,
		WhyBadges: cfg.Display.WhyBadges,
	}

	return view
}

func buildBacktests(reports map[string]contracts.BacktestReport) []BacktestPanel {
	strategies := make([]string, 0, len(reports))
	for strategy := range reports {
		strategies = append(strategies, strategy)
	}
	sort.Strings(strategies)

	panels := make([]BacktestPanel, 0, len(strategies))
	for _, strategy := range strategies {
		report := reports[strategy]
		panels = append(panels, BacktestPanel{
			Strategy: strategy,
			Report:   report,
			Stats:    computeStats(report),
		})
	}
	return panels
}

func computeStats(report contracts.BacktestReport) BacktestStats {
	stats := BacktestStats{
		TotalReturn: report.Summary.TotalReturn,
		TradeCount:  report.Summary.TradeCount,
		Points:      len(report.EquityCurve),
		MaxDrawdown: maxDrawdown(report.EquityCurve),
	}
	if n := len(report.EquityCurve); n > 0 {
		stats.FinalEquity = report.EquityCurve[n-1].Equity
	}
	return stats
}

// maxDrawdown returns the deepest peak-to-trough decline as a fraction (<= 0)
func maxDrawdown(curve []contracts.EquityPoint) float64 {
	peak := 0.0
	maxDD := 0.0

	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (p.Equity - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

// Candidate looks up a ranked watchlist row by ticker
func (v *View) Candidate(ticker string) (*ranking.Ranked, bool) {
	for i := range v.Watchlist {
		if v.Watchlist[i].Ticker == ticker {
			return &v.Watchlist[i], true
		}
	}
	return nil, false
}

// Sector looks up a sector's valuation fit
func (v *View) Sector(name string) (*valuation.SectorFit, bool) {
	for i := range v.Quant {
		if v.Quant[i].Sector == name {
			return &v.Quant[i], true
		}
	}
	return nil, false
}

// NewsFor returns research mentions of a ticker
func (v *View) NewsFor(ticker string) []contracts.NewsMention {
	return v.News.ForTicker(ticker)
}

// FitFailures counts sectors without a usable regression
func (v *View) FitFailures() int {
	n := 0
	for i := range v.Quant {
		if !v.Quant[i].OK() {
			n++
		}
	}
	return n
}
