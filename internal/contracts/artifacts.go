package contracts

// Meta is the content of meta.json
type Meta struct {
	AsOf         string   `json:"asOf" validate:"required"`
	Source       []string `json:"source"`
	UniverseSize int      `json:"universeSize" validate:"gte=0"`
	Version      string   `json:"version"`
	Status       string   `json:"status" validate:"required"`
	Errors       []string `json:"errors"`
}

// SectorLeader is one entry of sector_leaders.json
type SectorLeader struct {
	Sector     string   `json:"sector" validate:"required"`
	Score      float64  `json:"score"`
	Turnover   float64  `json:"turnover" validate:"gte=0"`
	TopTickers []string `json:"topTickers"`
}

// TopTicker returns the first leader name or "-" when there is none
func (s *SectorLeader) TopTicker() string {
	if len(s.TopTickers) == 0 || s.TopTickers[0] == "" {
		return "-"
	}
	return s.TopTickers[0]
}

// SectorLeaders is the envelope of sector_leaders.json
type SectorLeaders struct {
	AsOf  string         `json:"asOf"`
	Items []SectorLeader `json:"items" validate:"dive"`
}

// Watchlist is the envelope of watchlist.json
type Watchlist struct {
	AsOf  string      `json:"asOf"`
	Items []Candidate `json:"items" validate:"dive"`
}

// ValuationItem is one stock in a sector's PBR/ROE table
type ValuationItem struct {
	Code string  `json:"code" validate:"required"`
	Name string  `json:"name"`
	PBR  float64 `json:"pbr"`
	ROE  float64 `json:"roe"`
}

// SectorValuation is the regression input for one sector
type SectorValuation struct {
	Items []ValuationItem `json:"items" validate:"dive"`
}

// QuantStats is quant_stats.json: sector name -> valuation table.
// Pre-computed slope/intercept/residual fields in the file are ignored;
// the fit is recomputed from the items on every refresh.
type QuantStats map[string]SectorValuation

// EquityPoint is one sample of a backtest equity curve
type EquityPoint struct {
	Date   string  `json:"date" validate:"required"`
	Equity float64 `json:"equity"`
}

// BacktestSummary is the headline of a backtest report
type BacktestSummary struct {
	TotalReturn float64 `json:"total_return"` // percent
	TradeCount  int     `json:"trade_count" validate:"gte=0"`
}

// BacktestReport is the content of a *_backtest.json artifact
type BacktestReport struct {
	Summary     BacktestSummary `json:"summary"`
	EquityCurve []EquityPoint   `json:"equity_curve" validate:"dive"`
}

// NewsMention is one message picked up from a research channel
type NewsMention struct {
	Source   string   `json:"source"`
	Date     string   `json:"date"`
	Text     string   `json:"text"`
	Link     string   `json:"link"`
	Keywords []string `json:"keywords,omitempty"`
}

// NewsFeed is telegram_news.json
type NewsFeed struct {
	Global   []NewsMention            `json:"global"`
	Specific map[string][]NewsMention `json:"specific"` // key: ticker
}

// ForTicker returns mentions of a single watchlist ticker
func (n *NewsFeed) ForTicker(ticker string) []NewsMention {
	if n == nil || n.Specific == nil {
		return nil
	}
	return n.Specific[ticker]
}
