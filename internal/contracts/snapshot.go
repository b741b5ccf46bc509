package contracts

import "time"

// Snapshot is every artifact loaded in one refresh cycle.
// It is immutable once loaded and replaced wholesale on the next refresh.
type Snapshot struct {
	Meta      Meta
	Sectors   []SectorLeader
	Watchlist []Candidate
	Quant     QuantStats
	Backtests map[string]BacktestReport // key: strategy ("sdi", "wallstreet")
	News      NewsFeed
	LoadedAt  time.Time
}

