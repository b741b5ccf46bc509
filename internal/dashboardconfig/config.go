package dashboardconfig

import (
	"github.com/wonny/fortunelab/internal/artifacts"
	"github.com/wonny/fortunelab/internal/valuation"
)

// Config는 대시보드 표시/밸류에이션 설정
type Config struct {
	Display   Display   `yaml:"display" json:"display"`
	Valuation Valuation `yaml:"valuation" json:"valuation"`
	Artifacts Artifacts `yaml:"artifacts" json:"artifacts"`
}

// Display controls how much of each section is rendered
type Display struct {
	TopSectors int `yaml:"top_sectors" json:"top_sectors" default:"5" validate:"gte=1,lte=50"`
	WhyBadges  int `yaml:"why_badges" json:"why_badges" default:"2" validate:"gte=1,lte=10"`
}

// Valuation tunes the per-sector PBR/ROE regression
type Valuation struct {
	CheapCount     int `yaml:"cheap_count" json:"cheap_count" default:"3" validate:"gte=1"`
	MinSectorItems int `yaml:"min_sector_items" json:"min_sector_items" default:"2" validate:"gte=2"` // 회귀선은 최소 2점
}

// Artifacts names the files published by the generator scripts
type Artifacts struct {
	Meta          string            `yaml:"meta" json:"meta" default:"meta.json" validate:"required"`
	SectorLeaders string            `yaml:"sector_leaders" json:"sector_leaders" default:"sector_leaders.json" validate:"required"`
	Watchlist     string            `yaml:"watchlist" json:"watchlist" default:"watchlist.json" validate:"required"`
	Quant         string            `yaml:"quant" json:"quant" default:"quant_stats.json" validate:"required"`
	News          string            `yaml:"news" json:"news" default:"telegram_news.json" validate:"required"`
	Backtests     map[string]string `yaml:"backtests" json:"backtests" default:"{\"sdi\":\"sdi_backtest.json\",\"wallstreet\":\"wallstreet_backtest.json\"}" validate:"dive,required"`
}

// ToNames converts the artifact section for the loader
func (c *Config) ToNames() artifacts.Names {
	backtests := make(map[string]string, len(c.Artifacts.Backtests))
	for strategy, file := range c.Artifacts.Backtests {
		backtests[strategy] = file
	}

	return artifacts.Names{
		Meta:          c.Artifacts.Meta,
		SectorLeaders: c.Artifacts.SectorLeaders,
		Watchlist:     c.Artifacts.Watchlist,
		Quant:         c.Artifacts.Quant,
		News:          c.Artifacts.News,
		Backtests:     backtests,
	}
}

// ValuationOptions converts the valuation section for valuation.FitSectors
func (c *Config) ValuationOptions() valuation.Options {
	return valuation.Options{
		CheapCount:     c.Valuation.CheapCount,
		MinSectorItems: c.Valuation.MinSectorItems,
	}
}
