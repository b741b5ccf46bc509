package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/pkg/logger"
)

// Names maps each artifact to its file name
type Names struct {
	Meta          string
	SectorLeaders string
	Watchlist     string
	Quant         string
	News          string
	Backtests     map[string]string // strategy -> file
}

// DefaultNames returns the file names the generator scripts publish
func DefaultNames() Names {
	return Names{
		Meta:          "meta.json",
		SectorLeaders: "sector_leaders.json",
		Watchlist:     "watchlist.json",
		Quant:         "quant_stats.json",
		News:          "telegram_news.json",
		Backtests: map[string]string{
			"sdi":        "sdi_backtest.json",
			"wallstreet": "wallstreet_backtest.json",
		},
	}
}

// Artifact is one named artifact and whether a load needs it
type Artifact struct {
	Name     string
	Required bool
}

// All lists every artifact: required ones first, backtests sorted by strategy
func (n Names) All() []Artifact {
	out := []Artifact{
		{Name: n.Meta, Required: true},
		{Name: n.SectorLeaders, Required: true},
		{Name: n.Watchlist, Required: true},
		{Name: n.Quant},
		{Name: n.News},
	}

	strategies := make([]string, 0, len(n.Backtests))
	for strategy := range n.Backtests {
		strategies = append(strategies, strategy)
	}
	sort.Strings(strategies)
	for _, strategy := range strategies {
		out = append(out, Artifact{Name: n.Backtests[strategy]})
	}

	return out
}

// Loader fetches and validates one snapshot of artifacts
// ⭐ SSOT: 산출물 로딩/검증은 여기서만
type Loader struct {
	source   Source
	names    Names
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

// NewLoader creates a loader over source
func NewLoader(source Source, names Names, log *logger.Logger) *Loader {
	return &Loader{
		source:   source,
		names:    names,
		validate: validator.New(),
		logger:   log,
		now:      time.Now,
	}
}

// Load fetches every artifact in parallel.
// meta, sector leaders and watchlist are required; the rest degrade to
// empty sections when missing. Any invalid payload fails the load.
func (l *Loader) Load(ctx context.Context) (*contracts.Snapshot, error) {
	start := l.now()

	var (
		meta    contracts.Meta
		sectors contracts.SectorLeaders
		watch   contracts.Watchlist
		quant   contracts.QuantStats
		news    contracts.NewsFeed
	)

	strategies := make([]string, 0, len(l.names.Backtests))
	for strategy := range l.names.Backtests {
		strategies = append(strategies, strategy)
	}
	reports := make([]contracts.BacktestReport, len(strategies))
	found := make([]bool, len(strategies))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return l.required(gctx, l.names.Meta, &meta)
	})
	g.Go(func() error {
		return l.required(gctx, l.names.SectorLeaders, &sectors)
	})
	g.Go(func() error {
		return l.required(gctx, l.names.Watchlist, &watch)
	})
	g.Go(func() error {
		ok, err := l.optional(gctx, l.names.Quant, &quant)
		if err != nil || !ok {
			return err
		}
		for sector, sv := range quant {
			if err := validateArtifact(l.validate, l.names.Quant+"/"+sector, sv); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		_, err := l.optional(gctx, l.names.News, &news)
		return err
	})
	for i, strategy := range strategies {
		i, name := i, l.names.Backtests[strategy]
		g.Go(func() error {
			ok, err := l.optional(gctx, name, &reports[i])
			found[i] = ok
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &contracts.Snapshot{
		Meta:      meta,
		Sectors:   sectors.Items,
		Watchlist: watch.Items,
		Quant:     quant,
		Backtests: make(map[string]contracts.BacktestReport),
		News:      news,
		LoadedAt:  l.now(),
	}
	if snap.Sectors == nil {
		snap.Sectors = []contracts.SectorLeader{}
	}
	if snap.Watchlist == nil {
		snap.Watchlist = []contracts.Candidate{}
	}
	if snap.Quant == nil {
		snap.Quant = contracts.QuantStats{}
	}
	for i, strategy := range strategies {
		if found[i] {
			snap.Backtests[strategy] = reports[i]
		}
	}

	l.logger.WithFields(map[string]interface{}{
		"source":     l.source.Kind(),
		"as_of":      meta.AsOf,
		"sectors":    len(snap.Sectors),
		"candidates": len(snap.Watchlist),
		"quant":      len(snap.Quant),
		"backtests":  len(snap.Backtests),
		"duration":   snap.LoadedAt.Sub(start),
	}).Debug("Artifacts loaded")

	return snap, nil
}

// required fetches, decodes and validates an artifact that must exist
func (l *Loader) required(ctx context.Context, name string, dest interface{}) error {
	data, err := l.source.Fetch(ctx, name)
	if err != nil {
		return fmt.Errorf("required artifact %s: %w", name, err)
	}
	return l.decode(name, data, dest)
}

// optional is like required but reports (false, nil) when the artifact is missing
func (l *Loader) optional(ctx context.Context, name string, dest interface{}) (bool, error) {
	if name == "" {
		return false, nil
	}

	data, err := l.source.Fetch(ctx, name)
	if errors.Is(err, ErrNotFound) {
		l.logger.WithField("artifact", name).Debug("Optional artifact missing")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("optional artifact %s: %w", name, err)
	}

	if err := l.decode(name, data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Loader) decode(name string, data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	// map payloads (quant_stats) are validated per entry by the caller
	if _, isQuant := dest.(*contracts.QuantStats); isQuant {
		return nil
	}

	return validateArtifact(l.validate, name, dest)
}
