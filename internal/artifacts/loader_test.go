package artifacts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/pkg/logger"
)

// memSource serves artifacts from a map and counts fetches
type memSource struct {
	mu      sync.Mutex
	files   map[string]string
	fail    map[string]error
	fetched []string
}

func (m *memSource) Kind() string { return "memory" }

func (m *memSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, name)

	if err, ok := m.fail[name]; ok {
		return nil, err
	}
	body, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return []byte(body), nil
}

const (
	metaJSON    = `{"asOf":"2026-10-16T16:05:12","source":["KRX"],"universeSize":1843,"version":"v1.5.0","status":"ok","errors":[]}`
	sectorsJSON = `{"asOf":"2026-10-16","items":[{"sector":"반도체","score":4121,"turnover":2315000000000,"topTickers":["SK하이닉스"]}]}`
	watchJSON   = `{"asOf":"2026-10-16","items":[
		{"ticker":"005930","name":"삼성전자","sector":"반도체","action":"WAIT","grade":"S","close":72500,"change":1.1,"volume":1210000000000,"why":[],"entry":{"price":72500},"stop":{"price":70325},"target":{"price":79025,"rr":3}},
		{"ticker":"000660","name":"SK하이닉스","sector":"반도체","action":"READY","grade":"S","close":198000,"change":5.4,"volume":980000000000,"why":["HBM"],"entry":{"price":0},"stop":{"price":0},"target":{"price":0}}
	]}`
	quantJSON = `{"반도체":{"slope":0.1,"intercept":0,"items":[{"code":"005930","name":"삼성전자","pbr":1.1,"roe":8.4},{"code":"000660","name":"SK하이닉스","pbr":2.0,"roe":21.7}]}}`
	sdiJSON   = `{"summary":{"total_return":8.5,"trade_count":4},"equity_curve":[{"date":"2026-07-01","equity":10000000},{"date":"2026-07-02","equity":10850000}]}`
	newsJSON  = `{"global":[],"specific":{"000660":[{"source":"@IDEA_MEMO","date":"2026-10-16 09:01","text":"OP 서프라이즈","link":"https://t.me/IDEA_MEMO/911"}]}}`
)

func fullSource() *memSource {
	return &memSource{files: map[string]string{
		"meta.json":           metaJSON,
		"sector_leaders.json": sectorsJSON,
		"watchlist.json":      watchJSON,
		"quant_stats.json":    quantJSON,
		"sdi_backtest.json":   sdiJSON,
		"telegram_news.json":  newsJSON,
	}}
}

func TestLoader_Load(t *testing.T) {
	src := fullSource()
	loader := NewLoader(src, DefaultNames(), logger.Nop())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ok", snap.Meta.Status)
	assert.Equal(t, 1843, snap.Meta.UniverseSize)
	require.Len(t, snap.Sectors, 1)
	assert.Equal(t, "반도체", snap.Sectors[0].Sector)

	require.Len(t, snap.Watchlist, 2)
	// fetch order preserved; ranking happens later
	assert.Equal(t, "005930", snap.Watchlist[0].Ticker)
	assert.Equal(t, contracts.ActionReady, snap.Watchlist[1].Action)

	require.Contains(t, snap.Quant, "반도체")
	assert.Len(t, snap.Quant["반도체"].Items, 2)

	require.Contains(t, snap.Backtests, "sdi")
	assert.NotContains(t, snap.Backtests, "wallstreet")
	assert.Equal(t, 4, snap.Backtests["sdi"].Summary.TradeCount)

	assert.Len(t, snap.News.ForTicker("000660"), 1)
	assert.False(t, snap.LoadedAt.IsZero())

	// every artifact requested exactly once
	assert.ElementsMatch(t, []string{
		"meta.json", "sector_leaders.json", "watchlist.json", "quant_stats.json",
		"telegram_news.json", "sdi_backtest.json", "wallstreet_backtest.json",
	}, src.fetched)
}

func TestLoader_OptionalArtifactsMissing(t *testing.T) {
	src := &memSource{files: map[string]string{
		"meta.json":           metaJSON,
		"sector_leaders.json": `{"items":null}`,
		"watchlist.json":      `{"items":[]}`,
	}}

	snap, err := NewLoader(src, DefaultNames(), logger.Nop()).Load(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, snap.Sectors)
	assert.Empty(t, snap.Watchlist)
	assert.NotNil(t, snap.Quant)
	assert.Empty(t, snap.Quant)
	assert.Empty(t, snap.Backtests)
	assert.Empty(t, snap.News.Global)
}

func TestLoader_RequiredArtifactMissing(t *testing.T) {
	src := fullSource()
	delete(src.files, "watchlist.json")

	_, err := NewLoader(src, DefaultNames(), logger.Nop()).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "watchlist.json")
}

func TestLoader_SourceFailure(t *testing.T) {
	boom := errors.New("connection reset")
	src := fullSource()
	src.fail = map[string]error{"quant_stats.json": boom}

	_, err := NewLoader(src, DefaultNames(), logger.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestLoader_InvalidPayloads(t *testing.T) {
	tests := []struct {
		name     string
		artifact string
		body     string
		wantMsg  string
	}{
		{
			name:     "malformed json",
			artifact: "meta.json",
			body:     `{"status":`,
			wantMsg:  "decode meta.json",
		},
		{
			name:     "meta without status",
			artifact: "meta.json",
			body:     `{"asOf":"2026-10-16"}`,
			wantMsg:  "Status is required",
		},
		{
			name:     "candidate without ticker",
			artifact: "watchlist.json",
			body:     `{"items":[{"name":"삼성전자","volume":1}]}`,
			wantMsg:  "Ticker is required",
		},
		{
			name:     "negative volume",
			artifact: "watchlist.json",
			body:     `{"items":[{"ticker":"005930","name":"삼성전자","volume":-1}]}`,
			wantMsg:  "Volume must be greater than or equal to 0",
		},
		{
			name:     "valuation item without code",
			artifact: "quant_stats.json",
			body:     `{"반도체":{"items":[{"name":"삼성전자","pbr":1.1,"roe":8.4}]}}`,
			wantMsg:  "Code is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fullSource()
			src.files[tt.artifact] = tt.body

			_, err := NewLoader(src, DefaultNames(), logger.Nop()).Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoader_UnknownEnumsAreAccepted(t *testing.T) {
	src := fullSource()
	src.files["watchlist.json"] = `{"items":[{"ticker":"489790","name":"한화비전","action":"WATCH","grade":"Z","volume":1}]}`

	snap, err := NewLoader(src, DefaultNames(), logger.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contracts.Action("WATCH"), snap.Watchlist[0].Action)
}

func TestLoader_ValidationErrorType(t *testing.T) {
	src := fullSource()
	src.files["meta.json"] = `{}`

	_, err := NewLoader(src, DefaultNames(), logger.Nop()).Load(context.Background())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "meta.json", verr.Artifact)
	assert.Len(t, verr.Fields, 2) // asOf, status
}

func TestNames_All(t *testing.T) {
	all := DefaultNames().All()

	require.Len(t, all, 7)
	assert.Equal(t, Artifact{Name: "meta.json", Required: true}, all[0])
	assert.Equal(t, Artifact{Name: "sector_leaders.json", Required: true}, all[1])
	assert.Equal(t, Artifact{Name: "watchlist.json", Required: true}, all[2])
	assert.Equal(t, Artifact{Name: "quant_stats.json"}, all[3])
	assert.Equal(t, Artifact{Name: "telegram_news.json"}, all[4])
	// backtests sorted by strategy: sdi < wallstreet
	assert.Equal(t, "sdi_backtest.json", all[5].Name)
	assert.Equal(t, "wallstreet_backtest.json", all[6].Name)
}
