package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/internal/dashboardconfig"
	"github.com/wonny/fortunelab/internal/snapshot"
)

func testView(t *testing.T) *snapshot.View {
	t.Helper()

	snap := &contracts.Snapshot{
		Meta: contracts.Meta{AsOf: "2026-10-16T16:05:12", Status: "ok"},
		Sectors: []contracts.SectorLeader{
			{Sector: "반도체", Score: 4121, TopTickers: []string{"SK하이닉스"}},
			{Sector: "방산", Score: 2210},
		},
		Watchlist: []contracts.Candidate{
			{
				Ticker: "005930", Name: "삼성전자", Sector: "반도체",
				Action: contracts.ActionWait, Grade: contracts.GradeS,
				Close: 72500, Change: 1.1, Volume: 1_210_000_000_000,
				Why:    []string{"외국인 순매수", "HBM3E 퀄 통과", "20일선 지지"},
				Entry:  contracts.TradeLevel{Type: "stop_limit", Price: 72500},
				Stop:   contracts.TradeLevel{Price: 70325},
				Target: contracts.TradeLevel{Price: 79025, RR: 3},
			},
			{
				Ticker: "000660", Name: "SK하이닉스", Sector: "반도체",
				Action: contracts.ActionReady, Grade: contracts.GradeS,
				Close: 198000, Change: -0.5, Volume: 980_000_000_000,
				Why: []string{"<b>OP</b> 서프라이즈"},
			},
		},
		Quant: contracts.QuantStats{
			"반도체": {Items: []contracts.ValuationItem{
				{Code: "005930", Name: "삼성전자", PBR: 1.12, ROE: 8.4},
				{Code: "000660", Name: "SK하이닉스", PBR: 2.05, ROE: 21.7},
				{Code: "042700", Name: "한미반도체", PBR: 6.8, ROE: 28.9},
				{Code: "058470", Name: "리노공업", PBR: 4.1, ROE: 19.2},
				{Code: "999999", Name: "적자기업", PBR: -1, ROE: -5},
			}},
			"은행": {Items: []contracts.ValuationItem{
				{Code: "105560", Name: "KB금융", PBR: 0.52, ROE: 9.1},
				{Code: "055550", Name: "신한지주", PBR: 0.47, ROE: 9.1},
			}},
		},
		Backtests: map[string]contracts.BacktestReport{
			"sdi": {
				Summary: contracts.BacktestSummary{TotalReturn: 8.5, TradeCount: 4},
				EquityCurve: []contracts.EquityPoint{
					{Date: "2026-07-01", Equity: 10_000_000},
					{Date: "2026-07-02", Equity: 9_000_000},
					{Date: "2026-07-03", Equity: 10_850_000},
				},
			},
		},
		News: contracts.NewsFeed{
			Global: []contracts.NewsMention{{Source: "@market", Text: "코스피 반등", Link: "https://t.me/market/1"}},
			Specific: map[string][]contracts.NewsMention{
				"000660": {{Source: "@IDEA_MEMO", Date: "2026-10-16 09:01", Text: "OP 서프라이즈", Link: "https://t.me/IDEA_MEMO/911"}},
			},
		},
	}

	view := snapshot.Build(snap, dashboardconfig.Default())
	view.Generation = 1
	return view
}

func parse(t *testing.T, buf *bytes.Buffer) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(buf)
	require.NoError(t, err)
	return doc
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestNormalizeTab(t *testing.T) {
	assert.Equal(t, TabQuant, NormalizeTab("quant"))
	assert.Equal(t, TabWatchlist, NormalizeTab(""))
	assert.Equal(t, TabWatchlist, NormalizeTab("admin"))
}

func TestPage_Watchlist(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{View: testView(t)}))
	doc := parse(t, &buf)

	assert.Equal(t, "Last Updated: 2026-10-16 16:05:12", doc.Find("#last-updated").Text())
	assert.Equal(t, "Status: ok", doc.Find("#market-status").Text())
	assert.Equal(t, "watchlist", doc.Find(".tab.active").AttrOr("data-tab", ""))
	assert.Equal(t, 4, doc.Find(".tabs .tab").Length())

	// sectors
	cards := doc.Find("#sector-list .sector-card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "#1", cards.First().Find(".sector-rank").Text())
	assert.Contains(t, cards.First().Find(".sector-score").Text(), "Score: 4,121")
	assert.Equal(t, "-", cards.Last().Find("small").Text())

	// READY ranks first
	stocks := doc.Find("#candidate-list .stock-card")
	require.Equal(t, 2, stocks.Length())
	first := stocks.First()
	assert.Equal(t, "000660", first.Find(".stock-code").Text())
	assert.Equal(t, "1", first.AttrOr("data-rank", ""))
	assert.Equal(t, "READY", first.Find(".badge.primary").Text())
	assert.Equal(t, "198,000", first.Find(".current-price").Text())
	assert.True(t, first.Find(".price-change").HasClass("text-blue"))
	assert.Equal(t, "-0.50%", first.Find(".price-change").Text())

	second := stocks.Eq(1)
	assert.Equal(t, "+1.10%", second.Find(".price-change").Text())
	assert.True(t, second.Find(".price-change").HasClass("text-red"))
	assert.Contains(t, second.Find(".volume").Text(), "거래대금 12,100억")
	// two why badges, then "+더보기"
	assert.Equal(t, 2, second.Find(".why .badge.secondary").Length())
	assert.Equal(t, "+더보기", second.Find(".more").Text())

	// modals embedded for every candidate, closed
	assert.Equal(t, 2, doc.Find("dialog.modal-detail").Length())
	_, open := doc.Find("dialog#modal-005930").Attr("open")
	assert.False(t, open)
}

func TestWatchlist_TopAndUnknownAction(t *testing.T) {
	snap := &contracts.Snapshot{Watchlist: []contracts.Candidate{
		{Ticker: "A", Name: "a", Action: contracts.ActionReady, Grade: contracts.GradeS},
		{Ticker: "B", Name: "b", Action: contracts.ActionReady, Grade: contracts.GradeA},
		{Ticker: "C", Name: "c", Action: contracts.ActionWait, Grade: contracts.GradeS},
		{Ticker: "D", Name: "d", Action: "HOLD", Grade: contracts.GradeS},
	}}
	view := snapshot.Build(snap, dashboardconfig.Default())

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Watchlist(&buf, view))
	doc := parse(t, &buf)

	tests := []struct {
		ticker  string
		top     bool
		unknown bool
	}{
		{"A", true, false},
		{"B", true, false},
		{"C", true, false},
		{"D", false, true}, // unknown action weighs like NO_TRADE, ranks last
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			card := doc.Find("#card-" + tt.ticker)
			require.Equal(t, 1, card.Length())
			assert.Equal(t, tt.top, card.HasClass("top"))
			assert.Equal(t, tt.unknown, card.Find(".badge.primary").HasClass("unknown"))
		})
	}
	assert.Equal(t, "4", doc.Find("#card-D").AttrOr("data-rank", ""))
}

func TestPage_EscapesArtifactText(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{View: testView(t)}))

	html := buf.String()
	assert.NotContains(t, html, "<b>OP</b>")
	assert.Contains(t, html, "&lt;b&gt;OP&lt;/b&gt;")
}

func TestPage_BeforeFirstRefresh(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{Tab: "quant", Error: "데이터 파일을 찾을 수 없습니다."}))
	doc := parse(t, &buf)

	assert.Equal(t, "Status: loading", doc.Find("#market-status").Text())
	assert.Contains(t, doc.Find("#error-container").Text(), "데이터 파일을 찾을 수 없습니다.")
	assert.Equal(t, "데이터를 불러오는 중입니다.", doc.Find("#main-content .empty-state").Text())
	assert.Equal(t, "quant", doc.Find(".tab.active").AttrOr("data-tab", ""))
}

func TestPage_QuantTab(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{View: testView(t), Tab: TabQuant}))
	doc := parse(t, &buf)

	sectors := doc.Find("section.quant-sector")
	require.Equal(t, 2, sectors.Length())

	semis := doc.Find(`section.quant-sector[data-sector="반도체"]`)
	assert.Equal(t, 1, semis.Find("svg.scatter").Length())
	assert.Equal(t, 4, semis.Find("circle.point").Length(), "negative PBR excluded")
	assert.Equal(t, 3, semis.Find("circle.point.cheap").Length())
	assert.Equal(t, 3, semis.Find("tr.cheap").Length())
	assert.Contains(t, semis.Find(".excluded").Text(), "제외 1")

	banks := doc.Find(`section.quant-sector[data-sector="은행"]`)
	assert.Equal(t, 0, banks.Find("svg").Length())
	empty := banks.Find(".empty-state")
	assert.Equal(t, "degenerate", empty.AttrOr("data-reason", ""))
	assert.Contains(t, empty.Text(), "ROE 분산이 0")
}

func TestPage_BacktestTab(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{View: testView(t), Tab: TabBacktest}))
	doc := parse(t, &buf)

	panel := doc.Find(`article.backtest[data-strategy="sdi"]`)
	require.Equal(t, 1, panel.Length())
	assert.Equal(t, "+8.50%", panel.Find(".total-return").Text())
	assert.Equal(t, "-10.00%", panel.Find(".max-drawdown").Text())
	assert.Equal(t, "10,850,000", panel.Find(".final-equity").Text())
	assert.Equal(t, "4", panel.Find(".trade-count").Text())
	assert.Equal(t, 3, panel.Find("table.equity tbody tr").Length())
}

func TestPage_NewsTab(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{View: testView(t), Tab: TabNews}))
	doc := parse(t, &buf)

	assert.Equal(t, 1, doc.Find(".news-list.global .mention").Length())
	ticker := doc.Find(`.ticker-news[data-ticker="000660"]`)
	require.Equal(t, 1, ticker.Length())
	assert.Equal(t, "https://t.me/IDEA_MEMO/911", ticker.Find("a").AttrOr("href", ""))
	assert.Equal(t, 0, doc.Find(`.ticker-news[data-ticker="005930"]`).Length())
}

func TestModal(t *testing.T) {
	r := newRenderer(t)
	view := testView(t)

	var buf bytes.Buffer
	require.NoError(t, r.Modal(&buf, view, "005930"))
	doc := parse(t, &buf)

	dialog := doc.Find("dialog#modal-005930")
	_, open := dialog.Attr("open")
	assert.True(t, open)
	assert.Equal(t, "삼성전자", dialog.Find(".modal-title").Text())
	assert.Equal(t, "005930 | 반도체", dialog.Find(".modal-subtitle").Text())
	assert.Equal(t, 3, dialog.Find(".modal-why-list li").Length())
	assert.True(t, strings.HasPrefix(dialog.Find(".modal-entry").Text(), "72,500"))
	assert.Equal(t, "70,325", dialog.Find(".modal-stop").Text())
	assert.Equal(t, "79,025", dialog.Find(".modal-target").Text())
	assert.Equal(t, "1 : 3", dialog.Find(".modal-rr").Text())
	assert.Equal(t, 1, dialog.Find(".no-news").Length())

	buf.Reset()
	require.NoError(t, r.Modal(&buf, view, "000660"))
	doc = parse(t, &buf)
	assert.Equal(t, 1, doc.Find(".empty-plan").Length())
	assert.Equal(t, 1, doc.Find(".modal-news .mention").Length())
}

func TestModal_UnknownTicker(t *testing.T) {
	r := newRenderer(t)

	err := r.Modal(&bytes.Buffer{}, testView(t), "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchlistFragment_Empty(t *testing.T) {
	r := newRenderer(t)
	view := snapshot.Build(&contracts.Snapshot{}, dashboardconfig.Default())

	var buf bytes.Buffer
	require.NoError(t, r.Watchlist(&buf, view))
	doc := parse(t, &buf)

	assert.Equal(t, 0, doc.Find(".stock-card").Length())
	assert.Equal(t, 2, doc.Find(".empty-state").Length())
}

func TestQuantFragment(t *testing.T) {
	r := newRenderer(t)
	view := testView(t)

	fit, ok := view.Sector("반도체")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, r.Quant(&buf, fit))
	doc := parse(t, &buf)

	line := doc.Find("line.fit-line")
	require.Equal(t, 1, line.Length())
	assert.NotEmpty(t, line.AttrOr("x1", ""))
	assert.Contains(t, doc.Find(".fit-summary").Text(), "× ROE +")
}
