package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/internal/ranking"
	"github.com/wonny/fortunelab/internal/snapshot"
	"github.com/wonny/fortunelab/internal/valuation"
)

//go:embed templates/*.html
var templateFS embed.FS

// Tabs of the dashboard page, in display order
const (
	TabWatchlist = "watchlist"
	TabQuant     = "quant"
	TabBacktest  = "backtest"
	TabNews      = "news"
)

// Tabs lists every tab with its label
var Tabs = []Tab{
	{ID: TabWatchlist, Label: "워치리스트"},
	{ID: TabQuant, Label: "퀀트"},
	{ID: TabBacktest, Label: "백테스트"},
	{ID: TabNews, Label: "뉴스"},
}

// Tab is one navigation entry
type Tab struct {
	ID    string
	Label string
}

// NormalizeTab maps an unknown or empty tab to the watchlist
func NormalizeTab(tab string) string {
	for _, t := range Tabs {
		if t.ID == tab {
			return tab
		}
	}
	return TabWatchlist
}

// PageData is the input of the full page
type PageData struct {
	View  *snapshot.View // nil before the first refresh
	Tab   string
	Error string // last refresh error, shown above the content
}

type pageModel struct {
	PageData
	Tabs    []Tab
	Sectors []quantModel
	Modals  []modalModel
}

// topHighlight is how many leading cards get the highlighted style
const topHighlight = 3

type candidateModel struct {
	ranking.Ranked
	Badges        []string
	More          int
	Top           bool
	UnknownAction bool // 생성 스크립트가 새 action 값을 내보낸 경우
}

type modalModel struct {
	Candidate *ranking.Ranked
	News      []contracts.NewsMention
	Open      bool
}

type quantModel struct {
	Fit     *valuation.SectorFit
	Scatter *Scatter
	Table   []valuation.Point
}

// Renderer renders the dashboard's HTML
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.New("dashboard").Funcs(funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"price":       Price,
		"change":      Change,
		"changeClass": ChangeClass,
		"eok":         Eok,
		"rr":          RR,
		"score":       Score,
		"percent":     Percent,
		"ratio":       Ratio,
		"asOf":        AsOf,
		"reasonText":  ReasonText,
		"inc":         func(i int) int { return i + 1 },
		"candidate":   newCandidate,
	}
}

func newCandidate(r ranking.Ranked, badges int) candidateModel {
	why := r.TopReasons(badges)
	return candidateModel{
		Ranked:        r,
		Badges:        why,
		More:          len(r.Why) - len(why),
		Top:           r.IsTopRanked(topHighlight),
		UnknownAction: !r.Action.Known(),
	}
}

// Page renders the complete dashboard document
func (r *Renderer) Page(w io.Writer, data PageData) error {
	data.Tab = NormalizeTab(data.Tab)

	model := pageModel{PageData: data, Tabs: Tabs}
	if view := data.View; view != nil {
		switch data.Tab {
		case TabWatchlist:
			// 정적 페이지에서도 동작하도록 모달을 :target 다이얼로그로 포함
			model.Modals = make([]modalModel, 0, len(view.Watchlist))
			for i := range view.Watchlist {
				c := &view.Watchlist[i]
				model.Modals = append(model.Modals, modalModel{Candidate: c, News: view.NewsFor(c.Ticker)})
			}
		case TabQuant:
			model.Sectors = make([]quantModel, 0, len(view.Quant))
			for i := range view.Quant {
				model.Sectors = append(model.Sectors, newQuant(&view.Quant[i]))
			}
		}
	}

	return r.tmpl.ExecuteTemplate(w, "page", model)
}

// Watchlist renders the sector cards and candidate list fragment
func (r *Renderer) Watchlist(w io.Writer, view *snapshot.View) error {
	return r.tmpl.ExecuteTemplate(w, "watchlist", view)
}

// Modal renders the candidate detail fragment
func (r *Renderer) Modal(w io.Writer, view *snapshot.View, ticker string) error {
	c, ok := view.Candidate(ticker)
	if !ok {
		return fmt.Errorf("candidate %s: %w", ticker, ErrNotFound)
	}
	return r.tmpl.ExecuteTemplate(w, "modal", modalModel{Candidate: c, News: view.NewsFor(ticker), Open: true})
}

// Quant renders one sector's valuation panel (scatter or empty state)
func (r *Renderer) Quant(w io.Writer, fit *valuation.SectorFit) error {
	return r.tmpl.ExecuteTemplate(w, "quant", newQuant(fit))
}

func newQuant(fit *valuation.SectorFit) quantModel {
	m := quantModel{Fit: fit, Scatter: NewScatter(fit)}
	if fit.OK() {
		m.Table = fit.Result.ByResidual()
	}
	return m
}
