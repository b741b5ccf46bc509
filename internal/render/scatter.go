package render

import (
	"math"

	"github.com/wonny/fortunelab/internal/valuation"
)

// SVG canvas
const (
	plotWidth   = 480.0
	plotHeight  = 320.0
	plotPadding = 40.0
)

// Scatter is the pixel geometry of a sector's PBR/ROE scatter plot.
// X is ROE, Y is PBR (inverted for SVG).
type Scatter struct {
	Width, Height float64
	Points        []ScatterPoint
	Line          [4]float64 // x1 y1 x2 y2
	XMin, XMax    float64
	YMin, YMax    float64
	Left, Right   float64
	Top, Bottom   float64
}

// ScatterPoint is one stock on the plot
type ScatterPoint struct {
	X, Y     float64
	Code     string
	Name     string
	PBR, ROE float64
	Residual float64
	Cheap    bool
}

// NewScatter projects a fitted sector onto the canvas; nil when the sector
// has no usable regression.
func NewScatter(fit *valuation.SectorFit) *Scatter {
	if fit == nil || !fit.OK() || len(fit.Result.Points) == 0 {
		return nil
	}
	res := fit.Result

	x1, y1, x2, y2 := res.Line()
	xMin, xMax := x1, x2
	yMin, yMax := math.Min(y1, y2), math.Max(y1, y2)
	for _, p := range res.Points {
		yMin = math.Min(yMin, p.PBR)
		yMax = math.Max(yMax, p.PBR)
	}
	yMin = math.Min(yMin, 0) // PBR 축은 0부터
	xMin, xMax = widen(xMin, xMax)
	yMin, yMax = widen(yMin, yMax)

	s := &Scatter{
		Width:  plotWidth,
		Height: plotHeight,
		XMin:   xMin, XMax: xMax,
		YMin: yMin, YMax: yMax,
		Left:   plotPadding,
		Right:  plotWidth - plotPadding,
		Top:    plotPadding,
		Bottom: plotHeight - plotPadding,
	}

	s.Line = [4]float64{s.px(x1), s.py(y1), s.px(x2), s.py(y2)}

	s.Points = make([]ScatterPoint, 0, len(res.Points))
	for _, p := range res.Points {
		s.Points = append(s.Points, ScatterPoint{
			X:        s.px(p.ROE),
			Y:        s.py(p.PBR),
			Code:     p.Code,
			Name:     p.Name,
			PBR:      p.PBR,
			ROE:      p.ROE,
			Residual: p.Residual,
			Cheap:    p.IsCheap,
		})
	}

	return s
}

func (s *Scatter) px(x float64) float64 {
	return round1(s.Left + (x-s.XMin)/(s.XMax-s.XMin)*(s.Right-s.Left))
}

func (s *Scatter) py(y float64) float64 {
	return round1(s.Bottom - (y-s.YMin)/(s.YMax-s.YMin)*(s.Bottom-s.Top))
}

// widen pads a range by 5% on each side and guarantees a non-zero span
func widen(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span <= 0 {
		return lo - 1, hi + 1
	}
	return lo - span*0.05, hi + span*0.05
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
