package contracts

// Grade is the ordinal quality tier of a candidate (S highest, C lowest)
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// Weight returns the sort weight of the grade.
// Unknown grades weigh 0, the same as C.
func (g Grade) Weight() int {
	switch g {
	case GradeS:
		return 3
	case GradeA:
		return 2
	case GradeB:
		return 1
	default:
		return 0
	}
}

// Action is the trade-readiness signal of a candidate
type Action string

const (
	ActionReady   Action = "READY"
	ActionWait    Action = "WAIT"
	ActionNoTrade Action = "NO_TRADE"
)

// Weight returns the sort weight of the action.
// Unknown actions weigh 0, the same as NO_TRADE.
func (a Action) Weight() int {
	switch a {
	case ActionReady:
		return 2
	case ActionWait:
		return 1
	default:
		return 0
	}
}

// Known reports whether the action is one of the enumerated values
func (a Action) Known() bool {
	return a == ActionReady || a == ActionWait || a == ActionNoTrade
}

// TradeLevel is one leg of a trade plan (entry, stop or target)
type TradeLevel struct {
	Type  string  `json:"type,omitempty"` // entry only: "stop_limit", "-"
	Price float64 `json:"price" validate:"gte=0"`
	RR    float64 `json:"rr,omitempty"` // target only: reward:risk
}

// Candidate is one row of the watchlist
// ⭐ SSOT: watchlist.json 항목 구조는 여기서만 정의
type Candidate struct {
	Ticker string   `json:"ticker" validate:"required"`
	Name   string   `json:"name" validate:"required"`
	Sector string   `json:"sector"`
	Close  float64  `json:"close" validate:"gte=0"`
	Change float64  `json:"change"` // 등락률 (%)
	Volume float64  `json:"volume" validate:"gte=0"` // 거래대금 (KRW)
	Grade  Grade    `json:"grade"`
	Action Action   `json:"action"`
	Why    []string `json:"why"`

	Entry  TradeLevel `json:"entry"`
	Stop   TradeLevel `json:"stop"`
	Target TradeLevel `json:"target"`
}

// TopReasons returns at most n rationale strings, in order
func (c *Candidate) TopReasons(n int) []string {
	if n <= 0 {
		return nil
	}
	if len(c.Why) <= n {
		return c.Why
	}
	return c.Why[:n]
}

// HasPlan reports whether the candidate carries a usable trade plan
func (c *Candidate) HasPlan() bool {
	return c.Entry.Price > 0 && c.Stop.Price > 0 && c.Target.Price > 0
}
