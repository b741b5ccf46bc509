package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 한국 로케일 천 단위 구분
var printer = message.NewPrinter(language.Korean)

// Price formats a KRW price with thousands separators (72,500)
func Price(v float64) string {
	if !finite(v) {
		return "-"
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Change formats a percent change; the sign is shown only when positive
func Change(pct float64) string {
	if !finite(pct) {
		return "-"
	}
	if pct > 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// ChangeClass returns the CSS colour class: red when up, blue otherwise
func ChangeClass(pct float64) string {
	if pct > 0 {
		return "text-red"
	}
	return "text-blue"
}

// Eok converts a KRW amount to 억 (1e8) units, rounded, with separators
func Eok(krw float64) string {
	if !finite(krw) {
		return "-"
	}
	return printer.Sprintf("%d", int64(math.Round(krw/1e8)))
}

// RR formats a reward:risk ratio as "1 : 3"
func RR(rr float64) string {
	if !finite(rr) || rr <= 0 {
		return "-"
	}
	return "1 : " + strconv.FormatFloat(rr, 'f', -1, 64)
}

// Score formats a sector score
func Score(v float64) string {
	if !finite(v) {
		return "-"
	}
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Percent formats a fraction as a percentage (-0.25 -> -25.00%)
func Percent(fraction float64) string {
	if !finite(fraction) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// Ratio formats a PBR/ROE/slope value
func Ratio(v float64) string {
	if !finite(v) {
		return "-"
	}
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var asOfLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// AsOf normalises an artifact timestamp for the status bar.
// Unparseable values are shown as-is.
func AsOf(s string) string {
	for _, layout := range asOfLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == "2006-01-02" {
				return t.Format("2006-01-02")
			}
			return t.Format("2006-01-02 15:04:05")
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// ReasonText explains why a sector has no regression
func ReasonText(reason string) string {
	switch reason {
	case "empty":
		return "유효한 PBR/ROE 데이터가 없습니다."
	case "degenerate":
		return "ROE 분산이 0이라 회귀선을 그릴 수 없습니다."
	case "too_few":
		return "종목 수가 부족해 회귀 분석을 건너뛰었습니다."
	default:
		return "회귀 분석에 실패했습니다."
	}
}
