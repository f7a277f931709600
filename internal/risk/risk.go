// Package risk converts computed strategy metrics into categorized risk flags.
package risk

import (
	"fmt"
	"math"
	"time"
)

// Severity represents how serious a risk flag is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category represents the kind of risk a flag describes.
type Category string

const (
	CategoryTime       Category = "time"
	CategoryPrice      Category = "price"
	CategoryReturn     Category = "return"
	CategoryAssignment Category = "assignment"
)

// Flag is a single detected risk. Flags are derived output: recomputed on
// every call and never cached.
type Flag struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Thresholds holds the tunable limits for risk analysis. Callers that want
// custom limits copy DefaultThresholds and override fields on the copy.
type Thresholds struct {
	// LowReturnPercent is the period return below which a return flag is raised.
	LowReturnPercent float64
	// CriticalDays is the DTE at or below which time risk is critical.
	CriticalDays int
	// HighDays is the DTE at or below which time risk is high.
	HighDays int
	// PriceDistancePercent is the adverse distance from breakeven, as a
	// percentage of breakeven, beyond which a price flag is raised.
	PriceDistancePercent float64
}

// DefaultThresholds is the process-wide default configuration. Treat it as
// immutable: never modify fields in place.
var DefaultThresholds = Thresholds{
	LowReturnPercent:     1.0,
	CriticalDays:         7,
	HighDays:             14,
	PriceDistancePercent: 5.0,
}

// mediumTimeDays is the DTE at or below which time risk is at least medium.
// Positions past this horizon carry no time flag at all.
const mediumTimeDays = 30

// assignmentIntrinsicRatio is the fraction of collected premium that intrinsic
// value must reach before an ITM short option near expiry is flagged as a
// likely assignment.
const assignmentIntrinsicRatio = 0.8

// Context carries the metrics a strategy model exposes to risk analysis.
type Context struct {
	ReturnPercent float64
	Days          int
	CurrentPrice  float64
	Breakeven     float64
	Expiration    time.Time

	// InTheMoney, Intrinsic and Premium feed the assignment rule; they are
	// only meaningful for short-option strategies (covered call, cash-secured
	// put). ShortOption gates the rule.
	ShortOption bool
	InTheMoney  bool
	Intrinsic   float64
	Premium     float64

	// LossBelowBreakeven is true when the position loses money as the
	// underlying falls below breakeven (covered call, cash-secured put, long
	// call) and false when the adverse move is upward (long put).
	LossBelowBreakeven bool

	Thresholds Thresholds
}

// Analyze evaluates every risk rule against ctx and returns the flags raised,
// in rule order: time, return, price, assignment. The rules are independent
// and additive. An empty slice means no risks were detected; callers must not
// distinguish that from "not analyzed".
func Analyze(ctx Context) []Flag {
	t := ctx.Thresholds
	flags := []Flag{}

	if f, ok := timeRisk(ctx.Days, t); ok {
		flags = append(flags, f)
	}
	if f, ok := returnRisk(ctx.ReturnPercent, t); ok {
		flags = append(flags, f)
	}
	if f, ok := priceRisk(ctx, t); ok {
		flags = append(flags, f)
	}
	if f, ok := assignmentRisk(ctx, t); ok {
		flags = append(flags, f)
	}
	return flags
}

func timeRisk(days int, t Thresholds) (Flag, bool) {
	var sev Severity
	switch {
	case days <= t.CriticalDays:
		sev = SeverityCritical
	case days <= t.HighDays:
		sev = SeverityHigh
	case days <= mediumTimeDays:
		sev = SeverityMedium
	default:
		return Flag{}, false
	}
	return Flag{
		Severity: sev,
		Category: CategoryTime,
		Message:  fmt.Sprintf("%d days to expiration", days),
	}, true
}

func returnRisk(returnPercent float64, t Thresholds) (Flag, bool) {
	if returnPercent >= t.LowReturnPercent {
		return Flag{}, false
	}
	// Severity scales with how far below the threshold the return sits.
	shortfall := (t.LowReturnPercent - returnPercent) / t.LowReturnPercent
	sev := SeverityLow
	switch {
	case shortfall >= 0.75:
		sev = SeverityHigh
	case shortfall >= 0.4:
		sev = SeverityMedium
	}
	return Flag{
		Severity: sev,
		Category: CategoryReturn,
		Message:  fmt.Sprintf("return %.2f%% is below the %.2f%% threshold", returnPercent, t.LowReturnPercent),
	}, true
}

func priceRisk(ctx Context, t Thresholds) (Flag, bool) {
	if ctx.Breakeven == 0 {
		return Flag{}, false
	}
	distance := (ctx.CurrentPrice - ctx.Breakeven) / ctx.Breakeven
	adverse := distance < 0
	if !ctx.LossBelowBreakeven {
		adverse = distance > 0
	}
	if !adverse || math.Abs(distance)*100 <= t.PriceDistancePercent {
		return Flag{}, false
	}
	sev := SeverityMedium
	if math.Abs(distance)*100 > 2*t.PriceDistancePercent {
		sev = SeverityHigh
	}
	return Flag{
		Severity: sev,
		Category: CategoryPrice,
		Message: fmt.Sprintf("price %.2f is %.1f%% past breakeven %.2f on the losing side",
			ctx.CurrentPrice, math.Abs(distance)*100, ctx.Breakeven),
	}, true
}

func assignmentRisk(ctx Context, t Thresholds) (Flag, bool) {
	if !ctx.ShortOption || !ctx.InTheMoney {
		return Flag{}, false
	}
	if ctx.Days > t.CriticalDays {
		return Flag{}, false
	}
	if ctx.Intrinsic < ctx.Premium*assignmentIntrinsicRatio {
		return Flag{}, false
	}
	return Flag{
		Severity: SeverityHigh,
		Category: CategoryAssignment,
		Message: fmt.Sprintf("in the money with %d days left and intrinsic value %.2f against %.2f premium collected",
			ctx.Days, ctx.Intrinsic, ctx.Premium),
	}, true
}
