// Package cli provides the command-line interface for the options journal.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"options-journal/internal/mathutil"
	"options-journal/internal/risk"
	"options-journal/internal/strategy"
)

const flagDateLayout = "2006-01-02"

// addAnalyzeCommands adds strategy analysis commands.
func addAnalyzeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an option strategy",
		Long:  "Compute breakeven, profit/loss bounds, returns, Greeks and risk flags for a strategy.",
	}

	cmd.AddCommand(newAnalyzeCoveredCallCmd(app))
	cmd.AddCommand(newAnalyzeCashSecuredPutCmd(app))
	cmd.AddCommand(newAnalyzeLongCallCmd(app))
	cmd.AddCommand(newAnalyzeLongPutCmd(app))

	rootCmd.AddCommand(cmd)
}

func newAnalyzeCoveredCallCmd(app *App) *cobra.Command {
	var (
		symbol     string
		basis      float64
		price      float64
		strike     float64
		premium    float64
		fee        float64
		contracts  int
		expiration string
		showChart  bool
	)

	cmd := &cobra.Command{
		Use:   "covered-call",
		Short: "Analyze a covered call position",
		Long: `Analyze a covered call: long shares plus a short call against them.

Premium and fee are position-level dollar amounts, prices are per share.`,
		Example: `  options-journal analyze covered-call --symbol AAPL --basis 95 --price 103 \
    --strike 100 --premium 250 --fee 0.65 --contracts 1 --expiration 2024-02-16`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			exp, err := parseExpiration(expiration)
			if err != nil {
				return err
			}

			thresholds := app.Config.Thresholds()
			cc, err := strategy.NewCoveredCall(strategy.CoveredCallInputs{
				Symbol:     symbol,
				ShareBasis: basis,
				SharePrice: price,
				Strike:     strike,
				Premium:    premium,
				Fee:        fee,
				Contracts:  contracts,
				Expiration: exp,
				Thresholds: &thresholds,
			})
			if err != nil {
				return err
			}

			app.Logger.Debug().Str("symbol", symbol).Str("strategy", "covered_call").Msg("Analyzing position")

			if output.IsJSON() {
				return output.JSON(cc.Metrics())
			}
			renderCoveredCall(output, cc)
			if showChart {
				renderPayoffChart(output, cc, priceRange(app, price))
			}
			renderRiskFlags(output, cc.RiskFlags())
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying symbol (required)")
	cmd.Flags().Float64Var(&basis, "basis", 0, "share cost basis per share (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "current share price (required)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "call strike price (required)")
	cmd.Flags().Float64Var(&premium, "premium", 0, "total premium received (required)")
	cmd.Flags().Float64Var(&fee, "fee", 0, "total fees paid")
	cmd.Flags().IntVar(&contracts, "contracts", 1, "number of contracts")
	cmd.Flags().StringVar(&expiration, "expiration", "", "expiration date YYYY-MM-DD (required)")
	cmd.Flags().BoolVar(&showChart, "chart", false, "show the payoff table")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("basis")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("premium")
	cmd.MarkFlagRequired("expiration")

	return cmd
}

func newAnalyzeCashSecuredPutCmd(app *App) *cobra.Command {
	var (
		symbol     string
		price      float64
		strike     float64
		premium    float64
		fee        float64
		collateral float64
		contracts  int
		expiration string
		showChart  bool
	)

	cmd := &cobra.Command{
		Use:     "cash-secured-put",
		Aliases: []string{"csp"},
		Short:   "Analyze a cash-secured put position",
		Long: `Analyze a short put secured by cash collateral.

When --collateral is omitted the full strike value is assumed.`,
		Example: `  options-journal analyze csp --symbol MSFT --price 412 --strike 400 \
    --premium 510 --contracts 2 --expiration 2024-03-15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			exp, err := parseExpiration(expiration)
			if err != nil {
				return err
			}

			thresholds := app.Config.Thresholds()
			csp, err := strategy.NewCashSecuredPut(strategy.CashSecuredPutInputs{
				Symbol:      symbol,
				Strike:      strike,
				SharePrice:  price,
				Premium:     premium,
				Fee:         fee,
				CashSecured: collateral,
				Contracts:   contracts,
				Expiration:  exp,
				Thresholds:  &thresholds,
			})
			if err != nil {
				return err
			}

			app.Logger.Debug().Str("symbol", symbol).Str("strategy", "cash_secured_put").Msg("Analyzing position")

			if output.IsJSON() {
				return output.JSON(csp.Metrics())
			}
			renderCashSecuredPut(output, csp)
			if showChart {
				renderPayoffChart(output, csp, priceRange(app, price))
			}
			renderRiskFlags(output, csp.RiskFlags())
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying symbol (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "current share price (required)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "put strike price (required)")
	cmd.Flags().Float64Var(&premium, "premium", 0, "total premium received (required)")
	cmd.Flags().Float64Var(&fee, "fee", 0, "total fees paid")
	cmd.Flags().Float64Var(&collateral, "collateral", 0, "cash collateral (default: full strike value)")
	cmd.Flags().IntVar(&contracts, "contracts", 1, "number of contracts")
	cmd.Flags().StringVar(&expiration, "expiration", "", "expiration date YYYY-MM-DD (required)")
	cmd.Flags().BoolVar(&showChart, "chart", false, "show the payoff table")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("premium")
	cmd.MarkFlagRequired("expiration")

	return cmd
}

func newAnalyzeLongCallCmd(app *App) *cobra.Command {
	return newAnalyzeLongOptionCmd(app, strategy.KindLongCall)
}

func newAnalyzeLongPutCmd(app *App) *cobra.Command {
	return newAnalyzeLongOptionCmd(app, strategy.KindLongPut)
}

// newAnalyzeLongOptionCmd builds the analyze command for a bought option.
// Long calls and puts share flags, so the command differs only in the
// constructor and the renderer.
func newAnalyzeLongOptionCmd(app *App, kind strategy.Kind) *cobra.Command {
	var (
		symbol      string
		price       float64
		strike      float64
		premium     float64
		fee         float64
		currentPrem float64
		contracts   int
		expiration  string
		showChart   bool
	)

	use := "long-call"
	short := "Analyze a long call position"
	if kind == strategy.KindLongPut {
		use = "long-put"
		short = "Analyze a long put position"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  "Analyze a bought option: cost basis, breakeven, moneyness and an ITM probability estimate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			exp, err := parseExpiration(expiration)
			if err != nil {
				return err
			}

			thresholds := app.Config.Thresholds()

			app.Logger.Debug().Str("symbol", symbol).Str("strategy", string(kind)).Msg("Analyzing position")

			if kind == strategy.KindLongPut {
				lp, err := strategy.NewLongPut(strategy.LongPutInputs{
					Symbol:         symbol,
					Strike:         strike,
					SharePrice:     price,
					Premium:        premium,
					Fee:            fee,
					CurrentPremium: currentPrem,
					Contracts:      contracts,
					Expiration:     exp,
					Thresholds:     &thresholds,
				})
				if err != nil {
					return err
				}
				if output.IsJSON() {
					return output.JSON(lp.Metrics())
				}
				renderLongPut(output, lp)
				if showChart {
					renderPayoffChart(output, lp, priceRange(app, price))
				}
				renderRiskFlags(output, lp.RiskFlags())
				return nil
			}

			lc, err := strategy.NewLongCall(strategy.LongCallInputs{
				Symbol:         symbol,
				Strike:         strike,
				SharePrice:     price,
				Premium:        premium,
				Fee:            fee,
				CurrentPremium: currentPrem,
				Contracts:      contracts,
				Expiration:     exp,
				Thresholds:     &thresholds,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(longCallJSON(lc.Metrics()))
			}
			renderLongCall(output, lc)
			if showChart {
				renderPayoffChart(output, lc, priceRange(app, price))
			}
			renderRiskFlags(output, lc.RiskFlags())
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying symbol (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "current share price (required)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price (required)")
	cmd.Flags().Float64Var(&premium, "premium", 0, "total premium paid (required)")
	cmd.Flags().Float64Var(&fee, "fee", 0, "total fees paid")
	cmd.Flags().Float64Var(&currentPrem, "current-premium", 0, "current option value, position dollars")
	cmd.Flags().IntVar(&contracts, "contracts", 1, "number of contracts")
	cmd.Flags().StringVar(&expiration, "expiration", "", "expiration date YYYY-MM-DD (required)")
	cmd.Flags().BoolVar(&showChart, "chart", false, "show the payoff table")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("premium")
	cmd.MarkFlagRequired("expiration")

	return cmd
}

func parseExpiration(s string) (time.Time, error) {
	exp, err := time.Parse(flagDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiration %q, want YYYY-MM-DD", s)
	}
	return exp, nil
}

// priceRange builds the chart price axis from the configured chart settings.
func priceRange(app *App, center float64) []float64 {
	return mathutil.GeneratePriceRange(center, app.Config.Chart.Points, app.Config.Chart.StepPercent)
}

// longCallJSON shadows the unbounded max profit with a string so the
// snapshot stays JSON-encodable.
type longCallJSONView struct {
	strategy.LongCallMetrics
	MaxProfit string `json:"maxProfit"`
}

func longCallJSON(m strategy.LongCallMetrics) longCallJSONView {
	return longCallJSONView{LongCallMetrics: m, MaxProfit: "unlimited"}
}

func renderCoveredCall(output *Output, cc *strategy.CoveredCall) {
	m := cc.Metrics()
	ann := m.Annualized

	output.Bold("%s Covered Call", m.Symbol)
	output.Printf("  Days to Expiry:  %d\n", m.DaysToExpiration)
	output.Println()

	output.Bold("Profit Profile")
	output.Printf("  Breakeven:       %s\n", FormatCurrency(m.Breakeven))
	output.Printf("  Max Profit:      %s\n", FormatCurrency(m.MaxProfit))
	output.Printf("  Max Loss:        %s\n", FormatCurrency(m.MaxLoss))
	output.Printf("  Return:          %s on outlay, %s on risk\n",
		FormatPercent(m.ReturnOnOutlay), FormatPercent(m.ReturnOnRisk))
	output.Printf("  Annualized:      %s on outlay, %s on risk\n",
		FormatPercent(ann.ReturnOnOutlay), FormatPercent(ann.ReturnOnRisk))
	output.Println()

	output.Bold("Position")
	output.Printf("  In the Money:    %v\n", m.InTheMoney)
	output.Printf("  Intrinsic:       %s\n", FormatCurrency(m.IntrinsicValue))
	output.Printf("  Delta:           %s   Theta: %s/day\n", FormatDelta(m.Delta), FormatCurrency(m.Theta))
	if m.LikelyAssignment {
		output.Warning("  Assignment likely before expiration")
	}
	output.Println()
}

func renderCashSecuredPut(output *Output, csp *strategy.CashSecuredPut) {
	m := csp.Metrics()
	ann := m.Annualized

	output.Bold("%s Cash-Secured Put", m.Symbol)
	output.Printf("  Days to Expiry:  %d\n", m.DaysToExpiration)
	output.Println()

	output.Bold("Profit Profile")
	output.Printf("  Breakeven:       %s\n", FormatCurrency(m.Breakeven))
	output.Printf("  Max Profit:      %s\n", FormatCurrency(m.MaxProfit))
	output.Printf("  Max Loss:        %s\n", FormatCurrency(m.MaxLoss))
	output.Printf("  Collateral:      %s\n", FormatCurrency(m.Collateral))
	output.Printf("  Return:          %s on collateral\n", FormatPercent(m.ReturnOnOutlay))
	output.Printf("  Annualized:      %s on collateral, %s on risk\n",
		FormatPercent(ann.ReturnOnOutlay), FormatPercent(ann.ReturnOnRisk))
	output.Println()

	output.Bold("Position")
	output.Printf("  In the Money:    %v\n", m.InTheMoney)
	output.Printf("  Intrinsic:       %s\n", FormatCurrency(m.IntrinsicValue))
	output.Printf("  Delta:           %s   Theta: %s/day\n", FormatDelta(m.Delta), FormatCurrency(m.Theta))
	if m.LikelyAssignment {
		output.Warning("  Assignment likely before expiration")
	}
	output.Println()
}

func renderLongCall(output *Output, lc *strategy.LongCall) {
	m := lc.Metrics()

	output.Bold("%s Long Call", m.Symbol)
	output.Printf("  Days to Expiry:  %d\n", m.DaysToExpiration)
	output.Println()

	output.Bold("Profit Profile")
	output.Printf("  Cost Basis:      %s\n", FormatCurrency(m.CostBasis))
	output.Printf("  Breakeven:       %s\n", FormatCurrency(m.Breakeven))
	output.Printf("  Max Profit:      %s\n", FormatMaxProfit(m.MaxProfit))
	output.Printf("  Max Loss:        %s\n", FormatCurrency(m.MaxLoss))
	output.Printf("  Unrealized P&L:  %s\n", output.FormatPnL(m.UnrealizedPnL))
	output.Println()

	output.Bold("Position")
	output.Printf("  Moneyness:       %s (%s)\n", FormatPercent(m.Moneyness), m.Classification)
	output.Printf("  Intrinsic:       %s   Extrinsic: %s\n",
		FormatCurrency(m.IntrinsicValue), FormatCurrency(m.ExtrinsicValue))
	output.Printf("  ITM Probability: %s\n", FormatProbability(m.ITMProbability))
	output.Printf("  Leverage:        %.2fx\n", m.LeverageRatio)
	output.Printf("  Delta:           %s   Theta: %s/day\n", FormatDelta(m.Delta), FormatCurrency(m.Theta))
	output.Println()
}

func renderLongPut(output *Output, lp *strategy.LongPut) {
	m := lp.Metrics()

	output.Bold("%s Long Put", m.Symbol)
	output.Printf("  Days to Expiry:  %d\n", m.DaysToExpiration)
	output.Println()

	output.Bold("Profit Profile")
	output.Printf("  Cost Basis:      %s\n", FormatCurrency(m.CostBasis))
	output.Printf("  Breakeven:       %s\n", FormatCurrency(m.Breakeven))
	output.Printf("  Max Profit:      %s\n", FormatCurrency(m.MaxProfit))
	output.Printf("  Max Loss:        %s\n", FormatCurrency(m.MaxLoss))
	output.Printf("  Unrealized P&L:  %s\n", output.FormatPnL(m.UnrealizedPnL))
	output.Println()

	output.Bold("Position")
	output.Printf("  Moneyness:       %s (%s)\n", FormatPercent(m.Moneyness), m.Classification)
	output.Printf("  Intrinsic:       %s\n", FormatCurrency(m.IntrinsicValue))
	output.Printf("  ITM Probability: %s\n", FormatProbability(m.ITMProbability))
	output.Printf("  Delta:           %s   Theta: %s/day\n", FormatDelta(m.Delta), FormatCurrency(m.Theta))
	output.Println()
}

func renderPayoffChart(output *Output, model strategy.StrategyMetrics, prices []float64) {
	points := model.PayoffChart(prices...)
	if len(points) == 0 {
		return
	}

	output.Bold("Payoff at Expiration")
	table := NewTable(output, "Price", "P&L", "")
	for _, pt := range points {
		marker := ""
		if pt.IsNearBreakeven {
			marker = output.Yellow("◀ breakeven")
		}
		table.AddRow(FormatPrice(pt.UnderlyingPrice), output.FormatPnL(pt.ProfitLoss), marker)
	}
	table.Render()
	output.Println()
}

func renderRiskFlags(output *Output, flags []risk.Flag) {
	if len(flags) == 0 {
		output.Success("No risk flags")
		return
	}

	output.Bold("Risk Flags")
	for _, f := range flags {
		line := fmt.Sprintf("  [%s] %s: %s", f.Severity, f.Category, f.Message)
		switch f.Severity {
		case risk.SeverityCritical, risk.SeverityHigh:
			output.Error("%s", line)
		case risk.SeverityMedium:
			output.Warning("%s", line)
		default:
			output.Dim("%s", line)
		}
	}
}
