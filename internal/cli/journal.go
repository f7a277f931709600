// Package cli provides the command-line interface for the options journal.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-journal/internal/journal"
	"options-journal/internal/strategy"
	"options-journal/pkg/utils"
)

const storeTimeout = 30 * time.Second

// addJournalCommands adds position journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Position journal management",
		Long:  "Record, review and close journaled option positions.",
	}

	cmd.AddCommand(newJournalAddCmd(app))
	cmd.AddCommand(newJournalListCmd(app))
	cmd.AddCommand(newJournalShowCmd(app))
	cmd.AddCommand(newJournalMarkCmd(app))
	cmd.AddCommand(newJournalCloseCmd(app))
	cmd.AddCommand(newJournalImportCmd(app))

	rootCmd.AddCommand(cmd)
}

func requireStore(app *App) error {
	if app.Store == nil {
		return fmt.Errorf("journal store is not available")
	}
	return nil
}

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func newJournalAddCmd(app *App) *cobra.Command {
	var (
		symbol      string
		strategyStr string
		strike      float64
		premium     float64
		fee         float64
		basis       float64
		collateral  float64
		price       float64
		currentPrem float64
		contracts   int
		openDate    string
		expiration  string
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new position",
		Long: `Record a new option position in the journal.

The strategy must be one of: covered_call, cash_secured_put, long_call, long_put.`,
		Example: `  options-journal journal add --symbol AAPL --strategy covered_call \
    --basis 95 --price 103 --strike 100 --premium 250 --expiration 2024-02-16`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			kind, err := journal.ParseKind(strategyStr)
			if err != nil {
				return err
			}

			open := time.Now().Truncate(24 * time.Hour)
			if openDate != "" {
				open, err = time.Parse(flagDateLayout, openDate)
				if err != nil {
					return fmt.Errorf("invalid open date %q, want YYYY-MM-DD", openDate)
				}
			}
			exp := utils.NextMonthlyExpiration(open)
			if expiration != "" {
				exp, err = parseExpiration(expiration)
				if err != nil {
					return err
				}
			}
			if !utils.IsTradingDay(exp) {
				output.Warning("Expiration %s falls on a weekend", FormatDate(exp))
			}

			p := &journal.Position{
				ID:             journal.NewPositionID(symbol, kind, open),
				Symbol:         strings.ToUpper(symbol),
				Strategy:       kind,
				Strike:         strike,
				Premium:        premium,
				Fee:            fee,
				ShareBasis:     basis,
				CashSecured:    collateral,
				CurrentPrice:   price,
				CurrentPremium: currentPrem,
				Contracts:      contracts,
				OpenDate:       open,
				Expiration:     exp,
				Status:         journal.StatusOpen,
				Notes:          notes,
			}

			// Validate before persisting so a bad position never lands
			// in the journal.
			if _, err := journal.BuildStrategy(*p, time.Time{}, nil); err != nil {
				return err
			}

			ctx, cancel := storeContext()
			defer cancel()
			if err := app.Store.SavePosition(ctx, p); err != nil {
				return err
			}

			app.Logger.Info().Str("id", p.ID).Str("symbol", p.Symbol).Msg("Position recorded")

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": p.ID})
			}
			output.Success("✓ Recorded %s", p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying symbol (required)")
	cmd.Flags().StringVar(&strategyStr, "strategy", "", "strategy kind (required)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price (required)")
	cmd.Flags().Float64Var(&premium, "premium", 0, "total premium, position dollars (required)")
	cmd.Flags().Float64Var(&fee, "fee", 0, "total fees paid")
	cmd.Flags().Float64Var(&basis, "basis", 0, "share cost basis (covered calls)")
	cmd.Flags().Float64Var(&collateral, "collateral", 0, "cash collateral (cash-secured puts)")
	cmd.Flags().Float64Var(&price, "price", 0, "current share price (required)")
	cmd.Flags().Float64Var(&currentPrem, "current-premium", 0, "current option value (long options)")
	cmd.Flags().IntVar(&contracts, "contracts", 1, "number of contracts")
	cmd.Flags().StringVar(&openDate, "open-date", "", "open date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&expiration, "expiration", "", "expiration date YYYY-MM-DD (default: next monthly expiration)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("strategy")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("premium")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	var (
		symbol      string
		strategyStr string
		status      string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			filter := journal.Filter{
				Symbol: strings.ToUpper(symbol),
				Status: journal.Status(status),
				Limit:  limit,
			}
			if strategyStr != "" {
				kind, err := journal.ParseKind(strategyStr)
				if err != nil {
					return err
				}
				filter.Strategy = kind
			}

			ctx, cancel := storeContext()
			defer cancel()
			positions, err := app.Store.GetPositions(ctx, filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(positions)
			}

			if len(positions) == 0 {
				output.Info("No positions found.")
				return nil
			}

			table := NewTable(output, "ID", "Symbol", "Strategy", "Strike", "Premium", "Expiry", "Status")
			for _, p := range positions {
				table.AddRow(
					TruncateString(p.ID, 32),
					p.Symbol,
					string(p.Strategy),
					FormatPrice(p.Strike),
					FormatCurrency(p.Premium),
					FormatDate(p.Expiration),
					string(p.Status),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().StringVar(&strategyStr, "strategy", "", "filter by strategy kind")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open|closed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows")

	return cmd
}

func newJournalShowCmd(app *App) *cobra.Command {
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "show <position-id>",
		Short: "Show a position with full strategy analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			ctx, cancel := storeContext()
			defer cancel()
			p, err := app.Store.GetPosition(ctx, args[0])
			if err != nil {
				return err
			}

			asOf := time.Now()
			if asOfStr != "" {
				asOf, err = time.Parse(flagDateLayout, asOfStr)
				if err != nil {
					return fmt.Errorf("invalid as-of date %q, want YYYY-MM-DD", asOfStr)
				}
			}

			if p.Status == journal.StatusClosed {
				if output.IsJSON() {
					return output.JSON(p)
				}
				output.Bold("%s %s", p.Symbol, p.Strategy)
				output.Printf("  Status:     closed\n")
				output.Printf("  Realized:   %s\n", output.FormatPnL(p.ClosedPnL))
				output.Printf("  Opened:     %s\n", FormatDate(p.OpenDate))
				if p.Notes != "" {
					output.Printf("  Notes:      %s\n", p.Notes)
				}
				return nil
			}

			thresholds := app.Config.Thresholds()
			model, err := journal.BuildStrategy(*p, asOf, &thresholds)
			if err != nil {
				return err
			}

			if !output.IsJSON() {
				right := utils.RightCall
				if p.Strategy == strategy.KindCashSecuredPut || p.Strategy == strategy.KindLongPut {
					right = utils.RightPut
				}
				contract := utils.FormatOCCSymbol(p.Symbol, p.Expiration, right, p.Strike)
				if utils.IsMonthlyExpiration(p.Expiration) {
					output.Dim("Contract: %s (monthly)", contract)
				} else {
					output.Dim("Contract: %s", contract)
				}
				output.Println()
			}

			switch m := model.(type) {
			case *strategy.CoveredCall:
				if output.IsJSON() {
					return output.JSON(m.Metrics())
				}
				renderCoveredCall(output, m)
			case *strategy.CashSecuredPut:
				if output.IsJSON() {
					return output.JSON(m.Metrics())
				}
				renderCashSecuredPut(output, m)
			case *strategy.LongCall:
				if output.IsJSON() {
					return output.JSON(longCallJSON(m.Metrics()))
				}
				renderLongCall(output, m)
			case *strategy.LongPut:
				if output.IsJSON() {
					return output.JSON(m.Metrics())
				}
				renderLongPut(output, m)
			}

			renderPayoffChart(output, model, priceRange(app, p.CurrentPrice))
			renderRiskFlags(output, model.RiskFlags())
			if p.Notes != "" {
				output.Println()
				output.Dim("Notes: %s", p.Notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfStr, "as-of", "", "evaluation date YYYY-MM-DD (default: today)")

	return cmd
}

func newJournalMarkCmd(app *App) *cobra.Command {
	var (
		price   float64
		premium float64
	)

	cmd := &cobra.Command{
		Use:   "mark <position-id>",
		Short: "Update a position's current marks",
		Long:  "Update the current share price and option value used by the strategy analysis.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			ctx, cancel := storeContext()
			defer cancel()
			if err := app.Store.UpdateMark(ctx, args[0], price, premium); err != nil {
				return err
			}

			app.Logger.Info().Str("id", args[0]).Float64("price", price).Msg("Marks updated")

			if output.IsJSON() {
				return output.JSON(map[string]bool{"updated": true})
			}
			output.Success("✓ Marks updated for %s", args[0])
			return nil
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "current share price (required)")
	cmd.Flags().Float64Var(&premium, "premium", 0, "current option value, position dollars")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newJournalCloseCmd(app *App) *cobra.Command {
	var pnl float64

	cmd := &cobra.Command{
		Use:   "close <position-id>",
		Short: "Close a position with its realized P&L",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			ctx, cancel := storeContext()
			defer cancel()
			if err := app.Store.ClosePosition(ctx, args[0], pnl); err != nil {
				return err
			}

			app.Logger.Info().Str("id", args[0]).Float64("pnl", pnl).Msg("Position closed")

			if output.IsJSON() {
				return output.JSON(map[string]bool{"closed": true})
			}
			output.Success("✓ Closed %s with %s", args[0], FormatPnL(pnl))
			return nil
		},
	}

	cmd.Flags().Float64Var(&pnl, "pnl", 0, "realized P&L, position dollars (required)")
	cmd.MarkFlagRequired("pnl")

	return cmd
}

func newJournalImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import positions from a CSV file",
		Long: `Import positions from a CSV file.

Expected columns: symbol, strategy, strike, premium, fee, share_basis,
cash_secured, current_price, current_premium, contracts, open_date,
expiration, notes. Dates use YYYY-MM-DD.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			positions, err := journal.ReadPositions(f)
			if err != nil {
				return err
			}

			ctx, cancel := storeContext()
			defer cancel()
			for i := range positions {
				if err := app.Store.SavePosition(ctx, &positions[i]); err != nil {
					return err
				}
			}

			app.Logger.Info().Int("count", len(positions)).Str("file", args[0]).Msg("Positions imported")

			if output.IsJSON() {
				return output.JSON(map[string]int{"imported": len(positions)})
			}
			output.Success("✓ Imported %d positions", len(positions))
			return nil
		},
	}
}
