// Command covercall runs covered-call analytics from the terminal:
// historical backtests over one or more symbols, point-in-time option
// quotes, and rolling volatility series.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantyard/covercall/internal/backtest"
	"github.com/quantyard/covercall/internal/config"
	"github.com/quantyard/covercall/internal/data"
	"github.com/quantyard/covercall/internal/logger"
	"github.com/quantyard/covercall/internal/pricing"
	"github.com/quantyard/covercall/internal/report"
	"github.com/quantyard/covercall/internal/strike"
	"github.com/quantyard/covercall/internal/volatility"
	"github.com/quantyard/covercall/internal/yield"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "covercall",
	Short: "Covered-call pricing, yield, and backtesting toolkit",
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay covered-call cycles over historical prices",
	RunE:  runBacktest,
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a covered call and its yield at a point in time",
	RunE:  runQuote,
}

var volCmd = &cobra.Command{
	Use:   "vol",
	Short: "Print the rolling historical volatility series for a symbol",
	RunE:  runVol,
}

var (
	quoteSpot      float64
	quoteMoneyness float64
	quoteRule      string
	quoteDTE       int
	quoteVol       float64
	quoteRate      float64
	quoteShares    int

	volSymbol string
	volWindow int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "covercall.yaml", "path to job config")

	quoteCmd.Flags().Float64Var(&quoteSpot, "spot", 0, "underlying price (required)")
	quoteCmd.Flags().Float64Var(&quoteMoneyness, "moneyness", 5, "strike target in percent above spot")
	quoteCmd.Flags().StringVar(&quoteRule, "rule", "", `strike rule, e.g. "ATM", "OTM:5", "{PRICE}*1.05"; overrides --moneyness`)
	quoteCmd.Flags().IntVar(&quoteDTE, "dte", 30, "days to expiration")
	quoteCmd.Flags().Float64Var(&quoteVol, "vol", backtest.DefaultVolatility, "annualized volatility")
	quoteCmd.Flags().Float64Var(&quoteRate, "rate", backtest.DefaultRiskFreeRate, "annualized risk-free rate")
	quoteCmd.Flags().IntVar(&quoteShares, "shares", 100, "shares held")
	_ = quoteCmd.MarkFlagRequired("spot")

	volCmd.Flags().StringVar(&volSymbol, "symbol", "", "symbol to estimate (required)")
	volCmd.Flags().IntVar(&volWindow, "window", volatility.DefaultWindow, "trailing return window")
	_ = volCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(backtestCmd, quoteCmd, volCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildProvider maps the provider config onto a data source.
func buildProvider(cfg *config.Config) data.Provider {
	switch cfg.Provider.Type {
	case "rest":
		return data.NewRESTProvider(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.CacheTTL)
	case "local":
		return data.NewLocalFileProvider(cfg.Provider.DataDir)
	default:
		return data.NewSyntheticProvider(cfg.Provider.Seed, 100, 0.01)
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger.SetVerbosity(cfg.Verbosity)

	from, to, err := cfg.Range()
	if err != nil {
		return err
	}

	params := backtest.Params{
		Shares:           cfg.Shares,
		MoneynessPercent: cfg.MoneynessPercent,
		StrikeRule:       cfg.StrikeRule,
		CycleDays:        cfg.CycleDays,
		Volatility:       cfg.Volatility,
		RiskFreeRate:     cfg.RiskFreeRate,
	}

	start := time.Now()
	results, err := backtest.Run(cmd.Context(), buildProvider(cfg), cfg.Symbols, from, to, params, cfg.Concurrency)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		return fmt.Errorf("create report dir %s: %w", cfg.ReportDir, err)
	}
	if err := report.WriteJSON(results, cfg.ReportDir); err != nil {
		return err
	}
	if err := report.WriteCSV(results, cfg.ReportDir); err != nil {
		return err
	}

	logger.Infof("finished %d symbols in %v, reports in %s", len(results), time.Since(start), cfg.ReportDir)
	return nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	if quoteSpot <= 0 {
		return fmt.Errorf("spot must be positive")
	}

	k := strike.Target(quoteSpot, quoteMoneyness, strike.Increment(quoteSpot))
	if quoteRule != "" {
		var err error
		if k, err = strike.ResolveRule(quoteRule, quoteSpot); err != nil {
			return err
		}
	}
	q := pricing.Quote(pricing.Inputs{
		Spot:         quoteSpot,
		Strike:       k,
		TimeToExpiry: float64(quoteDTE) / 365.0,
		RiskFreeRate: quoteRate,
		Volatility:   quoteVol,
	})

	fmt.Printf("strike                 %.2f\n", k)
	fmt.Printf("premium/share          %.4f\n", q.Price)
	fmt.Printf("delta                  %.4f\n", q.Delta)
	fmt.Printf("assignment probability %.2f%%\n", q.AssignmentProbability)
	fmt.Printf("annualized yield       %.2f%%\n", yield.Annualized(q.Price, quoteSpot, quoteDTE))
	fmt.Printf("yield if called        %.2f%%\n", yield.IfCalled(q.Price, k, quoteSpot, quoteDTE))
	fmt.Printf("breakeven              %.2f\n", yield.Breakeven(quoteSpot, q.Price))
	fmt.Printf("max profit             %.2f\n", yield.MaxProfit(quoteShares, quoteSpot, k, q.Price))
	return nil
}

func runVol(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger.SetVerbosity(cfg.Verbosity)

	from, to, err := cfg.Range()
	if err != nil {
		return err
	}

	bars, err := buildProvider(cfg).DailyBars(cmd.Context(), volSymbol, from, to)
	if err != nil {
		return err
	}

	points := volatility.Rolling(bars, volWindow)
	if len(points) == 0 {
		logger.Infof("%s: not enough history for a %d-bar window", volSymbol, volWindow)
		return nil
	}

	fmt.Println("date,annualized_volatility")
	for _, p := range points {
		fmt.Printf("%s,%.4f\n", p.Date, p.AnnualizedVolatility)
	}
	return nil
}
