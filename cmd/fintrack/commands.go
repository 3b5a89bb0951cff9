package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/fintrack/internal/analytics"
	"github.com/bobmcallan/fintrack/internal/format"
	"github.com/bobmcallan/fintrack/internal/models"
)

// summaryCmd prints the portfolio header, allocation and movers.
type summaryCmd struct {
	rng string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary" }
func (*summaryCmd) Usage() string {
	return `fintrack summary [-range 1W|1M|3M|1Y|ALL]

  Displays total value, gain, daily change, allocation and top movers.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rng, "range", "1M", "History range for the performance line")
}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rng, err := models.ParseTimeRange(c.rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ps := a.PortfolioService
	printMarkdown(summaryMarkdown(ps.Summary(), ps.Allocation(), ps.Movers(), ps.History(rng), rng))
	return subcommands.ExitSuccess
}

// holdingsCmd lists every holding.
type holdingsCmd struct{}

func (*holdingsCmd) Name() string             { return "holdings" }
func (*holdingsCmd) Synopsis() string         { return "list portfolio holdings" }
func (*holdingsCmd) Usage() string            { return "fintrack holdings\n" }
func (*holdingsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *holdingsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	printMarkdown(holdingsMarkdown(a.PortfolioService.Holdings()))
	return subcommands.ExitSuccess
}

// spendingCmd prints the category breakdown and month comparison.
type spendingCmd struct {
	month string
	limit int
}

func (*spendingCmd) Name() string     { return "spending" }
func (*spendingCmd) Synopsis() string { return "display spending by category" }
func (*spendingCmd) Usage() string {
	return `fintrack spending [-month YYYY-MM|all] [-n <count>]

  Displays the category breakdown for a month (default: current month),
  this month against last month, and the most recent expenses.
`
}

func (c *spendingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month to break down, YYYY-MM or all")
	f.IntVar(&c.limit, "n", 10, "Number of recent expenses to list")
}

func (c *spendingCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	svc := a.SpendingService
	filter := analytics.InMonth(svc.CurrentMonth())
	switch strings.ToLower(strings.TrimSpace(c.month)) {
	case "":
	case "all":
		filter = analytics.AllTime()
	default:
		m, err := models.ParseMonth(c.month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filter = analytics.InMonth(m)
	}

	breakdown, err := svc.Breakdown(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	recent := svc.Expenses(filter)
	if c.limit >= 0 && len(recent) > c.limit {
		recent = recent[:c.limit]
	}

	printMarkdown(spendingMarkdown(filter.String(), svc.Total(filter), breakdown, svc.Comparison(), recent, a.Today()))
	return subcommands.ExitSuccess
}

// addExpenseCmd records an expense.
type addExpenseCmd struct {
	category string
	date     string
}

func (*addExpenseCmd) Name() string     { return "add-expense" }
func (*addExpenseCmd) Synopsis() string { return "record an expense" }
func (*addExpenseCmd) Usage() string {
	return `fintrack add-expense [-c <category>] [-d YYYY-MM-DD] <amount> <description...>

  Records an expense. Categories: food, transport, entertainment, bills, other.
`
}

func (c *addExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "other", "Expense category")
	f.StringVar(&c.date, "d", "", "Expense date (defaults to today)")
}

func (c *addExpenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: amount and description are required")
		return subcommands.ExitUsageError
	}
	amount, err := strconv.ParseFloat(f.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	category, err := models.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	date := a.Today()
	if c.date != "" {
		if date, err = models.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	expense, err := a.SpendingService.AddExpense(models.NewExpense{
		Amount:      amount,
		Category:    category,
		Description: strings.Join(f.Args()[1:], " "),
		Date:        date,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(expensesTable([]models.Expense{expense}, a.Today()))
	return subcommands.ExitSuccess
}

// watchlistCmd prints the watchlist with its summary.
type watchlistCmd struct{}

func (*watchlistCmd) Name() string             { return "watchlist" }
func (*watchlistCmd) Synopsis() string         { return "display the watchlist" }
func (*watchlistCmd) Usage() string            { return "fintrack watchlist\n" }
func (*watchlistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *watchlistCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	printMarkdown(watchlistMarkdown(a.WatchlistService.Summary(), a.WatchlistService.Items()))
	return subcommands.ExitSuccess
}

// quoteCmd prints one quote per argument.
type quoteCmd struct{}

func (*quoteCmd) Name() string             { return "quote" }
func (*quoteCmd) Synopsis() string         { return "fetch stock quotes" }
func (*quoteCmd) Usage() string            { return "fintrack quote <symbol> [<symbol>...]\n" }
func (*quoteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	status := subcommands.ExitSuccess
	var b strings.Builder
	for _, symbol := range f.Args() {
		q, err := a.QuoteService.FetchQuote(ctx, symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		b.WriteString(quoteMarkdown(q))
	}
	if b.Len() > 0 {
		printMarkdown(b.String())
	}
	return status
}

// searchCmd looks up symbols by ticker or company name.
type searchCmd struct{}

func (*searchCmd) Name() string             { return "search" }
func (*searchCmd) Synopsis() string         { return "search symbols by ticker or name" }
func (*searchCmd) Usage() string            { return "fintrack search <query>\n" }
func (*searchCmd) SetFlags(_ *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(os.Stderr, "Error: a query is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	results, err := a.QuoteService.SearchSymbols(ctx, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(searchMarkdown(query, results))
	return subcommands.ExitSuccess
}

// refreshCmd re-prices holdings and watchlist once and records today's value.
type refreshCmd struct{}

func (*refreshCmd) Name() string             { return "refresh" }
func (*refreshCmd) Synopsis() string         { return "refresh prices for holdings and watchlist" }
func (*refreshCmd) Usage() string            { return "fintrack refresh\n" }
func (*refreshCmd) SetFlags(_ *flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	res := a.RefreshPrices(ctx)
	printMarkdown(fmt.Sprintf("Refreshed **%d/%d** symbols on %s. Portfolio value: **%s**\n",
		res.Quotes, res.Symbols, res.Date, format.Currency(res.Value)))
	return subcommands.ExitSuccess
}
