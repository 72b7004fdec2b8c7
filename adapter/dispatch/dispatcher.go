// Package dispatch owns the classify -> fetch -> format state machine for
// the finance adapters.
package dispatch

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/moneylens/moneylens/adapter/contract"
	daterangex "github.com/moneylens/moneylens/adapter/daterange"
	formatx "github.com/moneylens/moneylens/adapter/format"
	intentx "github.com/moneylens/moneylens/adapter/intent"
	progressx "github.com/moneylens/moneylens/adapter/progress"
)

type state int

const (
	stateClassifying state = iota
	stateFetching
	stateDone
)

// Config is the per-adapter-instance configuration, immutable for the
// lifetime of a run.
type Config struct {
	Format    formatx.Mode
	Verbosity progressx.Verbosity

	// Citations is forwarded to the hosting assistant so it can attach
	// in-line source citations to the returned data. It does not change
	// the run's output.
	Citations bool
}

type Dispatcher struct {
	classifier *intentx.Classifier
	source     contractx.FinanceSource
	conf       Config
	sink       contractx.ProgressSink

	now func() time.Time
}

func New(completer contractx.Completer, source contractx.FinanceSource, conf Config, sink contractx.ProgressSink) *Dispatcher {
	return &Dispatcher{
		classifier: intentx.NewClassifier(completer, source.Vendor()),
		source:     source,
		conf:       conf,
		sink:       sink,
		now:        time.Now,
	}
}

// Citations reports the pass-through citation toggle.
func (d *Dispatcher) Citations() bool {
	return d.conf.Citations
}

// Run classifies the query, fetches from the finance source, and formats
// the result. Errors never escape: every failure path returns a message
// result and emits a terminal status event. "today" is pinned once here and
// used for both classification and date-range resolution, so a run that
// crosses midnight stays self-consistent.
func (d *Dispatcher) Run(ctx context.Context, query string) formatx.Result {
	r := &run{
		d:        d,
		vendor:   d.source.Vendor(),
		reporter: progressx.NewReporter(d.source.Vendor(), d.sink, d.conf.Verbosity),
		today:    d.now().UTC(),
		state:    stateClassifying,
	}
	defer func() { r.state = stateDone }()
	return r.execute(ctx, query)
}

type run struct {
	d        *Dispatcher
	vendor   string
	reporter *progressx.Reporter
	today    time.Time
	state    state
}

func (r *run) execute(ctx context.Context, query string) formatx.Result {
	r.reporter.Emit(
		fmt.Sprintf("Determining which %s data to retrieve...", r.vendor),
		progressx.StatusInProgress, false, nil,
	)

	decision, err := r.d.classifier.Classify(ctx, query, contractx.FinanceCatalog(r.vendor), r.today)
	if err != nil {
		msg := fmt.Sprintf("Error occurred while determining what %s data to retrieve.", r.vendor)
		r.reporter.Emit(msg, progressx.StatusError, true, err)
		return formatx.Text(msg)
	}
	r.reporter.Dump("decision", decision)

	switch decision.Kind {
	case contractx.IntentAccounts:
		r.state = stateFetching
		return r.fetchAccounts(ctx)
	case contractx.IntentTransactions:
		r.state = stateFetching
		return r.fetchTransactions(ctx, decision)
	default:
		msg := fmt.Sprintf("No matching %s data found.", r.vendor)
		r.reporter.Emit(msg, progressx.StatusError, true, contractx.ErrNoMatch)
		return formatx.Text(msg)
	}
}

func (r *run) fetchAccounts(ctx context.Context) formatx.Result {
	r.reporter.Emit(
		fmt.Sprintf("Fetching %s account data...", r.vendor),
		progressx.StatusInProgress, false, nil,
	)

	accounts, err := r.d.source.ListAccounts(ctx)
	if err != nil {
		return r.fail("account", err)
	}
	if len(accounts) == 0 {
		msg := "No accounts found."
		r.reporter.Emit(msg, progressx.StatusError, true, contractx.ErrNoMatch)
		return formatx.Text(msg)
	}

	divisor := r.d.source.MinorUnitsPerMajor()
	rows := make([][]string, 0, len(accounts))
	for _, acc := range accounts {
		if acc.Closed {
			continue
		}
		rows = append(rows, []string{
			acc.Name,
			acc.Type,
			formatDecimal(acc.Balance, divisor),
		})
	}
	r.reporter.Dump("accounts", rows)

	table := formatx.Table{
		Title: fmt.Sprintf("All %s Accounts", r.vendor),
		Columns: []formatx.Column{
			{Name: "Account Name", Key: "name"},
			{Name: "Type", Key: "type"},
			{Name: "Balance", Key: "balance", RightAlign: true},
		},
		Rows: rows,
	}

	result, err := formatx.Render(table, r.d.conf.Format)
	if err != nil {
		return r.fail("account", err)
	}

	r.reporter.Emit(
		fmt.Sprintf("%s account data fetched successfully", r.vendor),
		progressx.StatusComplete, true, nil,
	)
	return result
}

func (r *run) fetchTransactions(ctx context.Context, decision contractx.Decision) formatx.Result {
	r.reporter.Emit(
		fmt.Sprintf("Fetching %s transaction data...", r.vendor),
		progressx.StatusInProgress, false, nil,
	)

	dates, err := daterangex.Resolve(decision.StartDate, decision.EndDate, r.today)
	if err != nil {
		return r.fail("transaction", err)
	}

	// lookup tables are fetched once and held for the run's duration
	categories, err := r.d.source.ListCategories(ctx)
	if err != nil {
		return r.fail("transaction", err)
	}
	payees, err := r.d.source.ListPayees(ctx)
	if err != nil {
		return r.fail("transaction", err)
	}
	categoryNames := nameLookup(categories)
	payeeNames := nameLookup(payees)

	transactions, err := r.d.source.ListTransactions(ctx, dates.Hint())
	if err != nil {
		return r.fail("transaction", err)
	}

	sentinels := map[string]bool{}
	for _, name := range r.d.source.StartingBalanceSentinels() {
		sentinels[name] = true
	}
	divisor := r.d.source.MinorUnitsPerMajor()
	accountNames := map[string]string{}

	rows := make([][]string, 0, len(transactions))
	for _, tx := range transactions {
		// sources may over-fetch; the inclusive bounds are enforced here
		if !dates.Contains(tx.Date) {
			continue
		}

		category := lookupOr(categoryNames, tx.CategoryID, "Uncategorized")
		payee := lookupOr(payeeNames, tx.PayeeID, "No Payee")

		// starting balances are account-opening adjustments, not real
		// transactions
		if sentinels[category] || sentinels[payee] {
			continue
		}

		account, err := r.accountName(ctx, tx.AccountID, accountNames)
		if err != nil {
			return r.fail("transaction", err)
		}

		rows = append(rows, []string{
			tx.Date,
			payee,
			formatCurrency(tx.Amount, divisor),
			category,
			account,
			tx.Notes,
		})
	}
	r.reporter.Dump("transactions", rows)

	if len(rows) == 0 {
		msg := "No transactions found."
		r.reporter.Emit(msg, progressx.StatusError, true, contractx.ErrNoMatch)
		return formatx.Text(msg)
	}

	table := formatx.Table{
		Title: fmt.Sprintf("All %s Transactions", r.vendor),
		Columns: []formatx.Column{
			{Name: "Transaction Date", Key: "date"},
			{Name: "Payee", Key: "payee"},
			{Name: "Amount", Key: "amount", RightAlign: true},
			{Name: "Category", Key: "category"},
			{Name: "Account", Key: "account"},
			{Name: "Notes", Key: "notes"},
		},
		Rows: rows,
	}

	result, err := formatx.Render(table, r.d.conf.Format)
	if err != nil {
		return r.fail("transaction", err)
	}

	r.reporter.Emit(
		fmt.Sprintf("%s transaction data fetched successfully", r.vendor),
		progressx.StatusComplete, true, nil,
	)
	return result
}

func (r *run) accountName(ctx context.Context, id string, cache map[string]string) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	acc, err := r.d.source.GetAccount(ctx, id)
	if err != nil {
		return "", err
	}
	name := "Unknown Account"
	if acc != nil && acc.Name != "" {
		name = acc.Name
	}
	cache[id] = name
	return name, nil
}

func (r *run) fail(operation string, cause error) formatx.Result {
	msg := fmt.Sprintf("%s %s data fetch failed.", r.vendor, operation)
	r.reporter.Emit(msg, progressx.StatusError, true, cause)
	return formatx.Text(fmt.Sprintf("%s Error: %v", msg, cause))
}

func nameLookup(items []contractx.NamedItem) map[string]string {
	lookup := make(map[string]string, len(items))
	for _, item := range items {
		lookup[item.ID] = item.Name
	}
	return lookup
}

func lookupOr(lookup map[string]string, id, fallback string) string {
	if name, ok := lookup[id]; ok && name != "" {
		return name
	}
	return fallback
}
