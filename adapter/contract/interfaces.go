package contract

import "context"

// Completer is the language-model completion service: one non-streaming
// request with a system instruction and a single user turn.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DateRange is an inclusive calendar interval passed to a finance source as
// a narrowing hint. Sources may over-fetch; the dispatcher enforces the
// bounds client-side.
type DateRange struct {
	Start string
	End   string
}

// FinanceSource is the uniform surface over budgeting vendors. Both a local
// authenticated session (Actual) and a remote bearer-token API (YNAB) sit
// behind it.
type FinanceSource interface {
	Vendor() string
	ListAccounts(ctx context.Context) ([]Account, error)
	ListTransactions(ctx context.Context, hint *DateRange) ([]Transaction, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListCategories(ctx context.Context) ([]NamedItem, error)
	ListPayees(ctx context.Context) ([]NamedItem, error)

	// MinorUnitsPerMajor is the vendor's currency divisor (YNAB milliunits:
	// 1000, Actual centiunits: 100).
	MinorUnitsPerMajor() int64

	// StartingBalanceSentinels are the vendor's reserved category/payee
	// names for synthetic account-opening rows, excluded from output.
	StartingBalanceSentinels() []string
}

// SearchSource runs a web search and returns scraped markdown per hit.
type SearchSource interface {
	Search(ctx context.Context, query string, resultCount int) ([]SearchResult, error)
}

// ProgressSink receives status events as a run progresses. Optional.
type ProgressSink interface {
	Notify(event StatusEvent)
}
