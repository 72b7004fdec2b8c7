package contract

// ToolDescriptor is one entry of the catalog offered to the classifier.
type ToolDescriptor struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// FinanceCatalog is the fixed tool catalog for the finance adapters. The
// classifier must answer with one of these ids or an empty list.
func FinanceCatalog(vendor string) []ToolDescriptor {
	return []ToolDescriptor{
		{
			ID:          "accounts",
			Description: "Retrieve a list of all account and balance details from " + vendor + ".",
		},
		{
			ID:          "transactions",
			Description: "Retrieve a list of all financial transaction details from " + vendor + ".",
		},
	}
}

// IntentKind is the closed set of classified intents. The dispatcher
// switches on it exhaustively; anything the model invents collapses to
// IntentNone at parse time.
type IntentKind string

const (
	IntentNone         IntentKind = ""
	IntentAccounts     IntentKind = "accounts"
	IntentTransactions IntentKind = "transactions"
)

// Decision is the classifier's output. Dates are raw ISO-8601 tokens as the
// model produced them; the date-range resolver validates and defaults them.
type Decision struct {
	Kind      IntentKind
	StartDate string
	EndDate   string
}

// Account is a raw vendor account. Balance is in the vendor's minor units.
type Account struct {
	ID       string
	Name     string
	Type     string
	Balance  int64
	Closed   bool
	OnBudget bool
}

// Transaction is a raw vendor transaction. Amount is in the vendor's minor
// units; Date is an ISO-8601 calendar date.
type Transaction struct {
	ID         string
	Date       string
	PayeeID    string
	CategoryID string
	AccountID  string
	Amount     int64
	Notes      string
}

// NamedItem is a category or payee lookup entry.
type NamedItem struct {
	ID   string
	Name string
}

// SearchResult is one scraped web search hit.
type SearchResult struct {
	Title    string
	URL      string
	Markdown string
}

// StatusEvent is what a run reports to its observer at each phase
// transition. Done is true exactly once per run, on the terminal event.
type StatusEvent struct {
	RunID       string `json:"run_id"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}
