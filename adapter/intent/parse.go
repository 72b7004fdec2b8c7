package intent

import (
	"encoding/json"
	"regexp"
	"strings"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

var bracketedList = regexp.MustCompile(`\[.*?\]`)

// ParseReply extracts a Decision from a free-text model reply. The model is
// asked for a list literal but is not guaranteed to produce one, so parsing
// is defensive: single quotes are normalized to JSON double quotes, the
// first bracketed substring is extracted, and any decode failure collapses
// to the none decision. ParseReply never fails.
//
// Accepted forms and their mapping:
//
//	[]                       -> none
//	["accounts"]             -> accounts
//	["transactions"]         -> transactions, no dates
//	["transactions", S]      -> transactions, start S (end defaults later)
//	["transactions", S, E]   -> transactions, start S, end E
//
// Dates on a non-transactions tag are carried through and ignored by the
// consumer. A first element outside the catalog, extra elements, or
// non-string elements collapse to none.
func ParseReply(reply string, catalog []contractx.ToolDescriptor) contractx.Decision {
	none := contractx.Decision{Kind: contractx.IntentNone}

	normalized := strings.ReplaceAll(reply, "'", `"`)
	match := bracketedList.FindString(normalized)
	if match == "" {
		return none
	}

	var elems []string
	if err := json.Unmarshal([]byte(match), &elems); err != nil {
		return none
	}
	if len(elems) == 0 || len(elems) > 3 {
		return none
	}

	kind := lookupKind(strings.TrimSpace(elems[0]), catalog)
	if kind == contractx.IntentNone {
		return none
	}

	decision := contractx.Decision{Kind: kind}
	if len(elems) >= 2 {
		decision.StartDate = strings.TrimSpace(elems[1])
	}
	if len(elems) == 3 {
		decision.EndDate = strings.TrimSpace(elems[2])
	}

	return decision
}

func lookupKind(id string, catalog []contractx.ToolDescriptor) contractx.IntentKind {
	for _, tool := range catalog {
		if tool.ID != id {
			continue
		}
		switch id {
		case string(contractx.IntentAccounts):
			return contractx.IntentAccounts
		case string(contractx.IntentTransactions):
			return contractx.IntentTransactions
		}
	}
	return contractx.IntentNone
}
